// Package content holds the domain types shared by the router, the agents,
// and the workflow: intents, content requirements, and the typed results each
// production step emits.
package content

// Intent identifies the kind of content a run should produce.
type Intent string

const (
	IntentUnset    Intent = ""
	IntentBlog     Intent = "blog"
	IntentLinkedIn Intent = "linkedin"
	IntentResearch Intent = "research"
	IntentImage    Intent = "image"
	IntentStrategy Intent = "strategy"
)

// Valid reports whether the intent is one of the recognized labels.
func (i Intent) Valid() bool {
	switch i {
	case IntentBlog, IntentLinkedIn, IntentResearch, IntentImage, IntentStrategy:
		return true
	}
	return false
}

// Requirements captures what the user asked for, normalized into the fields
// the generation agents consume.
type Requirements struct {
	Topic          string   `json:"topic"`
	Tone           string   `json:"tone"`
	Length         string   `json:"length"`
	TargetAudience string   `json:"target_audience"`
	Keywords       []string `json:"keywords"`
	Style          string   `json:"style"`
}

// DefaultRequirements returns the baseline used when extraction fails or
// leaves fields blank.
func DefaultRequirements(topic string) Requirements {
	return Requirements{
		Topic:          topic,
		Tone:           "professional",
		Length:         "medium",
		TargetAudience: "general",
		Keywords:       []string{},
		Style:          "informative",
	}
}

// Overlay copies non-zero fields of other onto r and returns the result.
// Zero-valued fields in other never erase what r already has.
func (r Requirements) Overlay(other Requirements) Requirements {
	if other.Topic != "" {
		r.Topic = other.Topic
	}
	if other.Tone != "" {
		r.Tone = other.Tone
	}
	if other.Length != "" {
		r.Length = other.Length
	}
	if other.TargetAudience != "" {
		r.TargetAudience = other.TargetAudience
	}
	if len(other.Keywords) > 0 {
		r.Keywords = other.Keywords
	}
	if other.Style != "" {
		r.Style = other.Style
	}
	return r
}

// Source is one search hit collected during research.
type Source struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Source  string `json:"source"`
	Snippet string `json:"snippet,omitempty"`
}

// ResearchResult is the outcome of the research step. Success=false carries
// the reason in Error; a failed research never aborts a run, downstream steps
// simply generate without it.
type ResearchResult struct {
	Success   bool     `json:"success"`
	Query     string   `json:"query"`
	Summary   string   `json:"summary,omitempty"`
	KeyPoints []string `json:"key_points,omitempty"`
	Sources   []Source `json:"sources,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// BlogResult is a generated blog post.
type BlogResult struct {
	Success         bool   `json:"success"`
	Title           string `json:"title,omitempty"`
	Content         string `json:"content,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
	WordCount       int    `json:"word_count,omitempty"`
	Provider        string `json:"provider,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Primary returns the payload that decides whether this result counts as
// produced content. Nil-safe.
func (b *BlogResult) Primary() string {
	if b == nil {
		return ""
	}
	return b.Content
}

// LinkedInResult is a generated LinkedIn post, optionally with an accompanying
// image. Image generation is best-effort: ImageError records a failed attempt
// without failing the post.
type LinkedInResult struct {
	Success         bool     `json:"success"`
	Content         string   `json:"content,omitempty"`
	Hashtags        []string `json:"hashtags,omitempty"`
	EngagementScore float64  `json:"engagement_score,omitempty"`
	CharacterCount  int      `json:"character_count,omitempty"`
	ImageURL        string   `json:"image_url,omitempty"`
	ImagePrompt     string   `json:"image_prompt,omitempty"`
	ImageError      string   `json:"image_error,omitempty"`
	Provider        string   `json:"provider,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// Primary returns the post body. Nil-safe.
func (l *LinkedInResult) Primary() string {
	if l == nil {
		return ""
	}
	return l.Content
}

// ImageResult is a generated standalone image.
type ImageResult struct {
	Success       bool   `json:"success"`
	ImageURL      string `json:"image_url,omitempty"`
	Prompt        string `json:"prompt,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
	Model         string `json:"model,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Primary returns the image URL. Nil-safe.
func (i *ImageResult) Primary() string {
	if i == nil {
		return ""
	}
	return i.ImageURL
}

// StrategyResult is a content strategy brief.
type StrategyResult struct {
	Success  bool   `json:"success"`
	Brief    string `json:"brief,omitempty"`
	Topic    string `json:"topic,omitempty"`
	Provider string `json:"provider,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Primary returns the brief text. Nil-safe.
func (s *StrategyResult) Primary() string {
	if s == nil {
		return ""
	}
	return s.Brief
}

// QualityReport scores produced content across fixed dimensions on a 0-10
// scale. Overall is the mean of the five dimension scores.
type QualityReport struct {
	Clarity    float64 `json:"clarity"`
	Structure  float64 `json:"structure"`
	SEO        float64 `json:"seo"`
	Engagement float64 `json:"engagement"`
	BrandVoice float64 `json:"brand_voice"`
	Overall    float64 `json:"overall"`
	Feedback   string  `json:"feedback,omitempty"`
}
