package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/contentalchemy/alchemy/core/content"
	"github.com/contentalchemy/alchemy/providers/image/dalle"
)

const samplePostText = `Hiring engineers is harder than ever.

Here is what worked for us last quarter.

What has worked for your team?

#Hiring #Engineering #Leadership`

func TestLinkedInWriteExtractsHashtags(t *testing.T) {
	agent := NewLinkedInAgent(fixedAnswer(samplePostText), nil)

	got, err := agent.Write(context.Background(), content.DefaultRequirements("hiring"), nil)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !got.Success {
		t.Fatalf("Write() result = %+v, want success", got)
	}

	want := []string{"#Hiring", "#Engineering", "#Leadership"}
	if diff := cmp.Diff(want, got.Hashtags); diff != "" {
		t.Errorf("Hashtags mismatch (-want +got):\n%s", diff)
	}
	if got.CharacterCount != len(samplePostText) {
		t.Errorf("CharacterCount = %d, want %d", got.CharacterCount, len(samplePostText))
	}
	if got.EngagementScore < 0 || got.EngagementScore > 10 {
		t.Errorf("EngagementScore = %v, want within [0,10]", got.EngagementScore)
	}
}

func TestLinkedInWriteImageSoftFailure(t *testing.T) {
	images := &stubImages{enabled: true, err: errors.New("image backend unreachable")}
	agent := NewLinkedInAgent(fixedAnswer(samplePostText), images)

	got, err := agent.Write(context.Background(), content.DefaultRequirements("hiring"), nil)
	if err != nil {
		t.Fatalf("Write() error = %v, image faults must not fail the post", err)
	}
	if !got.Success {
		t.Fatal("Success = false, want true despite image failure")
	}
	if got.ImageError == "" {
		t.Error("ImageError is empty, want the captured failure")
	}
	if got.ImageURL != "" {
		t.Errorf("ImageURL = %q, want empty", got.ImageURL)
	}
	if got.Content == "" {
		t.Error("post content was lost")
	}
}

func TestLinkedInWriteAttachesImage(t *testing.T) {
	images := &stubImages{enabled: true, result: &dalle.GenerateResult{Success: true, ImageURL: "https://img/post.png"}}
	agent := NewLinkedInAgent(fixedAnswer(samplePostText), images)

	got, err := agent.Write(context.Background(), content.DefaultRequirements("hiring"), nil)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got.ImageURL != "https://img/post.png" {
		t.Errorf("ImageURL = %q", got.ImageURL)
	}
	if got.ImagePrompt == "" {
		t.Error("ImagePrompt is empty")
	}
	if images.calls != 1 {
		t.Errorf("image client calls = %d, want 1", images.calls)
	}
}

func TestLinkedInWriteSkipsDisabledImageClient(t *testing.T) {
	images := &stubImages{enabled: false}
	agent := NewLinkedInAgent(fixedAnswer(samplePostText), images)

	got, err := agent.Write(context.Background(), content.DefaultRequirements("hiring"), nil)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if images.calls != 0 {
		t.Errorf("image client calls = %d, want 0", images.calls)
	}
	if got.ImageURL != "" || got.ImageError != "" {
		t.Errorf("image fields = %q/%q, want empty", got.ImageURL, got.ImageError)
	}
}

func TestLinkedInRefineKeepsImage(t *testing.T) {
	agent := NewLinkedInAgent(fixedAnswer("Revised post.\n\nStill engaging?\n\n#Revised"), nil)

	original := &content.LinkedInResult{
		Success:  true,
		Content:  samplePostText,
		Hashtags: []string{"#Hiring"},
		ImageURL: "https://img/original.png",
	}
	got, err := agent.Refine(context.Background(), original, "shorter")
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if got.ImageURL != "https://img/original.png" {
		t.Errorf("ImageURL = %q, want original attachment carried over", got.ImageURL)
	}
	if len(got.Hashtags) != 1 || got.Hashtags[0] != "#Revised" {
		t.Errorf("Hashtags = %v", got.Hashtags)
	}
}

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name string
		post string
		want []string
	}{
		{
			name: "dedupes case-insensitively",
			post: "#Go #go #GO #Cloud",
			want: []string{"#Go", "#Cloud"},
		},
		{
			name: "caps at ten",
			post: "#a #b #c #d #e #f #g #h #i #j #k #l",
			want: []string{"#a", "#b", "#c", "#d", "#e", "#f", "#g", "#h", "#i", "#j"},
		},
		{
			name: "none found",
			post: "no tags here",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, extractHashtags(tt.post)); diff != "" {
				t.Errorf("extractHashtags() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFallbackHashtags(t *testing.T) {
	fromKeywords := fallbackHashtags(content.Requirements{Keywords: []string{"cloud native", "golang"}})
	want := []string{"#cloudnative", "#golang"}
	if diff := cmp.Diff(want, fromKeywords); diff != "" {
		t.Errorf("fallbackHashtags() mismatch (-want +got):\n%s", diff)
	}

	generic := fallbackHashtags(content.Requirements{})
	if len(generic) == 0 {
		t.Error("fallbackHashtags() with no keywords returned nothing")
	}
}

func TestScoreEngagementBounds(t *testing.T) {
	posts := []string{
		"",
		samplePostText,
		"A?\n\nB\n\nC\n\nD" + string(make([]byte, 600)),
	}
	for _, post := range posts {
		score := scoreEngagement(post, []string{"#a", "#b", "#c"})
		if score < 0 || score > 10 {
			t.Errorf("scoreEngagement(%q...) = %v, out of bounds", post[:min(len(post), 20)], score)
		}
	}
}
