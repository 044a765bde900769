package serpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, func()) {
	server := httptest.NewServer(handler)
	client := New().WithAPIKey("test-key").WithBaseURL(server.URL).WithHttpClient(server.Client())
	return client, server.Close
}

func TestSearchParsesOrganicResults(t *testing.T) {
	client, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if got := query.Get("q"); got != "edge computing" {
			t.Errorf("q = %q", got)
		}
		if got := query.Get("api_key"); got != "test-key" {
			t.Errorf("api_key = %q", got)
		}
		if got := query.Get("engine"); got != "google" {
			t.Errorf("engine = %q", got)
		}
		_, _ = w.Write([]byte(`{
			"organic_results": [
				{"title": "First", "link": "https://a", "snippet": "sa", "position": 1},
				{"title": "Second", "link": "https://b", "snippet": "sb", "position": 2}
			]
		}`))
	})
	defer done()

	got, err := client.Search(context.Background(), "edge computing", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !got.Success {
		t.Fatalf("response = %+v, want success", got)
	}
	if len(got.Results) != 2 || got.Results[0].Title != "First" {
		t.Errorf("Results = %+v", got.Results)
	}
}

func TestSearchTruncatesToRequestedCount(t *testing.T) {
	client, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"organic_results": [
			{"title": "1"}, {"title": "2"}, {"title": "3"}
		]}`))
	})
	defer done()

	got, err := client.Search(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got.Results) != 2 {
		t.Errorf("len(Results) = %d, want 2", len(got.Results))
	}
}

func TestSearchWithoutAPIKey(t *testing.T) {
	client := New().WithAPIKey("")

	got, err := client.Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("Search() error = %v, missing key is a signaled failure", err)
	}
	if got.Success {
		t.Fatal("Success = true, want false")
	}
	if !strings.Contains(got.Error, "SERP_API_KEY") {
		t.Errorf("Error = %q", got.Error)
	}
}

func TestSearchQuotaRejectionIsSignaledFailure(t *testing.T) {
	client, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "quota exceeded"}`))
	})
	defer done()

	got, err := client.Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("Search() error = %v, quota rejection must not be a Go error", err)
	}
	if got.Success {
		t.Fatal("Success = true, want false")
	}
}

func TestSearchServerErrorPropagates(t *testing.T) {
	client, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer done()

	if _, err := client.Search(context.Background(), "q", 5); err == nil {
		t.Error("Search() error = nil, want 500 to propagate")
	}
}

func TestSearchBodyErrorField(t *testing.T) {
	client, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "Google hasn't returned any results for this query."}`))
	})
	defer done()

	got, err := client.Search(context.Background(), "gibberish", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got.Success {
		t.Fatal("Success = true, want false")
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	client := New().WithAPIKey("key")
	if _, err := client.Search(context.Background(), "   ", 5); err == nil {
		t.Error("Search() error = nil, want error for empty query")
	}
}

func TestFormatForPrompt(t *testing.T) {
	response := &Response{
		Success: true,
		Query:   "q",
		Results: []Result{{Title: "Title", Link: "https://a", Snippet: "snippet"}},
	}

	formatted := response.FormatForPrompt()
	for _, fragment := range []string{"Title", "https://a", "snippet"} {
		if !strings.Contains(formatted, fragment) {
			t.Errorf("FormatForPrompt() missing %q:\n%s", fragment, formatted)
		}
	}

	var empty *Response
	if got := empty.FormatForPrompt(); !strings.Contains(got, "No search results") {
		t.Errorf("nil FormatForPrompt() = %q", got)
	}
}
