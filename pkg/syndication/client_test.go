package syndication

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const samplePayload = `{
	"id_str": "1683920951807971329",
	"text": "hello world",
	"created_at": "2023-07-25T18:04:09.000Z",
	"user": {"name": "Jack", "screen_name": "jack", "verified": false, "is_blue_verified": true, "verified_type": "Business"},
	"photos": [{"url": "https://pbs.twimg.com/media/a.jpg", "width": 10, "height": 10}],
	"video": {"poster": "p.jpg", "variants": [{"type": "video/mp4", "src": "https://video.twimg.com/v.mp4"}]},
	"birdwatch_pivot": {"title": "Readers added context", "subtitle": {"text": "Context body"}}
}`

func TestClient_FetchPost_SendsExpectedRequest(t *testing.T) {
	var gotQuery map[string]string
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		q := r.URL.Query()
		gotQuery = map[string]string{
			"id":       q.Get("id"),
			"lang":     q.Get("lang"),
			"token":    q.Get("token"),
			"features": q.Get("features"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, WithBaseURL(srv.URL))

	post, err := c.FetchPost(context.Background(), "1683920951807971329")
	if err != nil {
		t.Fatalf("FetchPost() error = %v", err)
	}

	if gotUA != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, DefaultUserAgent)
	}
	if gotQuery["id"] != "1683920951807971329" {
		t.Errorf("id = %q", gotQuery["id"])
	}
	if gotQuery["lang"] != "en" {
		t.Errorf("lang = %q, want en", gotQuery["lang"])
	}
	if gotQuery["token"] != "42y6zv7ufp" {
		t.Errorf("token = %q, want 42y6zv7ufp", gotQuery["token"])
	}
	if !strings.Contains(gotQuery["features"], "tfw_show_birdwatch_pivots_enabled:on;") {
		t.Errorf("features missing birdwatch flag: %q", gotQuery["features"])
	}

	if post.User.ScreenName != "jack" || !post.User.IsBlueVerified {
		t.Errorf("unexpected user: %+v", post.User)
	}
	if len(post.Photos) != 1 || post.Photos[0].URL != "https://pbs.twimg.com/media/a.jpg" {
		t.Errorf("unexpected photos: %+v", post.Photos)
	}
	if post.Video == nil || post.Video.Variants[0].Type != "video/mp4" {
		t.Errorf("unexpected video: %+v", post.Video)
	}
	if post.Birdwatch == nil || post.Birdwatch.Subtitle != "Context body" {
		t.Errorf("unexpected birdwatch: %+v", post.Birdwatch)
	}
}

func TestClient_FetchPost_NonOKStatus_ReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, WithBaseURL(srv.URL))

	_, err := c.FetchPost(context.Background(), "20")
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("expected ErrUnexpectedStatus, got %v", err)
	}
}

func TestClient_FetchPost_InvalidJSON_ReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, WithBaseURL(srv.URL))

	if _, err := c.FetchPost(context.Background(), "20"); err == nil {
		t.Error("expected decode error")
	}
}

func TestClient_FetchPost_CancelledContext_ReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, WithBaseURL(srv.URL))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.FetchPost(ctx, "20"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestNoteText_AcceptsStringAndObject(t *testing.T) {
	var s NoteText
	if err := s.UnmarshalJSON([]byte(`"plain"`)); err != nil || s != "plain" {
		t.Errorf("string form: got %q, %v", s, err)
	}

	var o NoteText
	if err := o.UnmarshalJSON([]byte(`{"text":"nested","entities":[]}`)); err != nil || o != "nested" {
		t.Errorf("object form: got %q, %v", o, err)
	}

	var bad NoteText
	if err := bad.UnmarshalJSON([]byte(`42`)); err == nil {
		t.Error("expected error for numeric subtitle")
	}
}
