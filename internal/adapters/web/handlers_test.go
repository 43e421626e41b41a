package web_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"xembed/internal/adapters/web"
	"xembed/internal/domain"
	"xembed/internal/metadata"
	"xembed/internal/redirect"
	"xembed/internal/usecases"

	"github.com/gofiber/fiber/v2"
)

// stubSource is a FieldSource returning canned fields.
type stubSource struct {
	kind   domain.SourceKind
	fields domain.ExtractedFields
	err    error
	calls  int
}

func (s *stubSource) Kind() domain.SourceKind { return s.kind }

func (s *stubSource) Fetch(ctx context.Context, post domain.PostIdentifier) (*domain.ExtractedFields, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	f := s.fields
	return &f, nil
}

type testServer struct {
	app  *fiber.App
	json *stubSource
	html *stubSource
}

func newTestServer(production bool) *testServer {
	js := &stubSource{kind: domain.SourceJSON, fields: domain.ExtractedFields{
		Source:      domain.SourceJSON,
		DisplayName: "jack",
		Handle:      "jack",
		Tier:        domain.TierVerified,
		BodyText:    "just setting up my twttr",
		Photos:      []string{"https://pbs.twimg.com/media/a.jpg"},
	}}
	hs := &stubSource{kind: domain.SourceHTML, fields: domain.ExtractedFields{
		Source: domain.SourceHTML,
		Stats:  &domain.Stats{Views: "1M", Reposts: "120K", Replies: "15K", Likes: "180K", Bookmarks: "2K"},
	}}

	normalizer := metadata.New(metadata.Options{
		SiteLabel:   "xembed",
		OEmbedURL:   "https://embed.example.com/oembed",
		ProviderURL: "https://embed.example.com",
	})
	uc := usecases.NewResolveEmbedUseCase(domain.StrategyHybrid, js, hs, normalizer)
	handlers := web.NewHandlers(uc, redirect.NewBuilder(production, ""))

	app := fiber.New()
	web.SetupRoutes(app, handlers, nil)
	return &testServer{app: app, json: js, html: hs}
}

func (s *testServer) get(t *testing.T, target string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestPost_RendersPreviewMeta(t *testing.T) {
	// Arrange
	srv := newTestServer(false)

	// Act
	status, body := srv.get(t, "/jack/status/20")

	// Assert
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, body = %s", status, body)
	}
	for _, want := range []string{
		`<meta name="twitter:title" content="jack ✅ (@jack)">`,
		`<meta name="twitter:card" content="summary_large_image">`,
		`<meta name="twitter:image" content="https://pbs.twimg.com/media/a.jpg">`,
		`<meta property="og:description" content="just setting up my twttr">`,
		`<meta name="theme-color" content="#2B2D31">`,
		`type="application/json+oembed"`,
		`author_name=%F0%9F%91%80%201M`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %s\n%s", want, body)
		}
	}
	if strings.Contains(body, "<script") {
		t.Error("redirect script must not render outside production")
	}
}

func TestPost_Production_EmbedsRedirect(t *testing.T) {
	srv := newTestServer(true)

	status, body := srv.get(t, "/jack/status/20")

	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, `"twitter://status?id=20"`) || !strings.Contains(body, `"https://twitter.com/jack/status/20"`) {
		t.Errorf("redirect targets missing:\n%s", body)
	}
}

func TestPost_InvalidID_Returns400WithoutFetching(t *testing.T) {
	srv := newTestServer(false)

	for _, id := range []string{"abc", "12a4", strings.Repeat("9", 41)} {
		status, _ := srv.get(t, "/jack/status/"+id)

		if status != fiber.StatusBadRequest {
			t.Errorf("id %q: status = %d, want 400", id, status)
		}
	}
	if srv.json.calls != 0 || srv.html.calls != 0 {
		t.Errorf("sources called %d/%d times, want none", srv.json.calls, srv.html.calls)
	}
}

func TestPost_SourcesUnavailable_Returns502(t *testing.T) {
	srv := newTestServer(false)
	srv.json.err = fmt.Errorf("%w: status 404", domain.ErrSourceUnavailable)
	srv.html.err = fmt.Errorf("%w: timeout", domain.ErrSourceUnavailable)

	status, body := srv.get(t, "/jack/status/20")

	if status != fiber.StatusBadGateway {
		t.Errorf("status = %d, want 502", status)
	}
	if !strings.Contains(body, "couldn&#39;t be loaded") {
		t.Errorf("body = %s", body)
	}
}

func TestPost_PageMissing_DropsCounters(t *testing.T) {
	srv := newTestServer(false)
	srv.html.err = fmt.Errorf("%w: timeout", domain.ErrSourceUnavailable)

	status, body := srv.get(t, "/jack/status/20")

	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if strings.Contains(body, "%F0%9F%91%80") {
		t.Error("counter segment should be dropped when the page is unavailable")
	}
}

func TestPost_RateLimited_Returns429(t *testing.T) {
	srv := newTestServer(false)
	app := fiber.New()
	rl := web.NewRateLimiter(1, time.Minute)
	defer rl.Close()
	web.SetupRoutes(app, web.NewHandlers(
		usecases.NewResolveEmbedUseCase(domain.StrategyHTMLOnly, nil, srv.html, metadata.New(metadata.Options{})),
		redirect.NewBuilder(false, ""),
	), rl)

	first, _ := app.Test(httptest.NewRequest("GET", "/jack/status/20", nil))
	second, _ := app.Test(httptest.NewRequest("GET", "/jack/status/20", nil))

	if first.StatusCode != fiber.StatusOK {
		t.Errorf("first status = %d", first.StatusCode)
	}
	if second.StatusCode != fiber.StatusTooManyRequests {
		t.Errorf("second status = %d, want 429", second.StatusCode)
	}
	if second.Header.Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q", second.Header.Get("Retry-After"))
	}
	if srv.html.calls != 1 {
		t.Errorf("rejected request reached the source: %d calls", srv.html.calls)
	}
}

func TestOEmbed_EchoesDiscoveryParameters(t *testing.T) {
	srv := newTestServer(false)

	status, body := srv.get(t, "/oembed?author_name=%F0%9F%91%80%201M&author_url=https://twitter.com/@jack&provider_name=xembed&provider_url=https://embed.example.com")

	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var got web.OEmbedResponse
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	want := web.OEmbedResponse{
		Type:         "link",
		Version:      "1.0",
		AuthorName:   "👀 1M",
		AuthorURL:    "https://twitter.com/@jack",
		ProviderName: "xembed",
		ProviderURL:  "https://embed.example.com",
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestOEmbed_URLParameter(t *testing.T) {
	srv := newTestServer(false)

	status, body := srv.get(t, "/oembed?url=https://x.com/jack/status/20")
	if status != fiber.StatusOK || !strings.Contains(body, `"author_url":"https://twitter.com/jack"`) {
		t.Errorf("status = %d, body = %s", status, body)
	}

	status, _ = srv.get(t, "/oembed?url=https://example.com/nothing")
	if status != fiber.StatusBadRequest {
		t.Errorf("invalid url: status = %d, want 400", status)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(false)

	status, body := srv.get(t, "/healthz")

	if status != fiber.StatusOK || body != `{"status":"ok"}` {
		t.Errorf("status = %d, body = %s", status, body)
	}
}
