package web

import (
	"context"
	"errors"

	"xembed/internal/domain"
	"xembed/internal/usecases"
	"xembed/pkg/log"
	"xembed/templates/pages"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// EmbedResolver resolves a post into its preview document.
type EmbedResolver interface {
	Execute(ctx context.Context, username, postID string) (*usecases.EmbedResult, error)
}

// RedirectBuilder decides whether and where the page sends visitors.
type RedirectBuilder interface {
	Build(post domain.PostIdentifier) (domain.RedirectDirective, bool)
}

// Handlers contains the HTTP handlers for the preview service.
type Handlers struct {
	resolver  EmbedResolver
	redirects RedirectBuilder
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(resolver EmbedResolver, redirects RedirectBuilder) *Handlers {
	return &Handlers{resolver: resolver, redirects: redirects}
}

// render writes a templ component as the response body.
func render(c *fiber.Ctx, component templ.Component) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return adaptor.HTTPHandler(templ.Handler(component))(c)
}

// renderError writes the error page with the status matching err.
func renderError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return adaptor.HTTPHandler(templ.Handler(pages.Error(friendlyError(err)), templ.WithStatus(status)))(c)
}

// Post renders the preview for /:username/status/:id.
func (h *Handlers) Post(c *fiber.Ctx) error {
	ctx := c.UserContext()
	username := c.Params("username")
	postID := c.Params("id")

	result, err := h.resolver.Execute(ctx, username, postID)
	if err != nil {
		log.GlobalWarnCtx(ctx, "preview failed", "username", username, "post_id", postID, "error", err)
		return renderError(c, err)
	}

	view := pages.EmbedView{Metadata: result.Metadata}
	if d, ok := h.redirects.Build(result.Post); ok {
		view.Redirect = &d
	}
	if result.Degraded {
		c.Set("X-Preview-Degraded", "1")
	}
	return render(c, pages.Embed(view))
}

// OEmbedResponse is the oEmbed 1.0 "link" document.
type OEmbedResponse struct {
	Type         string `json:"type"`
	Version      string `json:"version"`
	AuthorName   string `json:"author_name,omitempty"`
	AuthorURL    string `json:"author_url,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
	ProviderURL  string `json:"provider_url,omitempty"`
}

// OEmbed echoes the discovery link's parameters back as an oEmbed
// document. Consumers that follow the oEmbed convention also send url;
// when present it must be a post link and fills in author_url.
func (h *Handlers) OEmbed(c *fiber.Ctx) error {
	resp := OEmbedResponse{
		Type:         "link",
		Version:      "1.0",
		AuthorName:   c.Query("author_name"),
		AuthorURL:    c.Query("author_url"),
		ProviderName: c.Query("provider_name"),
		ProviderURL:  c.Query("provider_url"),
	}

	if raw := c.Query("url"); raw != "" {
		post, err := ParsePostURL(raw)
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": friendlyError(err)})
		}
		if resp.AuthorURL == "" {
			resp.AuthorURL = "https://twitter.com/" + post.Username
		}
	}

	return c.JSON(resp)
}

// Health reports liveness.
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidIdentifier):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrRateLimited):
		return fiber.StatusTooManyRequests
	case errors.Is(err, domain.ErrSourceUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// friendlyError returns a neutral, non-blaming error message.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidIdentifier):
		return "That doesn't look like a post link. Post ids are numbers of up to 40 digits."
	case errors.Is(err, domain.ErrRateLimited):
		return "Too many requests. Please wait a moment and try again."
	case errors.Is(err, domain.ErrSourceUnavailable):
		return "This post couldn't be loaded. It might be private or no longer available."
	default:
		return "Unable to build a preview right now. Please try again in a moment."
	}
}
