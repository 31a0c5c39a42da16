package api

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"companyfinder/internal/config"
	"companyfinder/internal/finder"
	"companyfinder/internal/models"
	"companyfinder/internal/page"
	"companyfinder/internal/validation"
)

// maxHTMLBytes caps the page markup accepted in a match request.
const maxHTMLBytes = 2 << 20

// MatchHandler answers which companies asked the problem on a page.
type MatchHandler struct {
	finder *finder.Finder
	cfg    *config.Config
}

// NewMatchHandler creates a new API match handler.
func NewMatchHandler(f *finder.Finder, cfg *config.Config) *MatchHandler {
	return &MatchHandler{finder: f, cfg: cfg}
}

type matchRequest struct {
	URL     string  `json:"url"`
	Heading *string `json:"heading"`
	Title   *string `json:"title"`
	HTML    string  `json:"html"`
}

// Get resolves a page described by query parameters.
func (h *MatchHandler) Get(c fiber.Ctx) error {
	args := c.Request().URI().QueryArgs()
	pc := page.Context{Address: c.Query("url")}
	if args.Has("heading") {
		pc = pc.WithHeading(c.Query("heading"))
	}
	if args.Has("title") {
		pc = pc.WithTitle(c.Query("title"))
	}
	return h.respond(c, pc)
}

// Post resolves a page described by a JSON body. When html is present the
// heading and title are read from the markup.
func (h *MatchHandler) Post(c fiber.Ctx) error {
	var body matchRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.HTML != "" {
		if len(body.HTML) > maxHTMLBytes {
			return jsonError(c, fiber.StatusRequestEntityTooLarge, "html too large")
		}
		pc, err := page.FromHTML(body.URL, strings.NewReader(body.HTML))
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid html")
		}
		return h.respond(c, pc)
	}

	pc := page.Context{Address: body.URL}
	if body.Heading != nil {
		pc = pc.WithHeading(*body.Heading)
	}
	if body.Title != nil {
		pc = pc.WithTitle(*body.Title)
	}
	return h.respond(c, pc)
}

// respond rejects only oversized addresses. Any other address, including an
// empty or malformed one, goes to the extractor so the heading and title
// rules still apply; 422 means none of them identified the problem.
func (h *MatchHandler) respond(c fiber.Ctx, pc page.Context) error {
	if valid, msg := validation.ValidatePageAddress(pc.Address); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	lookup, err := h.finder.Resolve(c.Context(), pc)
	if err != nil {
		if errors.Is(err, finder.ErrUnidentifiedPage) {
			return jsonError(c, fiber.StatusUnprocessableEntity, "cannot identify problem on this page")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to resolve page")
	}

	// Serve what we have; a stale or missing snapshot is refreshed behind
	// the response.
	if !lookup.Fresh {
		h.finder.EnsureFresh(context.Background())
	}

	return jsonSuccess(c, models.NewMatchResponse(h.cfg.CompanySiteURL, lookup.Result, lookup.Snapshot, lookup.Fresh))
}
