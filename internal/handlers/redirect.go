package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v3"

	"companyfinder/internal/config"
	"companyfinder/internal/models"
	"companyfinder/internal/validation"
)

// RedirectHandler sends users to the company site.
type RedirectHandler struct {
	cfg *config.Config
}

// NewRedirectHandler creates a new redirect handler.
func NewRedirectHandler(cfg *config.Config) *RedirectHandler {
	return &RedirectHandler{cfg: cfg}
}

// Company redirects to a company's problem list.
func (h *RedirectHandler) Company(c fiber.Ctx) error {
	key, err := url.PathUnescape(c.Params("key"))
	if err != nil || !validation.ValidateCompanyKey(key) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid company key")
	}
	return c.Redirect().Status(fiber.StatusFound).To(models.CompanyURL(h.cfg.CompanySiteURL, key))
}

// Search redirects to a problem search for a slug.
func (h *RedirectHandler) Search(c fiber.Ctx) error {
	slug, err := url.PathUnescape(c.Params("slug"))
	if err != nil || !validation.ValidateSearchSlug(slug) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid slug")
	}
	return c.Redirect().Status(fiber.StatusFound).To(models.SearchURL(h.cfg.CompanySiteURL, slug))
}
