package handlers

import (
	"github.com/gofiber/fiber/v2"

	"draftshop/internal/domain"
	applog "draftshop/internal/log"
	"draftshop/internal/services"
	"draftshop/internal/validate"
)

type AdminHandler struct {
	Catalog *services.CatalogService
}

// POST /api/v1/categories
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var in CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	name, ok := validate.Name(in.Name)
	desc, okDesc := validate.Text(in.Description)
	if !ok || !okDesc {
		return fail(c, "admin.categories.create", domain.ErrValidation)
	}
	cat := domain.NewCategory(name, desc)
	if err := h.Catalog.CreateCategory(c.UserContext(), &cat); err != nil {
		return fail(c, "admin.categories.create", err)
	}
	applog.Audit(c, "admin.categories.create", map[string]any{"category_id": cat.ID})
	return c.Status(fiber.StatusCreated).JSON(cat)
}

// POST /api/v1/products/:variant
func (h *AdminHandler) CreateItem(c *fiber.Ctx) error {
	v, ok := validate.Variant(c.Params("variant"))
	if !ok {
		return fail(c, "admin.products.create", domain.ErrUnknownVariant)
	}
	var in ItemInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	it := &domain.Item{Product: domain.NewProduct("")}
	if field, err := in.apply(v, it); err != nil {
		applog.Security(c, "admin.products.reject", map[string]any{"field": field})
		return fail(c, "admin.products.create", err)
	}
	created, err := h.Catalog.CreateItem(c.UserContext(), it)
	if err != nil {
		return fail(c, "admin.products.create", err)
	}
	applog.Audit(c, "admin.products.create", map[string]any{"variant": v, "id": created.ID})
	return c.Status(fiber.StatusCreated).JSON(viewItem(created))
}

// PUT /api/v1/products/:variant/:id
func (h *AdminHandler) UpdateItem(c *fiber.Ctx) error {
	v, okV := validate.Variant(c.Params("variant"))
	id, okID := validate.ID(c.Params("id"))
	if !okV || !okID {
		return fail(c, "admin.products.update", domain.ErrNotFound)
	}
	var in ItemInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	it, err := h.Catalog.GetItem(c.UserContext(), v, id)
	if err != nil {
		return fail(c, "admin.products.update", err)
	}
	if field, err := in.apply(v, it); err != nil {
		applog.Security(c, "admin.products.reject", map[string]any{"field": field, "id": id})
		return fail(c, "admin.products.update", err)
	}
	it.UpdatedAt = domain.Now()
	if err := h.Catalog.UpdateItem(c.UserContext(), it); err != nil {
		return fail(c, "admin.products.update", err)
	}
	applog.Audit(c, "admin.products.update", map[string]any{"variant": v, "id": id})
	return c.JSON(viewItem(it))
}
