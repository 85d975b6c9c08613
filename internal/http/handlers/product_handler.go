package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"draftshop/internal/domain"
	"draftshop/internal/log"
	"draftshop/internal/services"
	"draftshop/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/products/:variant
func (h *ProductHandler) List(c *fiber.Ctx) error {
	v, ok := validate.Variant(c.Params("variant"))
	if !ok {
		return fail(c, "products.list", domain.ErrUnknownVariant)
	}
	items, err := h.Catalog.ListItems(c.UserContext(), v)
	if err != nil {
		return fail(c, "products.list", err)
	}
	out := make([]ItemView, 0, len(items))
	for i := range items {
		out = append(out, viewItem(&items[i]))
	}
	return c.JSON(fiber.Map{"items": out})
}

// GET /api/v1/products/:variant/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	v, okV := validate.Variant(c.Params("variant"))
	id, okID := validate.ID(c.Params("id"))
	if !okV || !okID {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	it, err := h.Catalog.GetItem(c.UserContext(), v, id)
	if err != nil {
		return fail(c, "products.get", err)
	}
	return c.JSON(viewItem(it))
}

// GET /product/:variant/:id
func (h *ProductHandler) Page(c *fiber.Ctx) error {
	v, okV := validate.Variant(c.Params("variant"))
	id, okID := validate.ID(c.Params("id"))
	if !okV || !okID {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, "This item is no longer available")
	}
	it, err := h.Catalog.GetItem(c.UserContext(), v, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrUnknownVariant) {
			log.Error(c, "product.page.fail", err, map[string]any{"id": id})
		}
		return notFound(c, "This item is no longer available")
	}
	data := fiber.Map{"P": viewItem(it), "Photos": photoURLs(it.Photos)}
	if cat, err := h.Catalog.CategoryOf(c.UserContext(), it); err == nil {
		data["Category"] = cat
	}
	return render(c, "product", data)
}
