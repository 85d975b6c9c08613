package handlers

import (
	"github.com/gofiber/fiber/v2"

	"draftshop/internal/domain"
	"draftshop/internal/log"
	"draftshop/internal/services"
	"draftshop/internal/validate"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

// GET /
func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		log.Error(c, "home.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load the catalog"})
	}
	return render(c, "home", fiber.Map{"Categories": cats})
}

// GET /category/:id
func (h *CategoryHandler) Page(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "Category not found")
	}
	cat, err := h.Catalog.GetCategory(c.UserContext(), id)
	if err != nil {
		return notFound(c, "Category not found")
	}
	listings, err := h.Catalog.ProductsInCategory(c.UserContext(), id)
	if err != nil {
		log.Error(c, "category.page.fail", err, map[string]any{"id": id})
		return notFound(c, "Category not found")
	}
	products := make([]ItemView, 0, len(listings))
	for i := range listings {
		products = append(products, viewListing(&listings[i]))
	}
	return render(c, "category", fiber.Map{"Category": cat, "Products": products})
}

// GET /api/v1/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return fail(c, "categories.list", err)
	}
	return c.JSON(fiber.Map{"categories": cats})
}

// GET /api/v1/categories/:id
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, "categories.get", domain.ErrNotFound)
	}
	cat, err := h.Catalog.GetCategory(c.UserContext(), id)
	if err != nil {
		return fail(c, "categories.get", err)
	}
	return c.JSON(cat)
}

// GET /api/v1/categories/:id/products
func (h *CategoryHandler) Products(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, "categories.products", domain.ErrNotFound)
	}
	listings, err := h.Catalog.ProductsInCategory(c.UserContext(), id)
	if err != nil {
		return fail(c, "categories.products", err)
	}
	out := make([]ItemView, 0, len(listings))
	for i := range listings {
		out = append(out, viewListing(&listings[i]))
	}
	return c.JSON(fiber.Map{"items": out})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": msg})
}
