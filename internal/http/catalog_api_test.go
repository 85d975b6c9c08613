package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"draftshop/internal/config"
	"draftshop/internal/http/handlers"
	applog "draftshop/internal/log"
	"draftshop/internal/repos"
)

const adminPass = "s3cret-pass"

// itemResp mirrors handlers.ItemView with attributes left as a plain map.
type itemResp struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Price      int64          `json:"price"`
	Quantity   int64          `json:"quantity"`
	CategoryID int64          `json:"category_id"`
	Attributes map[string]any `json:"attributes"`
}

func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	return newTestAppWithMedia(t, t.TempDir())
}

func newTestAppWithMedia(t *testing.T, mediaDir string) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(repos.DriverSQLite, ":memory:", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPass), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := config.Config{AdminUser: "admin", AdminHash: string(hash), MediaDir: mediaDir}

	engine := html.New("../../web/templates", ".html")
	return handlers.NewApp(db, cfg, engine), db
}

func do(t *testing.T, app *fiber.App, method, path string, body any, auth bool) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.SetBasicAuth("admin", adminPass)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func TestHealthz(t *testing.T) {
	app, _ := newTestApp(t)
	resp, _ := do(t, app, "GET", "/healthz", nil, false)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestListAndGetSeededItems(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := do(t, app, "GET", "/api/v1/products/clothing", nil, false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	var list struct {
		Items []itemResp `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Linen shirt", list.Items[0].Name)
	assert.Equal(t, int64(3900), list.Items[0].Price)

	resp, body = do(t, app, "GET", "/api/v1/products/electronic/2", nil, false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"brand":"Zenith"`)
}

func TestNotFoundResponses(t *testing.T) {
	app, _ := newTestApp(t)
	for _, path := range []string{
		"/api/v1/products/clothing/999",
		"/api/v1/products/clothing/abc",
		"/api/v1/products/furniture",
		"/api/v1/categories/999",
		"/api/v1/categories/999/products",
	} {
		resp, body := do(t, app, "GET", path, nil, false)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, "%s: %s", path, body)
	}
}

func TestWritesRequireAdmin(t *testing.T) {
	app, db := newTestApp(t)
	var before int
	require.NoError(t, db.Get(&before, `SELECT COUNT(*) FROM product`))

	resp, _ := do(t, app, "POST", "/api/v1/products/clothing", map[string]any{"name": "Cap", "price": 100}, false)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var after int
	require.NoError(t, db.Get(&after, `SELECT COUNT(*) FROM product`))
	assert.Equal(t, before, after)
}

func TestCreateAndUpdateItem(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := do(t, app, "POST", "/api/v1/products/clothing", map[string]any{
		"name":        "Hoodie",
		"photos":      []string{"products/hoodie/main.jpg"},
		"price":       5500,
		"quantity":    12,
		"category_id": 1,
		"attributes":  map[string]any{"size": "L", "color": "Grey", "type": "hoodie", "material_fee": 300},
	}, true)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	var created itemResp
	require.NoError(t, json.Unmarshal(body, &created))
	require.Greater(t, created.ID, int64(0))

	path := "/api/v1/products/clothing/" + strconv.FormatInt(created.ID, 10)
	resp, body = do(t, app, "GET", path, nil, false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"size":"L"`)
	assert.Contains(t, string(body), `"color":"Grey"`)

	resp, body = do(t, app, "PUT", path, map[string]any{
		"name":       "Hoodie",
		"price":      4900,
		"quantity":   11,
		"attributes": map[string]any{"size": "XL", "color": "Grey"},
	}, true)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	resp, body = do(t, app, "GET", path, nil, false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var got itemResp
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, int64(4900), got.Price)
	assert.Equal(t, int64(11), got.Quantity)
	assert.Equal(t, int64(0), got.CategoryID)
	assert.Equal(t, "XL", got.Attributes["size"])
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	app, db := newTestApp(t)
	var before int
	require.NoError(t, db.Get(&before, `SELECT COUNT(*) FROM product`))

	resp, body := do(t, app, "POST", "/api/v1/products/electronic", map[string]any{
		"name": "Bad radio", "price": -1, "attributes": map[string]any{"brand": "X"},
	}, true)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "price")

	resp, _ = do(t, app, "POST", "/api/v1/products/electronic", map[string]any{
		"name": "Bad fee", "price": 10, "attributes": map[string]any{"brand": "X", "warranty_fee": -10},
	}, true)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var after int
	require.NoError(t, db.Get(&after, `SELECT COUNT(*) FROM product`))
	assert.Equal(t, before, after)
}

func TestUpdateMissingItem(t *testing.T) {
	app, _ := newTestApp(t)
	resp, _ := do(t, app, "PUT", "/api/v1/products/electronic/1", map[string]any{
		"name": "Not a radio", "price": 1, "attributes": map[string]any{"brand": "X"},
	}, true)
	// id 1 is the seeded shirt, which has no electronic row
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreateCategory(t *testing.T) {
	app, _ := newTestApp(t)
	resp, body := do(t, app, "POST", "/api/v1/categories", map[string]any{"name": "Shoes", "description": "Footwear"}, true)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	resp, body = do(t, app, "GET", "/api/v1/categories", nil, false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"name":"Shoes"`)
}

func TestStorageErrorsDoNotLeak(t *testing.T) {
	app, db := newTestApp(t)
	_, err := db.Exec(`UPDATE product SET photos = 'secret-garbage' WHERE id = 1`)
	require.NoError(t, err)

	resp, body := do(t, app, "GET", "/api/v1/products/clothing/1", nil, false)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "Something went wrong")
	assert.NotContains(t, string(body), "secret-garbage")
	assert.NotContains(t, string(body), "photos")
}

func TestPages(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := do(t, app, "GET", "/", nil, false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Clothes")

	resp, body = do(t, app, "GET", "/category/1", nil, false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `/product/clothing/1`)

	resp, body = do(t, app, "GET", "/product/clothing/1", nil, false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Linen shirt")

	resp, _ = do(t, app, "GET", "/product/clothing/2", nil, false)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuf) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

func TestAuditAndSecurityLogs(t *testing.T) {
	app, _ := newTestApp(t)
	buf := &lockedBuf{}
	applog.SetOutput(buf)
	t.Cleanup(func() { applog.SetOutput(io.Discard) })

	resp, _ := do(t, app, "POST", "/api/v1/categories", map[string]any{"name": "Bags"}, true)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp, _ = do(t, app, "POST", "/api/v1/categories", map[string]any{"name": "Bags"}, false)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	type entry struct {
		Action string         `json:"action"`
		Level  string         `json:"level"`
		User   string         `json:"user"`
		Fields map[string]any `json:"fields"`
	}
	var audit, denied *entry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e entry
		if json.Unmarshal([]byte(line), &e) != nil {
			continue
		}
		switch e.Action {
		case "admin.categories.create":
			audit = &e
		case "access.denied.admin":
			denied = &e
		}
	}
	require.NotNil(t, audit, "audit entry missing; logs=%s", buf.String())
	assert.Equal(t, "audit", audit.Fields["kind"])
	assert.Equal(t, "admin", audit.User)
	require.NotNil(t, denied, "security entry missing; logs=%s", buf.String())
	assert.Equal(t, "warning", denied.Level)
}

