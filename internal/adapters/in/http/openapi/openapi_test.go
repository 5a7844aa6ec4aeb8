package openapi_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dispatch/internal/adapters/in/http/openapi"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func newValidatedEcho(t *testing.T) *echo.Echo {
	t.Helper()

	doc, err := openapi.Load()
	require.NoError(t, err)

	validator, err := openapi.RequestValidator(doc, func(c echo.Context, err error) error {
		return c.String(http.StatusBadRequest, err.Error())
	})
	require.NoError(t, err)

	e := echo.New()
	e.Use(validator)
	e.POST("/api/v1/groups/:groupId/orders", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return e
}

func TestLoad_DocumentIsValid(t *testing.T) {
	doc, err := openapi.Load()

	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/api/v1/groups/{groupId}/orders/bulk"))
	assert.NotNil(t, doc.Paths.Find("/api/v1/agents/{agentId}"))
}

func TestRequestValidator(t *testing.T) {
	e := newValidatedEcho(t)
	path := "/api/v1/groups/8f14e45f-ceea-467f-a8f0-8a2c5e2b0c11/orders"

	tests := []struct {
		name   string
		path   string
		shop   string
		body   string
		status int
	}{
		{name: "valid request", path: path, shop: "shop-1", body: `{"orderId":"5d41402a-bc4b-4a76-b971-9d911017c592"}`, status: http.StatusNoContent},
		{name: "missing shop header", path: path, body: `{"orderId":"5d41402a-bc4b-4a76-b971-9d911017c592"}`, status: http.StatusBadRequest},
		{name: "missing required field", path: path, shop: "shop-1", body: `{}`, status: http.StatusBadRequest},
		{name: "wrong field type", path: path, shop: "shop-1", body: `{"orderId":42}`, status: http.StatusBadRequest},
		{name: "undocumented path passes", path: "/health", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := http.MethodPost
			if tt.path == "/health" {
				method = http.MethodGet
			}
			req := httptest.NewRequest(method, tt.path, strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			if tt.shop != "" {
				req.Header.Set("X-Shop-ID", tt.shop)
			}
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRegister_PublishesJSONDocument(t *testing.T) {
	doc, err := openapi.Load()
	require.NoError(t, err)

	require.NoError(t, openapi.Register(doc))
	require.NoError(t, openapi.Register(doc))

	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	assert.Contains(t, raw, `"openapi":"3.0.3"`)
	assert.Contains(t, raw, "/api/v1/groups/assign")
}
