package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/cart-service/internal/config"
	"github.com/nikolayk812/cart-service/internal/domain"
	"github.com/nikolayk812/cart-service/internal/dto"
	"github.com/nikolayk812/cart-service/internal/middleware"
	"github.com/nikolayk812/cart-service/internal/port"
	"github.com/nikolayk812/cart-service/internal/repository/memory"
	"github.com/nikolayk812/cart-service/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/currency"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router   *gin.Engine
	products *service.ProductService
}

// newTestEnv wires handlers over the in-memory store. carts overrides the
// cart repository when non-nil.
func newTestEnv(t *testing.T, carts port.CartRepository) *testEnv {
	t.Helper()

	log := zaptest.NewLogger(t)
	productRepo := memory.NewProduct()
	if carts == nil {
		carts = memory.NewCart(productRepo, currency.USD)
	}

	products := service.NewProductService(productRepo, currency.USD, log)
	cartHandler := NewCartHandler(service.NewCartService(carts, productRepo, nil, log))
	productHandler := NewProductHandler(products)

	router := gin.New()
	router.GET("/products", productHandler.List)
	router.GET("/products/:id", productHandler.Get)
	router.POST("/products", productHandler.Create)
	router.PATCH("/products/:id/price", productHandler.UpdatePrice)

	cartGroup := router.Group("/carts", middleware.Identity(middleware.IdentityConfig{Mode: config.AuthModeHeader}))
	cartGroup.GET("", cartHandler.Get)
	cartGroup.DELETE("", cartHandler.Clear)
	cartGroup.POST("/items", cartHandler.AddItem)
	cartGroup.PATCH("/items/:productId", cartHandler.SetItemQuantity)
	cartGroup.DELETE("/items/:productId", cartHandler.RemoveItem)

	return &testEnv{router: router, products: products}
}

func (e *testEnv) do(t *testing.T, method, path, owner string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if owner != "" {
		req.Header.Set(middleware.UserIDHeader, owner)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createProduct(t *testing.T, name, price string) domain.Product {
	t.Helper()

	product, err := e.products.Create(context.Background(), service.CreateProductInput{
		Name: name,
		Price: domain.Money{
			Amount:   decimal.RequireFromString(price),
			Currency: currency.USD,
		},
	})
	require.NoError(t, err)
	return product
}

// decodeData unmarshals a success envelope's data into T.
func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var envelope struct {
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	require.True(t, envelope.Success, w.Body.String())
	return envelope.Data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorInfo {
	t.Helper()

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return *resp.Error
}
