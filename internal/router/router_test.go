package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/cart-service/internal/auth"
	"github.com/nikolayk812/cart-service/internal/cache"
	"github.com/nikolayk812/cart-service/internal/config"
	"github.com/nikolayk812/cart-service/internal/domain"
	"github.com/nikolayk812/cart-service/internal/dto"
	"github.com/nikolayk812/cart-service/internal/handler"
	"github.com/nikolayk812/cart-service/internal/logger"
	"github.com/nikolayk812/cart-service/internal/middleware"
	"github.com/nikolayk812/cart-service/internal/repository/memory"
	"github.com/nikolayk812/cart-service/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/currency"
)

type routerSuite struct {
	suite.Suite

	engine   *gin.Engine
	tokens   *auth.TokenService
	products *service.ProductService
}

func TestRouterSuite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(routerSuite))
}

func (suite *routerSuite) SetupTest() {
	log := zaptest.NewLogger(suite.T())

	productRepo := memory.NewProduct()
	cartRepo := memory.NewCart(productRepo, currency.USD)

	suite.products = service.NewProductService(productRepo, currency.USD, log)
	suite.tokens = auth.NewTokenService("router-test-secret-at-least-32-bytes", "cart-service", time.Hour)

	idempotency := cache.NewMemoryIdempotencyStore()
	suite.T().Cleanup(func() { _ = idempotency.Close() })

	suite.engine = New(log, Config{
		MaxBodySize: 1 << 10,
		Identity: middleware.IdentityConfig{
			Mode:   config.AuthModeToken,
			Tokens: suite.tokens,
		},
		Idempotency:    idempotency,
		IdempotencyTTL: time.Minute,
	}, Handlers{
		Cart:    handler.NewCartHandler(service.NewCartService(cartRepo, productRepo, nil, log)),
		Product: handler.NewProductHandler(suite.products),
		Health:  handler.NewHealthHandler(nil),
	})
}

func (suite *routerSuite) request(method, path, token, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	suite.engine.ServeHTTP(w, req)
	return w
}

func (suite *routerSuite) issue(userID string) string {
	token, _, err := suite.tokens.Issue(userID)
	suite.Require().NoError(err)
	return token
}

func (suite *routerSuite) TestHealth() {
	w := suite.request(http.MethodGet, "/health", "", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.NotEmpty(w.Header().Get(logger.RequestIDHeader))
}

func (suite *routerSuite) TestNoRoute() {
	w := suite.request(http.MethodGet, "/nope", "", "", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), dto.ErrCodeRouteNotFound)
}

func (suite *routerSuite) TestCartsRequireToken() {
	w := suite.request(http.MethodGet, "/carts", "", "", map[string]string{middleware.UserIDHeader: "user-1"})

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *routerSuite) TestProductsArePublic() {
	w := suite.request(http.MethodGet, "/products", "", "", nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *routerSuite) TestBodyLimit() {
	body := `{"name":"` + strings.Repeat("x", 2048) + `","price":"1.00"}`

	w := suite.request(http.MethodPost, "/products", "", body, nil)

	suite.Equal(http.StatusRequestEntityTooLarge, w.Code)
}

func (suite *routerSuite) TestIdempotentAddItem() {
	product, err := suite.products.Create(context.Background(), service.CreateProductInput{
		Name:  "Mug",
		Price: domain.Money{Amount: decimal.RequireFromString("7.00"), Currency: currency.USD},
	})
	suite.Require().NoError(err)

	token := suite.issue("user-1")
	body := `{"productId":"` + product.ID.String() + `","qty":2}`
	headers := map[string]string{middleware.IdempotencyKeyHeader: "retry-1"}

	first := suite.request(http.MethodPost, "/carts/items", token, body, headers)
	suite.Require().Equal(http.StatusCreated, first.Code, first.Body.String())

	second := suite.request(http.MethodPost, "/carts/items", token, body, headers)
	suite.Require().Equal(http.StatusCreated, second.Code)
	suite.Equal("true", second.Header().Get(middleware.IdempotentReplayedHeader))

	changed := `{"productId":"` + product.ID.String() + `","qty":3}`
	reused := suite.request(http.MethodPost, "/carts/items", token, changed, headers)
	suite.Equal(http.StatusUnprocessableEntity, reused.Code)

	w := suite.request(http.MethodGet, "/carts", token, "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	cart := decodeCart(suite.T(), w)
	suite.Require().Len(cart.Items, 1)
	suite.Equal(2, cart.Items[0].Quantity)
	suite.Equal("14.00", cart.Subtotal.Amount)
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) dto.CartResponse {
	t.Helper()

	var envelope struct {
		Success bool             `json:"success"`
		Data    dto.CartResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	return envelope.Data
}
