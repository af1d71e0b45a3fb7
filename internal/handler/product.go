package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/cart-service/internal/domain"
	"github.com/nikolayk812/cart-service/internal/dto"
	"github.com/nikolayk812/cart-service/internal/service"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	BaseHandler
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /products?limit=&offset=.
func (h *ProductHandler) List(c *gin.Context) {
	var query dto.ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	products, err := h.products.List(c.Request.Context(), query.Limit, query.Offset)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewProductListResponse(products))
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewProductResponse(product))
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	price, ok := h.parsePrice(c, req.Price)
	if !ok {
		return
	}

	product, err := h.products.Create(c.Request.Context(), service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       price,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.NewProductResponse(product))
}

// UpdatePrice handles PATCH /products/:id/price. Carts keep the price they
// were added at.
func (h *ProductHandler) UpdatePrice(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	price, ok := h.parsePrice(c, req.Price)
	if !ok {
		return
	}

	product, err := h.products.UpdatePrice(c.Request.Context(), id, price)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewProductResponse(product))
}

// Prices arrive as decimal strings in the shop currency.
func (h *ProductHandler) parsePrice(c *gin.Context, raw string) (domain.Money, bool) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		h.BadRequest(c, "invalid price format")
		return domain.Money{}, false
	}

	return domain.Money{
		Amount:   amount,
		Currency: h.products.Currency(),
	}, true
}
