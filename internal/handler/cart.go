package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nikolayk812/cart-service/internal/dto"
	"github.com/nikolayk812/cart-service/internal/middleware"
	"github.com/nikolayk812/cart-service/internal/service"
)

const defaultAddQuantity = 1

// CartHandler serves the caller's cart. Identity comes from
// middleware.Identity; the body never names the owner.
type CartHandler struct {
	BaseHandler
	carts *service.CartService
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.carts.Get(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewCartResponse(cart))
}

// AddItem handles POST /carts/items.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "invalid productId format")
		return
	}

	qty := defaultAddQuantity
	if req.Qty != nil {
		qty = *req.Qty
	}

	cart, err := h.carts.AddItem(c.Request.Context(), middleware.OwnerID(c), productID, qty)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.NewCartResponse(cart))
}

// SetItemQuantity handles PATCH /carts/items/:productId. A qty of zero or
// less removes the item.
func (h *CartHandler) SetItemQuantity(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "productId")
	if !ok {
		return
	}

	var req dto.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.carts.SetItemQuantity(c.Request.Context(), middleware.OwnerID(c), productID, *req.Qty)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewCartResponse(cart))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "productId")
	if !ok {
		return
	}

	cart, err := h.carts.RemoveItem(c.Request.Context(), middleware.OwnerID(c), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewCartResponse(cart))
}

func (h *CartHandler) Clear(c *gin.Context) {
	cart, err := h.carts.Clear(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewCartResponse(cart))
}
