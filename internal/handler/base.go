package handler

import (
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nikolayk812/cart-service/internal/dto"
	"github.com/nikolayk812/cart-service/internal/logger"
	"github.com/nikolayk812/cart-service/internal/service"
	"go.uber.org/zap"
	"net/http"
)

// BaseHandler provides common response helpers.
type BaseHandler struct{}

func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// ErrorWithCode sends an error response, deriving the status from code.
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code),
		dto.NewErrorResponse(code, message, c.GetString(logger.RequestIDKey)))
}

func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeInvalidInput, message)
}

// BindError reports a failed ShouldBind* call.
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.ErrorWithCode(c, dto.ErrCodeBodyTooLarge, "request body exceeds maximum allowed size")
		return
	}
	h.BadRequest(c, err.Error())
}

// HandleError maps a service error to a response. Internal errors are logged
// and their message is not exposed.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if service.IsClientError(err) {
		h.ErrorWithCode(c, dto.ErrorCode(err), err.Error())
		return
	}

	_ = c.Error(err)
	logger.FromGin(c).Error("request failed", zap.Error(err))
	h.ErrorWithCode(c, dto.ErrCodeInternal, "internal server error")
}

func (h *BaseHandler) parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
