package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/cart-service/internal/dto"
	"github.com/nikolayk812/cart-service/internal/logger"
	"github.com/nikolayk812/cart-service/internal/port"
	"go.uber.org/zap"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotentReplayedHeader = "Idempotent-Replayed"
	maxIdempotencyKeyLength  = 255
)

// Idempotency replays the stored response of an earlier request carrying the
// same Idempotency-Key from the same owner. Requests without the header pass
// through. A repeat arriving while the first is still running gets 409.
// Server errors are not stored, so the client may retry them. Reusing a key
// with a different body gets 422.
func Idempotency(store port.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			abortWithError(c, dto.ErrCodeInvalidInput, "Idempotency-Key is too long")
			return
		}

		log := logger.FromGin(c)
		ctx := c.Request.Context()
		storeKey := idempotencyStoreKey(c, key)

		requestHash, err := hashRequestBody(c)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				abortWithError(c, dto.ErrCodeBodyTooLarge, "request body exceeds maximum allowed size")
				return
			}
			abortWithError(c, dto.ErrCodeInvalidInput, "failed to read request body")
			return
		}

		reserved, err := store.Reserve(ctx, storeKey, ttl)
		if err != nil {
			log.Error("store.Reserve", zap.Error(err))
			abortWithError(c, dto.ErrCodeInternal, "internal server error")
			return
		}

		if !reserved {
			stored, err := store.Lookup(ctx, storeKey)
			if err != nil {
				log.Error("store.Lookup", zap.Error(err))
				abortWithError(c, dto.ErrCodeInternal, "internal server error")
				return
			}
			if stored == nil {
				abortWithError(c, dto.ErrCodeConflict, "a request with this Idempotency-Key is in progress")
				return
			}
			if stored.RequestHash != requestHash {
				abortWithError(c, dto.ErrCodeKeyReused, "Idempotency-Key was used with a different request body")
				return
			}

			log.Debug("idempotent replay", zap.String("idempotency_key", key))
			c.Header(IdempotentReplayedHeader, "true")
			c.Data(stored.Status, stored.ContentType, stored.Body)
			c.Abort()
			return
		}

		// Detached so a cancelled request still settles the reservation.
		settleCtx := context.WithoutCancel(ctx)
		completed := false
		defer func() {
			if completed {
				return
			}
			if err := store.Release(settleCtx, storeKey); err != nil {
				log.Warn("store.Release", zap.Error(err))
			}
		}()

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder

		c.Next()

		status := recorder.Status()
		if status >= http.StatusInternalServerError {
			return
		}

		resp := port.StoredResponse{
			Status:      status,
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
			RequestHash: requestHash,
		}
		if err := store.Complete(settleCtx, storeKey, resp, ttl); err != nil {
			log.Warn("store.Complete", zap.Error(err))
			return
		}
		completed = true
	}
}

// Keys are scoped by owner and route so one client's key cannot collide
// with another's.
func idempotencyStoreKey(c *gin.Context, key string) string {
	return strings.Join([]string{OwnerID(c), c.Request.Method, c.FullPath(), key}, ":")
}

// hashRequestBody digests the body and leaves it readable for the handler.
func hashRequestBody(c *gin.Context) (string, error) {
	if c.Request.Body == nil {
		return "", nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", fmt.Errorf("io.ReadAll: %w", err)
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
