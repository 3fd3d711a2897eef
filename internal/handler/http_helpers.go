package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/lenscraft/internal/schema"
	"github.com/lenscraft/internal/service"
)

// package-level logger used by handlers; can be replaced via SetLogger.
var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// SetLogger installs a logger for the handler package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

const (
	maxJSONBody = 1 << 20

	msgInvalidData  = "Invalid data"
	msgNotFound     = "Not found"
	msgUnauthorized = "Unauthorized"
	msgInternal     = "Internal server error"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func respondValidation(c *gin.Context, verr *schema.ValidationError) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidData, "details": verr})
}

func readBody(c *gin.Context) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxJSONBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxJSONBody {
		return nil, schema.NewValidationError("body", "Request body is too large")
	}
	return body, nil
}

// writeError 把服务层错误映射为状态码。存储错误只记录日志，不向调用方暴露细节。
func writeError(c *gin.Context, err error) {
	var (
		verr     *schema.ValidationError
		rejected *service.UploadRejectedError
		storeErr *service.StoreError
	)

	switch {
	case errors.As(err, &verr):
		respondValidation(c, verr)
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUnknownKind):
		respondError(c, http.StatusNotFound, msgNotFound)
	case errors.Is(err, service.ErrUnknownSettingsKey):
		respondError(c, http.StatusBadRequest, "Invalid settings key")
	case errors.As(err, &rejected):
		respondError(c, http.StatusBadRequest, rejected.Reason)
	case errors.As(err, &storeErr):
		logger.Error("store failure",
			slog.String("op", storeErr.Op),
			slog.String("kind", storeErr.Kind),
			slog.String("path", c.Request.URL.Path),
			slog.Any("err", storeErr.Err),
		)
		respondError(c, http.StatusInternalServerError, msgInternal)
	default:
		logger.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Any("err", err),
		)
		respondError(c, http.StatusInternalServerError, msgInternal)
	}
}
