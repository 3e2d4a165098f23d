package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString(TraceIDKey),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString(TraceIDKey),
	})
}

// HandleServiceError maps service sentinels to HTTP statuses. Anything it
// does not recognise is logged and reported as a 500.
func HandleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, ErrPlanLimitExceeded):
		RespondError(c, http.StatusUnprocessableEntity, "Plan limit exceeded for this project")
	case errors.Is(err, ErrVersionNameConflict):
		RespondError(c, http.StatusConflict, "A plan with this version name already exists")
	case errors.Is(err, ErrMissingConfiguration):
		RespondError(c, http.StatusPreconditionFailed, "Project has no usable trip configuration")
	case errors.Is(err, ErrPlanNotFound):
		RespondError(c, http.StatusNotFound, "Plan not found")
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidPage):
		RespondError(c, http.StatusBadRequest, "Page must be greater than 0")
	case errors.Is(err, ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, "Page size is out of range")
	case errors.Is(err, ErrDatabaseError):
		logger.Error("database error", zap.String(FieldTraceID, c.GetString(TraceIDKey)), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		logger.Error("unhandled service error", zap.String(FieldTraceID, c.GetString(TraceIDKey)), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
