package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/karthickraj/user-profile-service/internal/core/domain"
	logicv1 "github.com/karthickraj/user-profile-service/internal/logic/v1"
	"github.com/karthickraj/user-profile-service/middleware"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	service *logicv1.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service *logicv1.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// parseID extracts the :id path parameter. A non-numeric id behaves like a
// missing user, so callers get the same 404 shape either way.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return 0, false
	}
	return id, true
}

// CreateUser handles POST /users.
func (h *UserHandler) CreateUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	var req domain.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		logger.Error("Invalid create request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeValidationError(err)})
		return
	}

	id, view, err := h.service.CreateUser(ctx, req)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to create user", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Info("User created", zap.Int64("user_id", id))
	c.JSON(http.StatusCreated, gin.H{
		"created_user_id": id,
		"created_user":    view,
	})
}

// GetUser handles GET /users/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	id, ok := parseID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("user.id", id))

	view, err := h.service.GetUser(ctx, id)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("Failed to get user", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, view)
}

// ListUsers handles GET /users with optional company/bank/pincode filters.
func (h *UserHandler) ListUsers(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	filter := domain.ListFilter{
		Company: c.Query("company"),
		Bank:    c.Query("bank"),
		Pincode: c.Query("pincode"),
	}

	users, err := h.service.ListUsers(ctx, filter)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UpdateUser handles PUT /users/:id, the partial-update path.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	id, ok := parseID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("user.id", id))

	var req domain.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		logger.Error("Invalid update request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeValidationError(err)})
		return
	}

	result, err := h.service.UpdateUser(ctx, id, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("Failed to update user", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Info("User updated",
		zap.Int64("user_id", id),
		zap.Strings("updated_sections", result.UpdatedSections),
	)
	c.JSON(http.StatusOK, result)
}

// DeleteUser handles DELETE /users/:id.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	id, ok := parseID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("user.id", id))

	if err := h.service.DeleteUser(ctx, id); err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("Failed to delete user", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Info("User deleted", zap.Int64("user_id", id))
	c.JSON(http.StatusOK, gin.H{"deleted_user_id": id})
}

// AddEmployment handles POST /users/:id/employment.
func (h *UserHandler) AddEmployment(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var p domain.EmploymentPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		span.RecordError(err)
		logger.Error("Invalid employment payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeValidationError(err)})
		return
	}

	emp, err := h.service.AddEmployment(ctx, id, p)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("Failed to add employment", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Info("Employment added", zap.Int64("user_id", id))
	c.JSON(http.StatusCreated, emp)
}

// AddBank handles POST /users/:id/bank.
func (h *UserHandler) AddBank(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var p domain.BankPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		span.RecordError(err)
		logger.Error("Invalid bank payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeValidationError(err)})
		return
	}

	bank, err := h.service.AddBank(ctx, id, p)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("Failed to add bank", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Info("Bank record added", zap.Int64("user_id", id))
	c.JSON(http.StatusCreated, bank)
}
