package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"gigmatch/internal/app/bot/entity"
	"gigmatch/internal/app/bot/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProfileServiceInterface interface {
	RegisterUser(ctx context.Context, req *entity.RegisterUserRequest) (*entity.User, error)
	GetProfile(ctx context.Context, chatID int64) (*entity.User, error)
	ToggleAvailability(ctx context.Context, chatID int64) (*entity.User, error)
	ToggleCategory(ctx context.Context, chatID int64, categoryID primitive.ObjectID) (*entity.User, bool, error)
}

type ProfileHandler struct {
	profileService ProfileServiceInterface
	validator      *validator.Validate
}

func NewProfileHandler(profileService ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		validator:      validator.New(),
	}
}

func (h *ProfileHandler) RegisterUser(c *gin.Context) {
	var req entity.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	user, err := h.profileService.RegisterUser(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	chatID, ok := parseChatID(c)
	if !ok {
		return
	}

	user, err := h.profileService.GetProfile(c.Request.Context(), chatID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *ProfileHandler) ToggleAvailability(c *gin.Context) {
	chatID, ok := parseChatID(c)
	if !ok {
		return
	}

	user, err := h.profileService.ToggleAvailability(c.Request.Context(), chatID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle availability"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *ProfileHandler) ToggleCategory(c *gin.Context) {
	chatID, ok := parseChatID(c)
	if !ok {
		return
	}

	categoryID, err := primitive.ObjectIDFromHex(c.Param("category_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	user, added, err := h.profileService.ToggleCategory(c.Request.Context(), chatID, categoryID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		case errors.Is(err, service.ErrPartialToggle):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Category toggle partially applied"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle category"})
		}
		return
	}

	c.JSON(http.StatusOK, entity.ToggleCategoryResponse{
		User:  user,
		Added: added,
	})
}

func parseChatID(c *gin.Context) (int64, bool) {
	chatID, err := strconv.ParseInt(c.Param("chat_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat ID"})
		return 0, false
	}
	return chatID, true
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
