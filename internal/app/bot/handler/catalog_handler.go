package handler

import (
	"context"
	"errors"
	"net/http"

	"gigmatch/internal/app/bot/entity"
	"gigmatch/internal/app/bot/service"

	"github.com/gin-gonic/gin"
)

type CatalogServiceInterface interface {
	GetCategory(ctx context.Context, title string) (*entity.Category, error)
	GetCategories(ctx context.Context) ([]entity.Category, error)
}

type CatalogHandler struct {
	catalogService CatalogServiceInterface
}

func NewCatalogHandler(catalogService CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.catalogService.GetCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get categories"})
		return
	}

	response := entity.CategoryListResponse{
		Categories: categories,
		Total:      len(categories),
	}

	c.JSON(http.StatusOK, response)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	title := c.Param("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category title is required"})
		return
	}

	category, err := h.catalogService.GetCategory(c.Request.Context(), title)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get category"})
		return
	}

	c.JSON(http.StatusOK, category)
}
