package handler

import (
	"net/http"

	"movierater/internal/microservices/http-api/dto"
	"movierater/internal/microservices/http-api/models"
	"movierater/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService service.SettingsService
}

func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	settings := router.Group("/settings")
	{
		settings.GET("/custom-fields", h.GetCustomFields)
		settings.PUT("/custom-fields", h.SaveCustomFields)
		settings.GET("/categories", h.GetCategorySettings)
		settings.PUT("/categories", h.SaveCategorySettings)
		settings.GET("/categories/list", h.ListCategories)
		settings.GET("/fields", h.GetFieldSettings)
		settings.PUT("/fields", h.SaveFieldSettings)
	}
}

// GET /api/settings/custom-fields
func (h *SettingsHandler) GetCustomFields(c *gin.Context) {
	resp, err := h.settingsService.GetCustomFields(c.Request.Context())
	if err != nil {
		respondRatingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PUT /api/settings/custom-fields
func (h *SettingsHandler) SaveCustomFields(c *gin.Context) {
	var req dto.CustomFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.settingsService.SaveCustomFields(c.Request.Context(), req.Fields)
	if err != nil {
		respondRatingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/settings/categories
func (h *SettingsHandler) GetCategorySettings(c *gin.Context) {
	settings, err := h.settingsService.GetCategorySettings(c.Request.Context())
	if err != nil {
		respondRatingError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// PUT /api/settings/categories
func (h *SettingsHandler) SaveCategorySettings(c *gin.Context) {
	var req models.ToggleSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.settingsService.SaveCategorySettings(c.Request.Context(), req)
	if err != nil {
		respondRatingError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// GET /api/settings/categories/list
func (h *SettingsHandler) ListCategories(c *gin.Context) {
	resp, err := h.settingsService.Categories(c.Request.Context())
	if err != nil {
		respondRatingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/settings/fields
func (h *SettingsHandler) GetFieldSettings(c *gin.Context) {
	settings, err := h.settingsService.GetFieldSettings(c.Request.Context())
	if err != nil {
		respondRatingError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// PUT /api/settings/fields
func (h *SettingsHandler) SaveFieldSettings(c *gin.Context) {
	var req models.ToggleSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.settingsService.SaveFieldSettings(c.Request.Context(), req)
	if err != nil {
		respondRatingError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}
