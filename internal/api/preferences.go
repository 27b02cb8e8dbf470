package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mealscribe/backend/internal/service"
	"github.com/mealscribe/backend/internal/types"
)

// PreferencesHandler handles user preference requests. Authentication is
// owned by the upstream gateway; it forwards the verified identity in the
// X-User-ID header.
type PreferencesHandler struct {
	preferencesService service.IPreferencesService
}

// NewPreferencesHandler creates a new PreferencesHandler instance
func NewPreferencesHandler(preferencesService service.IPreferencesService) *PreferencesHandler {
	return &PreferencesHandler{preferencesService: preferencesService}
}

// RegisterRoutes registers the preferences routes
func (h *PreferencesHandler) RegisterRoutes(router *gin.RouterGroup) {
	prefs := router.Group("/preferences")
	{
		prefs.GET("", h.Get)
		prefs.PATCH("", h.Update)
	}
}

// Get returns the stored preferences for the requesting user.
func (h *PreferencesHandler) Get(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	prefs, err := h.preferencesService.Get(c.Request.Context(), userID)
	if err != nil {
		log.Printf("failed to load preferences: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load preferences"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// Update merges a partial preferences payload into the stored row.
func (h *PreferencesHandler) Update(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	var req types.PreferencesUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, violationTree(err))
		return
	}

	prefs, err := h.preferencesService.Update(c.Request.Context(), userID, &req)
	if err != nil {
		log.Printf("failed to update preferences: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to update preferences"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// requestUserID extracts the forwarded identity, writing a 401 when it is
// missing or not a UUID.
func requestUserID(c *gin.Context) (uuid.UUID, bool) {
	header := c.GetHeader("X-User-ID")
	if header == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(header)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return uuid.Nil, false
	}

	return userID, true
}
