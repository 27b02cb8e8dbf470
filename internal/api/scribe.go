package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mealscribe/backend/internal/schema"
	"github.com/mealscribe/backend/internal/service"
	"github.com/mealscribe/backend/internal/types"
)

// ScribeHandler handles recipe extraction and clarification requests
type ScribeHandler struct {
	scribeService service.IScribeService
}

// NewScribeHandler creates a new ScribeHandler instance
func NewScribeHandler(scribeService service.IScribeService) *ScribeHandler {
	return &ScribeHandler{scribeService: scribeService}
}

// RegisterRoutes registers the scribe routes. The admission middleware
// guards only the engine-backed routes; scaling is local and unmetered.
func (h *ScribeHandler) RegisterRoutes(router *gin.RouterGroup, admission ...gin.HandlerFunc) {
	scribe := router.Group("/scribe")
	engineBacked := scribe.Group("")
	engineBacked.Use(admission...)
	{
		engineBacked.POST("/normalize", h.Normalize)
		engineBacked.POST("/update", h.Update)
	}
	scribe.POST("/scale", h.Scale)
}

// Normalize turns raw cooking notes into a structured recipe.
func (h *ScribeHandler) Normalize(c *gin.Context) {
	var req types.NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, violationTree(err))
		return
	}

	system := schema.MeasurementSystem(req.MeasurementSystem)
	if system == "" {
		system = schema.MeasurementUS
	}

	recipe, err := h.scribeService.Normalize(c.Request.Context(), req.Notes, system)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// Update reconciles clarification answers into the supplied recipe.
func (h *ScribeHandler) Update(c *gin.Context) {
	var req types.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, violationTree(err))
		return
	}

	// The recipe in an update request must itself be schema-valid; a
	// client cannot submit a shape the extraction pass could never have
	// produced.
	if violations := schema.Validate(&req.Recipe); len(violations) > 0 {
		c.JSON(http.StatusBadRequest, schemaViolationTree(violations))
		return
	}

	recipe, err := h.scribeService.Update(c.Request.Context(), &req.Recipe, req.QuestionAnswers)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// Scale rescales ingredient quantities for a new servings count without an
// inference round trip.
func (h *ScribeHandler) Scale(c *gin.Context) {
	var req types.ScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, violationTree(err))
		return
	}

	if violations := schema.Validate(&req.Recipe); len(violations) > 0 {
		c.JSON(http.StatusBadRequest, schemaViolationTree(violations))
		return
	}

	recipe, err := service.ScaleRecipe(&req.Recipe, req.Servings)
	if err != nil {
		if errors.Is(err, service.ErrRecipeServingsUnknown) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// writeServiceError maps the error taxonomy onto status codes: caller
// mistakes are 400-class, engine unreachability is 503, and engine output
// the Validator refused is 502. Engine-side failures are never retried
// here; the caller owns retry policy.
func (h *ScribeHandler) writeServiceError(c *gin.Context, err error) {
	var engineErr *service.EngineUnavailableError
	var malformedErr *schema.MalformedOutputError
	var schemaErr *schema.SchemaViolationError

	switch {
	case errors.Is(err, service.ErrEmptyNotes), errors.Is(err, service.ErrMissingRecipe):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.As(err, &engineErr):
		log.Printf("inference engine unavailable: %v", engineErr.Err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "inference engine unavailable"})
	case errors.As(err, &malformedErr):
		log.Printf("engine returned malformed output: %v", malformedErr.Err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "engine returned malformed output"})
	case errors.As(err, &schemaErr):
		log.Printf("engine output failed schema validation: %v", schemaErr)
		c.JSON(http.StatusBadGateway, schemaViolationTree(schemaErr.Violations))
	default:
		log.Printf("scribe request failed: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
