package handler

import (
	"net/http"

	"docindex/internal/docindex/mapping"
	"docindex/internal/docindex/model"

	"github.com/labstack/echo/v4"
)

// MappingHandler exposes the metadata of every entity the server has mapped.
type MappingHandler struct {
	Mappings *mapping.Context
}

func NewMappingHandler(m *mapping.Context) *MappingHandler {
	return &MappingHandler{Mappings: m}
}

// GetMappings handles GET /mappings
func (h *MappingHandler) GetMappings(c echo.Context) error {
	entities := h.Mappings.Entities()
	views := make([]model.MappingView, 0, len(entities))
	for _, e := range entities {
		views = append(views, model.NewMappingView(e))
	}
	return c.JSON(http.StatusOK, views)
}

// GetMapping handles GET /mappings/:name
func (h *MappingHandler) GetMapping(c echo.Context) error {
	e, ok := h.Mappings.Lookup(c.Param("name"))
	if !ok {
		return respond(c, http.StatusNotFound, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "not_found", Message: "No mapping for " + c.Param("name")},
		})
	}
	return c.JSON(http.StatusOK, model.NewMappingView(e))
}
