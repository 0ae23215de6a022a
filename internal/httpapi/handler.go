package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/herd-ag/herdstore/internal/mapping"
	"github.com/herd-ag/herdstore/internal/record"
	"github.com/herd-ag/herdstore/internal/store"
)

// Handler serves record operations.
type Handler struct {
	store *store.Store
}

// NewHandler creates a new handler.
func NewHandler(s *store.Store) *Handler {
	return &Handler{store: s}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	e.GET("/v1/records/:type", h.ListRecords)
	e.GET("/v1/records/:type/:id", h.GetRecord)
	e.POST("/v1/records/:type", h.SaveRecord)
}

// ListResponse is the body of a list request.
type ListResponse struct {
	Type    string          `json:"type"`
	Count   int             `json:"count"`
	Records []record.Record `json:"records"`
}

// SaveResponse is the body of a successful save.
type SaveResponse struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Health returns health status.
// GET /health
func (h *Handler) Health(c echo.Context) error {
	types := make([]string, 0)
	for _, t := range h.store.Types() {
		types = append(types, t.Name)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status": "healthy",
		"driver": h.store.Driver(),
		"types":  types,
	})
}

// ListRecords lists records of a type. Every query parameter is an equality
// filter on a logical field.
// GET /v1/records/:type
func (h *Handler) ListRecords(c echo.Context) error {
	ctx := c.Request().Context()

	t, err := h.store.Lookup(c.Param("type"))
	if err != nil {
		return errorJSON(c, err)
	}

	filter := make(map[string]any)
	for field, values := range c.QueryParams() {
		if len(values) != 1 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "filter " + field + " must be given once"})
		}
		filter[field] = values[0]
	}

	recs, err := h.store.List(ctx, t, filter)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, ListResponse{Type: t.Name, Count: len(recs), Records: recs})
}

// GetRecord gets one record by primary key.
// GET /v1/records/:type/:id
func (h *Handler) GetRecord(c echo.Context) error {
	ctx := c.Request().Context()

	t, err := h.store.Lookup(c.Param("type"))
	if err != nil {
		return errorJSON(c, err)
	}

	rec, err := h.store.Get(ctx, t, c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	if rec == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": t.Name + " not found"})
	}

	return c.JSON(http.StatusOK, rec)
}

// SaveRecord saves the record in the request body. A body without an id is
// assigned one. Answers 201 when the record is new and 200 when it replaced
// a stored record with the same id.
// POST /v1/records/:type
func (h *Handler) SaveRecord(c echo.Context) error {
	ctx := c.Request().Context()

	t, err := h.store.Lookup(c.Param("type"))
	if err != nil {
		return errorJSON(c, err)
	}

	// Body only: path parameters must not leak into the record's fields.
	var values map[string]any
	if err := (&echo.DefaultBinder{}).BindBody(c, &values); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	rec, err := t.New(values)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	status := http.StatusCreated
	if id, _ := rec.Values()[t.PrimaryKey].(string); id != "" {
		existing, err := h.store.Get(ctx, t, id)
		if err != nil {
			return errorJSON(c, err)
		}
		if existing != nil {
			status = http.StatusOK
		}
	}

	id, err := h.store.Save(ctx, rec)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(status, SaveResponse{Type: t.Name, ID: id})
}

// errorJSON writes err with the status its type calls for.
func errorJSON(c echo.Context, err error) error {
	return c.JSON(StatusFor(err), map[string]string{"error": err.Error()})
}

// StatusFor maps store and mapping errors to HTTP status codes.
func StatusFor(err error) int {
	var (
		unknownType  *store.UnknownTypeError
		unknownField *mapping.UnknownFieldError
		mappingErr   *mapping.MappingError
		duplicate    *store.DuplicateKeyError
	)
	switch {
	case errors.As(err, &unknownType):
		return http.StatusNotFound
	case errors.As(err, &unknownField):
		return http.StatusBadRequest
	case errors.As(err, &mappingErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &duplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
