package auditlog

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ivprep/ivprep/internal/platform/auth"
	"github.com/ivprep/ivprep/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/audit")
	g.POST("", h.Record)
	g.GET("", h.List, auth.RequirePermission(auth.PermViewAuditLogs))
}

type recordRequest struct {
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Details    string `json:"details"`
}

// Record lets clients log user-facing events that never reach a mutating
// endpoint, like opening a worksheet for printing.
func (h *Handler) Record(c echo.Context) error {
	var req recordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Action == "" || req.EntityType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "action and entity_type are required")
	}
	h.svc.Record(c.Request().Context(), req.Action, req.EntityType, req.EntityID, req.Details)
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c, MaxListEntries, MaxListEntries)
	f := Filter{
		Action:     c.QueryParam("action"),
		EntityType: c.QueryParam("entity_type"),
		From:       c.QueryParam("from"),
		To:         c.QueryParam("to"),
		Limit:      p.Limit,
		Offset:     p.Offset,
	}
	if v := c.QueryParam("user_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
		}
		f.UserID = &id
	}

	ctx := c.Request().Context()
	entries, err := h.svc.Query(ctx, f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if entries == nil {
		entries = []*Entry{}
	}
	total, err := h.svc.Count(ctx, f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(entries, total, p.Limit, p.Offset))
}
