package auditlog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ivprep/ivprep/internal/platform/auth"
)

func TestListHandler_Envelope(t *testing.T) {
	svc, _ := newTestService(t)
	h := NewHandler(svc)

	ctx := auth.WithIdentity(context.Background(), &auth.Identity{Username: "sara"})
	svc.Record(ctx, "create", "patient", "p1", "")
	svc.Record(ctx, "update", "patient", "p1", "")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit?limit=1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data    []Entry `json:"data"`
		Total   int     `json:"total"`
		Limit   int     `json:"limit"`
		HasMore bool    `json:"has_more"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 1 || resp.Total != 2 || !resp.HasMore {
		t.Errorf("unexpected envelope: %+v", resp)
	}
}

func TestRecordHandler_RequiresActionAndEntity(t *testing.T) {
	svc, _ := newTestService(t)
	h := NewHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/audit",
		strings.NewReader(`{"details":"no action"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Record(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
