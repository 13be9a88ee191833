package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ivprep/ivprep/internal/platform/auth"
)

func newTestHandler(t *testing.T) (*Handler, *Service) {
	t.Helper()
	svc, _ := newTestService()
	issuer := auth.NewIssuer([]byte("test-secret-test-secret-test-secret"), time.Hour)
	return NewHandler(svc, issuer), svc
}

func doLogin(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestLoginHandler_Success(t *testing.T) {
	h, svc := newTestHandler(t)
	if _, err := svc.Create(context.Background(), CreateInput{
		Username: "sara", Password: "s3cret", Permissions: []string{auth.PermManageDrugs},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	rec := doLogin(t, h, `{"username":"sara","password":"s3cret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a session token")
	}
	if resp.User == nil || resp.User.Username != "sara" {
		t.Errorf("unexpected user payload: %+v", resp.User)
	}
}

func TestLoginHandler_FailureModesShareOneMessage(t *testing.T) {
	h, svc := newTestHandler(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, CreateInput{Username: "sara", Password: "s3cret"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	inactive, err := svc.Create(ctx, CreateInput{Username: "off", Password: "s3cret"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Deactivate(ctx, inactive.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	bodies := []string{
		`{"username":"ghost","password":"s3cret"}`,
		`{"username":"sara","password":"wrong"}`,
		`{"username":"off","password":"s3cret"}`,
	}
	for _, body := range bodies {
		rec := doLogin(t, h, body)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("body %s: expected 401, got %d", body, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "invalid credentials") {
			t.Errorf("body %s: expected the generic message, got %s", body, rec.Body.String())
		}
	}
}

func TestCreateHandler(t *testing.T) {
	h, _ := newTestHandler(t)
	e := echo.New()
	body := `{"username":"nora","password":"pw","display_name":"Nora","role":"pharmacist","permissions":["manage_patients"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password_hash") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Error("credential material must not appear in the response")
	}
}

func TestDeleteHandler_UnknownUser(t *testing.T) {
	h, _ := newTestHandler(t)
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("0b36697a-25dd-4b95-a2a1-6ba1b891c7a6")

	if err := h.Delete(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteHandler_ReturnsSuccess(t *testing.T) {
	h, svc := newTestHandler(t)
	u, err := svc.Create(context.Background(), CreateInput{Username: "sara", Password: "pw"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(u.ID.String())

	if err := h.Delete(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
