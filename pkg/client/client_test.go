package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// --- Helpers ---

// newTestServer records the last request and serves a canned response.
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.EscapedPath()
		rec.auth = r.Header.Get("Authorization")
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

type recordedRequest struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	c, err := New(srv.URL, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

// --- Tests ---

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c, err := New("http://localhost:8080/")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.baseURL != "http://localhost:8080" {
		t.Errorf("baseURL = %q, want trailing slash removed", c.baseURL)
	}
}

func TestClient_SendsBearerToken(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, `{"status":"ok","checks":{}}`)
	c := newTestClient(t, srv, WithAPIKey("secret-key"))

	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if rec.auth != "Bearer secret-key" {
		t.Errorf("Authorization = %q, want bearer token", rec.auth)
	}
}

func TestDocuments_Create(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusCreated,
		`{"id":"doc-1","title":"Runbook","content":"text","created_at":"2026-01-15T10:00:00Z","updated_at":"2026-01-15T10:00:00Z"}`)
	c := newTestClient(t, srv)

	doc, err := c.Documents("acme").Create(context.Background(), Document{
		Title:   "Runbook",
		Content: "text",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if rec.method != http.MethodPost || rec.path != "/v1/tenants/acme/documents" {
		t.Errorf("request = %s %s, want POST /v1/tenants/acme/documents", rec.method, rec.path)
	}
	if rec.body["title"] != "Runbook" {
		t.Errorf("request title = %v, want Runbook", rec.body["title"])
	}
	if doc.ID != "doc-1" {
		t.Errorf("ID = %q, want server-assigned doc-1", doc.ID)
	}
	if doc.CreatedAt.IsZero() {
		t.Error("expected CreatedAt from server")
	}
}

func TestDocuments_UpsertPath(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, `{"id":"doc 1","title":"t","content":"c"}`)
	c := newTestClient(t, srv)

	if _, err := c.Documents("acme").Upsert(context.Background(), "doc 1", Document{Title: "t", Content: "c"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if rec.method != http.MethodPut {
		t.Errorf("method = %s, want PUT", rec.method)
	}
	if rec.path != "/v1/tenants/acme/documents/doc%201" {
		t.Errorf("path = %q, want escaped document ID", rec.path)
	}
}

func TestDocuments_GetNotFound(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusNotFound,
		`{"code":"document_not_found","message":"document not found"}`)
	c := newTestClient(t, srv)

	_, err := c.Documents("acme").Get(context.Background(), "missing")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("error = %v, want ErrDocumentNotFound", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("expected *APIError in chain")
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Code != "document_not_found" {
		t.Errorf("APIError = %+v, want 404 document_not_found", apiErr)
	}
}

func TestDocuments_DeleteMissingIsNotAnError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusNotFound,
		`{"code":"document_not_found","message":"document not found"}`)
	c := newTestClient(t, srv)

	found, err := c.Documents("acme").Delete(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if found {
		t.Error("found = true, want false for missing document")
	}
}

func TestDocuments_DeleteFound(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusNoContent, "")
	c := newTestClient(t, srv)

	found, err := c.Documents("acme").Delete(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !found {
		t.Error("found = false, want true")
	}
	if rec.method != http.MethodDelete {
		t.Errorf("method = %s, want DELETE", rec.method)
	}
}

func TestSearch_RoundTrip(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK,
		`{"total":12,"offset":0,"limit":10,"hits":[{"id":"doc-1","title":"Runbook","snippet":"the <mark>gateway</mark>","score":1.5,"tags":["ops"]}]}`)
	c := newTestClient(t, srv)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	res, err := c.Search(context.Background(), "acme", SearchRequest{
		Query:   "gateway timeout",
		Filters: SearchFilters{Tag: "ops", DateFrom: &from},
		Limit:   10,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if rec.path != "/v1/tenants/acme/search" {
		t.Errorf("path = %q, want /v1/tenants/acme/search", rec.path)
	}
	if rec.body["query"] != "gateway timeout" {
		t.Errorf("request query = %v", rec.body["query"])
	}
	if res.Total != 12 || len(res.Hits) != 1 {
		t.Fatalf("result = total %d with %d hits, want 12 and 1", res.Total, len(res.Hits))
	}
	if res.Hits[0].ID != "doc-1" || res.Hits[0].Score != 1.5 {
		t.Errorf("hit = %+v", res.Hits[0])
	}
}

func TestSearch_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"code":"rate_limited","message":"rate limit exceeded"}`))
	}))
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv)

	_, err := c.Search(context.Background(), "acme", SearchRequest{Query: "q"})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("error = %v, want ErrRateLimited", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("expected *APIError in chain")
	}
	if apiErr.RetryAfter != 30*time.Second {
		t.Errorf("RetryAfter = %v, want 30s", apiErr.RetryAfter)
	}
}

func TestClient_Unauthorized(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusUnauthorized,
		`{"code":"bad_request","message":"invalid api key"}`)
	c := newTestClient(t, srv)

	_, err := c.Search(context.Background(), "acme", SearchRequest{Query: "q"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
}

func TestSearch_ValidationFailed(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusBadRequest,
		`{"code":"validation_failed","message":"offset must not be negative"}`)
	c := newTestClient(t, srv)

	_, err := c.Search(context.Background(), "acme", SearchRequest{Query: "q", Offset: -1})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("error = %v, want ErrInvalidRequest", err)
	}
}

func TestHealth_OK(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK,
		`{"status":"ok","checks":{"store":"ok","index":"ok"}}`)
	c := newTestClient(t, srv)

	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if h.Status != "ok" {
		t.Errorf("status = %q, want ok", h.Status)
	}
	if h.Checks["store"] != "ok" || h.Checks["index"] != "ok" {
		t.Errorf("checks = %v", h.Checks)
	}
}

func TestHealth_UnhealthyStillReturnsReport(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusServiceUnavailable,
		`{"status":"unhealthy","checks":{"store":"ok","index":"error"}}`)
	c := newTestClient(t, srv)

	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if h.Status != "unhealthy" {
		t.Errorf("status = %q, want unhealthy", h.Status)
	}
	if h.Checks["index"] != "error" {
		t.Errorf("checks = %v, want index error", h.Checks)
	}
}
