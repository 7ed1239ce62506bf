package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/observability"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

const boardItems = `{
	"items": [
		{"id": "hero", "width": 200, "height": 100},
		{"id": "side", "width": 100, "height": 200},
		{"id": "tile", "width": 100, "height": 100}
	],
	"options": {"columns": 3, "aspect": 1, "spacing": 0, "width": 300}
}`

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	cfg.Logger = log.New(io.Discard)
	srv := httptest.NewServer(New(cfg).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Config{})
	resp := do(t, http.MethodGet, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body healthResponse
	decodeBody(t, resp, &body)
	if body.Status != "ok" || body.Build.Version == "" {
		t.Errorf("health = %+v", body)
	}
}

func TestPackLifecycle(t *testing.T) {
	srv := newTestServer(t, Config{})

	resp := do(t, http.MethodPost, srv.URL+"/v1/pack", boardItems)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("pack status = %d, want 201", resp.StatusCode)
	}
	var packed PackResponse
	decodeBody(t, resp, &packed)
	if packed.ID == "" || packed.Placed != 3 || len(packed.Unplaced) != 0 {
		t.Fatalf("pack = %+v", packed)
	}
	if packed.Layout.Rows != 2 || packed.Layout.Columns != 3 {
		t.Errorf("grid = %dx%d, want 3x2", packed.Layout.Columns, packed.Layout.Rows)
	}
	if loc := resp.Header.Get("Location"); loc != "/v1/layouts/"+packed.ID {
		t.Errorf("Location = %q", loc)
	}

	layoutURL := srv.URL + "/v1/layouts/" + packed.ID

	t.Run("get", func(t *testing.T) {
		resp := do(t, http.MethodGet, layoutURL, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		var got PackResponse
		decodeBody(t, resp, &got)
		if got.ID != packed.ID || len(got.Layout.Blocks) != 3 || got.ItemsHash != packed.ItemsHash {
			t.Errorf("get = %+v", got)
		}
	})

	t.Run("list", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/v1/layouts?limit=5", "")
		var body struct {
			Layouts []LayoutSummary `json:"layouts"`
		}
		decodeBody(t, resp, &body)
		if len(body.Layouts) != 1 || body.Layouts[0].Placed != 3 || body.Layouts[0].Items != 3 {
			t.Errorf("list = %+v", body.Layouts)
		}
	})

	renders := []struct {
		format      string
		contentType string
		contains    string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"json", "application/json", `"blocks"`},
		{"dot", "text/vnd.graphviz; charset=utf-8", "digraph"},
	}
	for _, tt := range renders {
		t.Run("render "+tt.format, func(t *testing.T) {
			resp := do(t, http.MethodGet, layoutURL+"/render/"+tt.format+"?grid=true", "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			data, _ := io.ReadAll(resp.Body)
			if !bytes.Contains(data, []byte(tt.contains)) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}

	t.Run("delete", func(t *testing.T) {
		resp := do(t, http.MethodDelete, layoutURL, "")
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", resp.StatusCode)
		}
		resp = do(t, http.MethodGet, layoutURL, "")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("get after delete = %d, want 404", resp.StatusCode)
		}
	})
}

func TestPackErrors(t *testing.T) {
	srv := newTestServer(t, Config{MaxItems: 2})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "malformed json",
			body:       `{"items": [`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "unknown field",
			body:       `{"items": [], "colour": "red"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "too many items",
			body:       `{"items": [{"id": "a"}, {"id": "b"}, {"id": "c"}]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "duplicate ids",
			body:       `{"items": [{"id": "a", "width": 1, "height": 1}, {"id": "a", "width": 1, "height": 1}]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_ITEM",
		},
		{
			name:       "gutters exceed width",
			body:       `{"items": [{"id": "a", "width": 10, "height": 10}], "options": {"columns": 4, "spacing": 20, "width": 50}}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "CONFIGURATION_ERROR",
		},
		{
			name: "strict overflow",
			body: `{"items": [{"id": "a", "width": 100, "height": 100}, {"id": "b", "width": 100, "height": 100}],
				"options": {"columns": 1, "aspect": 1, "spacing": 0, "width": 100, "row_bound": 1, "strict": true}}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "PLACEMENT_EXHAUSTED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/v1/pack", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var body errorResponse
			decodeBody(t, resp, &body)
			if body.Code != tt.wantCode {
				t.Errorf("code = %q (%s), want %q", body.Code, body.Message, tt.wantCode)
			}
			if body.RequestID == "" {
				t.Error("error response has no request id")
			}
		})
	}
}

func TestRequestLimits(t *testing.T) {
	srv := newTestServer(t, Config{MaxColumns: 8, MaxRowBound: 100, MaxScale: 4})

	packs := []struct {
		name       string
		options    string
		wantStatus int
		wantCode   string
	}{
		{"columns", `{"columns": 9, "width": 900}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"row bound", `{"row_bound": 100000000000}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"max cell height", `{"max_cell_height": 101}`, http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range packs {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"items": [{"id": "a", "width": 10, "height": 10}], "options": ` + tt.options + `}`
			resp := do(t, http.MethodPost, srv.URL+"/v1/pack", body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var got errorResponse
			decodeBody(t, resp, &got)
			if got.Code != tt.wantCode {
				t.Errorf("code = %q (%s), want %q", got.Code, got.Message, tt.wantCode)
			}
		})
	}

	t.Run("scale", func(t *testing.T) {
		resp := do(t, http.MethodPost, srv.URL+"/v1/pack", boardItems)
		var packed PackResponse
		decodeBody(t, resp, &packed)

		resp = do(t, http.MethodGet, srv.URL+"/v1/layouts/"+packed.ID+"/render/png?scale=5", "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestPackGridTooLarge(t *testing.T) {
	srv := newTestServer(t, Config{})

	// Two items of 100000 rows in 512 columns are within the request limits
	// but need a grid far above the packer's cell limit.
	body := `{"items": [{"id": "a", "width": 10, "height": 1e9}, {"id": "b", "width": 10, "height": 1e9}],
		"options": {"columns": 512, "aspect": 1, "spacing": 0, "width": 5120, "max_cell_height": 100000}}`
	resp := do(t, http.MethodPost, srv.URL+"/v1/pack", body)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
	var got errorResponse
	decodeBody(t, resp, &got)
	if got.Code != "CONFIGURATION_ERROR" {
		t.Errorf("code = %q (%s), want CONFIGURATION_ERROR", got.Code, got.Message)
	}
}

func TestPackUnplacedIsNotAnError(t *testing.T) {
	srv := newTestServer(t, Config{})
	body := `{"items": [{"id": "a", "width": 100, "height": 100}, {"id": "b", "width": 100, "height": 100}],
		"options": {"columns": 1, "aspect": 1, "spacing": 0, "width": 100, "row_bound": 1}}`

	resp := do(t, http.MethodPost, srv.URL+"/v1/pack", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var packed PackResponse
	decodeBody(t, resp, &packed)
	if packed.Placed != 1 || len(packed.Unplaced) != 1 || packed.Unplaced[0] != "b" {
		t.Errorf("pack = placed %d unplaced %v", packed.Placed, packed.Unplaced)
	}
}

func TestServerDefaults(t *testing.T) {
	srv := newTestServer(t, Config{Defaults: pipeline.Options{Columns: 2, Width: 200, Aspect: 1, Spacing: pipeline.Float(0)}})

	resp := do(t, http.MethodPost, srv.URL+"/v1/pack", `{"items": [{"id": "a", "width": 100, "height": 100}]}`)
	var packed PackResponse
	decodeBody(t, resp, &packed)
	if packed.Layout.Columns != 2 || packed.Layout.ColumnWidth != 100 {
		t.Errorf("layout = %d columns of %v, want 2 of 100", packed.Layout.Columns, packed.Layout.ColumnWidth)
	}
}

func TestLayoutErrors(t *testing.T) {
	srv := newTestServer(t, Config{})

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"bad id", http.MethodGet, "/v1/layouts/not-a-uuid", http.StatusBadRequest},
		{"unknown id", http.MethodGet, "/v1/layouts/6f1c1b7e-3c55-4a44-9c3e-0d7f7c5d2a10", http.StatusNotFound},
		{"unknown format", http.MethodGet, "/v1/layouts/6f1c1b7e-3c55-4a44-9c3e-0d7f7c5d2a10/render/gif", http.StatusBadRequest},
		{"bad limit", http.MethodGet, "/v1/layouts?limit=-1", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/v2/pack", http.StatusNotFound},
		{"wrong method", http.MethodPut, "/v1/pack", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, srv.URL+tt.path, "")
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
		})
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	srv := newTestServer(t, Config{})
	do(t, http.MethodGet, srv.URL+"/v1/layouts/6f1c1b7e-3c55-4a44-9c3e-0d7f7c5d2a10", "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.routes) != 1 || hooks.routes[0] != "GET /v1/layouts/{id}" {
		t.Errorf("routes = %v", hooks.routes)
	}
}
