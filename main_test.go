package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Sagitta/internal/config"

	"github.com/gorilla/mux"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg, err := config.FromEnv(func(string) string { return "" })
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.RateBurst = 100
	r := mux.NewRouter()
	HandleList(r, cfg, nil)
	return r
}

func TestRoutes(t *testing.T) {
	h := newTestRouter(t)
	body := `{"diameter_mm":60,"central_thickness_mm":2,"refractive_index":1.5,"r1_mm":100,"r2_mm":-80}`
	cases := []struct {
		method, path, body string
		want               int
		contains           string
	}{
		{http.MethodPost, "/api/tools/lens/calc", body, http.StatusOK, `"edge_thickness_mm":12.12`},
		{http.MethodPost, "/api/tools/lens/radii", body, http.StatusOK, `"r1_mm":100`},
		{http.MethodPost, "/api/tools/lens/point", `{"diameter_mm":60,"central_thickness_mm":2,"refractive_index":1.5,"r1_mm":100,"r2_mm":-80,"x_mm":30}`, http.StatusOK, `"inside_lens":true`},
		{http.MethodPost, "/api/tools/lens/calc", `{"diameter_mm":0}`, http.StatusBadRequest, `"field":"diameter_mm"`},
		{http.MethodGet, "/api/history", "", http.StatusNotFound, ""},
		{http.MethodGet, "/healthz", "", http.StatusOK, `"history":false`},
		{http.MethodGet, "/", "", http.StatusOK, "Lens edge thickness"},
	}
	for _, c := range cases {
		req := httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != c.want {
			t.Errorf("%s %s: status=%d want %d body=%s", c.method, c.path, rec.Code, c.want, rec.Body.String())
			continue
		}
		if c.contains != "" && !strings.Contains(rec.Body.String(), c.contains) {
			t.Errorf("%s %s: body %s lacks %s", c.method, c.path, rec.Body.String(), c.contains)
		}
	}
}

func TestRateLimit(t *testing.T) {
	cfg, _ := config.FromEnv(func(string) string { return "" })
	cfg.RateLimit, cfg.RateBurst = 0.001, 1
	r := mux.NewRouter()
	HandleList(r, cfg, nil)

	body := `{"diameter_mm":60,"central_thickness_mm":2,"refractive_index":1.5,"r1_mm":100,"r2_mm":-80}`
	codes := make([]int, 2)
	for i := range codes {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tools/lens/radii", strings.NewReader(body)))
		codes[i] = rec.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes=%v", codes)
	}
}
