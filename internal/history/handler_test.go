package history

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	lens "Sagitta/internal/calc/lens"
	"Sagitta/internal/repo"
)

type fakeLister struct {
	limit   int
	records []repo.Record
	err     error
}

func (f *fakeLister) ListCalculations(_ context.Context, limit int) ([]repo.Record, error) {
	f.limit = limit
	return f.records, f.err
}

func TestList(t *testing.T) {
	store := &fakeLister{records: []repo.Record{{ID: 7, Spec: lens.Spec{DiameterMM: 60}, EdgeThicknessMM: 12.125}}}
	h := &Handler{Repo: store}

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/history?limit=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if store.limit != 5 {
		t.Fatalf("limit=%d", store.limit)
	}
	var got []repo.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 1 || got[0].ID != 7 || got[0].Spec.DiameterMM != 60 {
		t.Fatalf("records=%+v", got)
	}
}

func TestList_DefaultsAndErrors(t *testing.T) {
	store := &fakeLister{}
	h := &Handler{Repo: store}

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	if rec.Code != http.StatusOK || store.limit != defaultLimit || rec.Body.String() != "[]\n" {
		t.Fatalf("status=%d limit=%d body=%q", rec.Code, store.limit, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/history?limit=0", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rec.Code)
	}

	store.err = errors.New("connection refused")
	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rec.Code)
	}
}
