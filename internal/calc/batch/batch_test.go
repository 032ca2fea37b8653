package batch

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	lens "Sagitta/internal/calc/lens"
)

func TestCalculate(t *testing.T) {
	in := Input{Items: []lens.Input{
		{Spec: lens.Spec{DiameterMM: 60, CentralThicknessMM: 2, RefractiveIndex: 1.5, R1MM: 100, R2MM: -80}, Samples: 5},
		{Spec: lens.Spec{DiameterMM: 60, CentralThicknessMM: 2, RefractiveIndex: 1.5, Mode: lens.ModePower, PowerD: 2, Family: lens.PlanoConvex}, Samples: 5},
	}}
	res, err := Calculate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Results) != 2 || res.Results[1].R1MM != 250 {
		t.Fatalf("results=%+v", res.Results)
	}
}

func TestCalculate_Errors(t *testing.T) {
	var size *SizeError
	if _, err := Calculate(Input{}); !errors.As(err, &size) || size.InputField() != "items" {
		t.Fatalf("empty batch: got %v", err)
	}
	if _, err := Calculate(Input{Items: make([]lens.Input, maxItems+1)}); !errors.As(err, &size) || size.Count != maxItems+1 {
		t.Fatalf("oversized batch: got %v", err)
	}

	in := Input{Items: []lens.Input{
		{Spec: lens.Spec{DiameterMM: 60, CentralThicknessMM: 2, RefractiveIndex: 1.5, R1MM: 100, R2MM: -80}},
		{Spec: lens.Spec{DiameterMM: 60, CentralThicknessMM: 2, RefractiveIndex: 0.5, R1MM: 100, R2MM: -80}},
	}}
	_, err := Calculate(in)
	if !errors.Is(err, lens.ErrInvalidParameter) || !strings.HasPrefix(err.Error(), "item 1:") {
		t.Fatalf("got %v", err)
	}
}

func TestHandlerCalc(t *testing.T) {
	rec := httptest.NewRecorder()
	(&Handler{}).Calc(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[]}`)))
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"field":"items"`) {
		t.Fatalf("status=%d", rec.Code)
	}

	body := `{"items":[{"diameter_mm":60,"central_thickness_mm":2,"refractive_index":1.5,"r1_mm":100,"r2_mm":0}]}`
	rec = httptest.NewRecorder()
	(&Handler{}).Calc(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"field":"r2_mm"`) {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}
