package repo

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	lens "Sagitta/internal/calc/lens"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestWithSSLMode(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"postgres://u:p@db/lens", "postgres://u:p@db/lens?sslmode=require"},
		{"postgresql://db/lens?connect_timeout=5", "postgresql://db/lens?connect_timeout=5&sslmode=require"},
		{"user=postgres dbname=lens", "user=postgres dbname=lens sslmode=require"},
		{"postgres://db/lens?sslmode=disable", "postgres://db/lens?sslmode=disable"},
	}
	for _, c := range cases {
		if got := withSSLMode(c.in); got != c.want {
			t.Errorf("withSSLMode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

var testSpec = lens.Spec{
	DiameterMM:         60,
	CentralThicknessMM: 2,
	RefractiveIndex:    1.5,
	Mode:               lens.ModePower,
	PowerD:             -3,
	Family:             lens.PlanoConcave,
}

// specArg matches the JSON encoding of a lens spec.
type specArg struct{ want lens.Spec }

func (a specArg) Match(v driver.Value) bool {
	raw, ok := v.([]byte)
	if !ok {
		return false
	}
	var got lens.Spec
	return json.Unmarshal(raw, &got) == nil && got == a.want
}

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
	})
	return NewPostgresRepository(db), mock
}

func TestSaveCalculation(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lens_calculations (spec, r1_mm, r2_mm, edge_thickness_mm)")).
		WithArgs(specArg{testSpec}, -166.66, 1e9, 0.65).
		WillReturnResult(sqlmock.NewResult(1, 1))

	res := lens.Result{R1MM: -166.66, R2MM: 1e9, EdgeThicknessMM: 0.65}
	if err := repo.SaveCalculation(context.Background(), testSpec, res); err != nil {
		t.Fatalf("SaveCalculation: %v", err)
	}
}

func TestListCalculations(t *testing.T) {
	repo, mock := newMock(t)
	raw, _ := json.Marshal(testSpec)
	newer := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"id", "created_at", "spec", "r1_mm", "r2_mm", "edge_thickness_mm"}).
		AddRow(int64(7), newer, raw, -166.66, 1e9, 0.65).
		AddRow(int64(3), older, []byte(`{"diameter_mm":60,"central_thickness_mm":2,"refractive_index":1.5,"r1_mm":100,"r2_mm":-80}`), 100.0, -80.0, 12.125)
	mock.ExpectQuery(regexp.QuoteMeta("FROM lens_calculations ORDER BY id DESC LIMIT $1")).
		WithArgs(2).
		WillReturnRows(rows)

	got, err := repo.ListCalculations(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListCalculations: %v", err)
	}
	if len(got) != 2 || got[0].ID != 7 || got[1].ID != 3 {
		t.Fatalf("records=%+v", got)
	}
	if got[0].Spec != testSpec || !got[0].CreatedAt.Equal(newer) || got[0].R2MM != 1e9 {
		t.Errorf("first record=%+v", got[0])
	}
	if got[1].Spec.R2MM != -80 || got[1].EdgeThicknessMM != 12.125 {
		t.Errorf("second record=%+v", got[1])
	}
}

func TestListCalculations_BadSpec(t *testing.T) {
	repo, mock := newMock(t)
	rows := sqlmock.NewRows([]string{"id", "created_at", "spec", "r1_mm", "r2_mm", "edge_thickness_mm"}).
		AddRow(int64(9), time.Now(), []byte(`not json`), 1.0, 1.0, 2.0)
	mock.ExpectQuery("SELECT id, created_at, spec").WithArgs(10).WillReturnRows(rows)

	_, err := repo.ListCalculations(context.Background(), 10)
	if err == nil || !strings.Contains(err.Error(), "record 9") {
		t.Fatalf("err=%v", err)
	}
}

// TestPostgresRoundTrip runs against a real server when DATABASE_URL is set.
func TestPostgresRoundTrip(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := OpenDB(ctx, url)
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	res, err := lens.Calculate(lens.Input{Spec: testSpec, Samples: 2})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if err := repo.SaveCalculation(ctx, testSpec, res); err != nil {
		t.Fatalf("SaveCalculation: %v", err)
	}
	got, err := repo.ListCalculations(ctx, 1)
	if err != nil || len(got) != 1 {
		t.Fatalf("ListCalculations: %v %+v", err, got)
	}
	if got[0].Spec != testSpec || got[0].EdgeThicknessMM != res.EdgeThicknessMM {
		t.Fatalf("record=%+v", got[0])
	}
}
