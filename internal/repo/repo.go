package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	lens "Sagitta/internal/calc/lens"

	_ "github.com/lib/pq"
)

type Record struct {
	ID              int64     `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	Spec            lens.Spec `json:"spec"`
	R1MM            float64   `json:"r1_mm"`
	R2MM            float64   `json:"r2_mm"`
	EdgeThicknessMM float64   `json:"edge_thickness_mm"`
}

type Repository interface {
	SaveCalculation(ctx context.Context, spec lens.Spec, res lens.Result) error
	ListCalculations(ctx context.Context, limit int) ([]Record, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const schema = `CREATE TABLE IF NOT EXISTS lens_calculations (
	id SERIAL PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	spec JSONB NOT NULL,
	r1_mm DOUBLE PRECISION NOT NULL,
	r2_mm DOUBLE PRECISION NOT NULL,
	edge_thickness_mm DOUBLE PRECISION NOT NULL
)`

// Migrate creates the history table if it does not exist.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *PostgresRepository) SaveCalculation(ctx context.Context, spec lens.Spec, res lens.Result) error {
	raw, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	query := "INSERT INTO lens_calculations (spec, r1_mm, r2_mm, edge_thickness_mm) VALUES ($1, $2, $3, $4)"
	_, err = r.db.ExecContext(ctx, query, raw, res.R1MM, res.R2MM, res.EdgeThicknessMM)
	return err
}

func (r *PostgresRepository) ListCalculations(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, created_at, spec, r1_mm, r2_mm, edge_thickness_mm
		FROM lens_calculations ORDER BY id DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var raw []byte
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &raw, &rec.R1MM, &rec.R2MM, &rec.EdgeThicknessMM); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &rec.Spec); err != nil {
			return nil, fmt.Errorf("record %d: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// OpenDB connects to Postgres. Connection strings without an sslmode get
// sslmode=require.
func OpenDB(ctx context.Context, connStr string) (*sql.DB, error) {
	connStr = withSSLMode(connStr)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("db config: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func withSSLMode(connStr string) string {
	if strings.Contains(connStr, "sslmode=") {
		return connStr
	}
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if strings.Contains(connStr, "?") {
			return connStr + "&sslmode=require"
		}
		return connStr + "?sslmode=require"
	}
	return connStr + " sslmode=require"
}
