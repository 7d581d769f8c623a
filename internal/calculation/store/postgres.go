package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"quotient/internal/calculation/models"
	id "quotient/pkg/domain"
	"quotient/pkg/platform/sentinel"
	txcontext "quotient/pkg/platform/tx"
)

// Postgres persists calculation records in PostgreSQL. The input
// snapshot is stored as JSONB so historical requests stay queryable.
type Postgres struct {
	db *sql.DB
	tx *sql.Tx
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// NewPostgresTx returns a store bound to an open transaction. Used by the
// transaction runner in cmd/server.
func NewPostgresTx(tx *sql.Tx) *Postgres {
	return &Postgres{tx: tx}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if s.tx != nil {
		return s.tx
	}
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// EnsureSchema creates the calculations table if it does not exist.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS calculations (
			id               UUID PRIMARY KEY,
			service_id       UUID NOT NULL,
			base_price       NUMERIC(12,2) NOT NULL,
			calculated_price NUMERIC(12,2) NOT NULL,
			input_params     JSONB NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS calculations_created_at_idx ON calculations (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS calculations_service_id_idx ON calculations (service_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure calculations schema: %w", err)
		}
	}
	return nil
}

func (s *Postgres) Create(ctx context.Context, calc *models.Calculation) error {
	snapshot, err := json.Marshal(calc.InputParams)
	if err != nil {
		return fmt.Errorf("marshal input snapshot: %w", err)
	}

	query := `
		INSERT INTO calculations (id, service_id, base_price, calculated_price, input_params, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		calc.ID.String(),
		calc.ServiceID.String(),
		calc.BasePrice.String(),
		calc.CalculatedPrice.String(),
		snapshot,
		calc.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert calculation: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, calculationID id.CalculationID) (*models.Calculation, error) {
	query := `
		SELECT id, service_id, base_price, calculated_price, input_params, created_at
		FROM calculations
		WHERE id = $1
	`
	row := s.execer(ctx).QueryRowContext(ctx, query, calculationID.String())
	calc, err := scanCalculation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get calculation: %w", err)
	}
	return calc, nil
}

// ListAll returns every recorded calculation, newest first.
func (s *Postgres) ListAll(ctx context.Context) ([]*models.Calculation, error) {
	query := `
		SELECT id, service_id, base_price, calculated_price, input_params, created_at
		FROM calculations
		ORDER BY created_at DESC
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	calculations := make([]*models.Calculation, 0)
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calculation: %w", err)
		}
		calculations = append(calculations, calc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calculations: %w", err)
	}
	return calculations, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCalculation(row rowScanner) (*models.Calculation, error) {
	var (
		calc                       models.Calculation
		rawID, serviceID           string
		basePrice, calculatedPrice string
		snapshot                   []byte
	)
	err := row.Scan(&rawID, &serviceID, &basePrice, &calculatedPrice, &snapshot, &calc.CreatedAt)
	if err != nil {
		return nil, err
	}

	cid, err := id.ParseCalculationID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse calculation id: %w", err)
	}
	sid, err := id.ParseServiceID(serviceID)
	if err != nil {
		return nil, fmt.Errorf("parse calculation service id: %w", err)
	}
	base, err := decimal.NewFromString(basePrice)
	if err != nil {
		return nil, fmt.Errorf("parse base price: %w", err)
	}
	calculated, err := decimal.NewFromString(calculatedPrice)
	if err != nil {
		return nil, fmt.Errorf("parse calculated price: %w", err)
	}
	if err := json.Unmarshal(snapshot, &calc.InputParams); err != nil {
		return nil, fmt.Errorf("unmarshal input snapshot: %w", err)
	}

	calc.ID = cid
	calc.ServiceID = sid
	calc.BasePrice = base
	calc.CalculatedPrice = calculated
	return &calc, nil
}
