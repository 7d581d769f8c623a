package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"quotient/internal/catalog/models"
	id "quotient/pkg/domain"
	"quotient/pkg/platform/sentinel"
	txcontext "quotient/pkg/platform/tx"
)

// Postgres persists the service catalog in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// EnsureSchema creates the catalog tables if they do not exist. The
// unique indexes back the conflict semantics the memory store mirrors.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS services (
			id          UUID PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			base_price  NUMERIC(12,2) NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS services_name_key ON services (LOWER(name))`,
		`CREATE TABLE IF NOT EXISTS parameters (
			id            UUID PRIMARY KEY,
			service_id    UUID NOT NULL REFERENCES services (id) ON DELETE CASCADE,
			name          TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			param_type    TEXT NOT NULL,
			is_required   BOOLEAN NOT NULL DEFAULT FALSE,
			default_value TEXT,
			position      INTEGER NOT NULL DEFAULT 0,
			created_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS parameters_service_name_key ON parameters (service_id, LOWER(name))`,
		`CREATE TABLE IF NOT EXISTS parameter_options (
			id           UUID PRIMARY KEY,
			parameter_id UUID NOT NULL REFERENCES parameters (id) ON DELETE CASCADE,
			value        TEXT NOT NULL,
			modifier     NUMERIC(12,4) NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS parameter_options_value_key ON parameter_options (parameter_id, value)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure catalog schema: %w", err)
		}
	}
	return nil
}

func (s *Postgres) CreateService(ctx context.Context, svc *models.Service) error {
	query := `
		INSERT INTO services (id, name, description, base_price, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		svc.ID.String(),
		svc.Name,
		svc.Description,
		svc.BasePrice.String(),
		svc.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

func (s *Postgres) GetService(ctx context.Context, serviceID id.ServiceID) (*models.Service, error) {
	query := `
		SELECT id, name, description, base_price, created_at
		FROM services
		WHERE id = $1
	`
	row := s.execer(ctx).QueryRowContext(ctx, query, serviceID.String())
	svc, err := scanService(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return svc, nil
}

func (s *Postgres) ListServices(ctx context.Context) ([]*models.Service, error) {
	query := `
		SELECT id, name, description, base_price, created_at
		FROM services
		ORDER BY created_at, name
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query services: %w", err)
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}
	return services, nil
}

// CreateParameter inserts the parameter and its options atomically. When
// the caller already runs inside a transaction the ambient one is used.
func (s *Postgres) CreateParameter(ctx context.Context, param *models.Parameter) error {
	if _, ok := txcontext.From(ctx); ok {
		return s.insertParameter(ctx, param)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert parameter: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.insertParameter(txcontext.WithTx(ctx, tx), param); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert parameter: %w", err)
	}
	return nil
}

func (s *Postgres) insertParameter(ctx context.Context, param *models.Parameter) error {
	query := `
		INSERT INTO parameters (id, service_id, name, description, param_type, is_required, default_value, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		param.ID.String(),
		param.ServiceID.String(),
		param.Name,
		param.Description,
		string(param.Type),
		param.IsRequired,
		param.DefaultValue,
		param.Position,
		param.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert parameter: %w", err)
	}

	optionQuery := `
		INSERT INTO parameter_options (id, parameter_id, value, modifier)
		VALUES ($1, $2, $3, $4)
	`
	for _, opt := range param.Options {
		_, err := s.execer(ctx).ExecContext(ctx, optionQuery,
			opt.ID.String(),
			opt.ParameterID.String(),
			opt.Value,
			opt.Modifier.String(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return sentinel.ErrConflict
			}
			return fmt.Errorf("insert parameter option: %w", err)
		}
	}
	return nil
}

func (s *Postgres) ListParameters(ctx context.Context) ([]*models.Parameter, error) {
	return s.queryParameters(ctx, `
		SELECT id, service_id, name, description, param_type, is_required, default_value, position, created_at
		FROM parameters
		ORDER BY service_id, position, name
	`)
}

func (s *Postgres) ParametersForService(ctx context.Context, serviceID id.ServiceID) ([]*models.Parameter, error) {
	return s.queryParameters(ctx, `
		SELECT id, service_id, name, description, param_type, is_required, default_value, position, created_at
		FROM parameters
		WHERE service_id = $1
		ORDER BY position, name
	`, serviceID.String())
}

func (s *Postgres) queryParameters(ctx context.Context, query string, args ...any) ([]*models.Parameter, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query parameters: %w", err)
	}
	defer rows.Close()

	var params []*models.Parameter
	byID := make(map[id.ParameterID]*models.Parameter)
	for rows.Next() {
		param, err := scanParameter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan parameter: %w", err)
		}
		params = append(params, param)
		byID[param.ID] = param
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parameters: %w", err)
	}
	if len(params) == 0 {
		return []*models.Parameter{}, nil
	}

	if err := s.attachOptions(ctx, byID); err != nil {
		return nil, err
	}
	return params, nil
}

func (s *Postgres) attachOptions(ctx context.Context, params map[id.ParameterID]*models.Parameter) error {
	ids := make([]string, 0, len(params))
	for paramID := range params {
		ids = append(ids, paramID.String())
	}

	query := `
		SELECT id, parameter_id, value, modifier
		FROM parameter_options
		WHERE parameter_id::TEXT = ANY($1)
		ORDER BY value
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("query parameter options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			optionID, parameterID, value, modifier string
		)
		if err := rows.Scan(&optionID, &parameterID, &value, &modifier); err != nil {
			return fmt.Errorf("scan parameter option: %w", err)
		}
		oid, err := id.ParseOptionID(optionID)
		if err != nil {
			return fmt.Errorf("parse option id: %w", err)
		}
		pid, err := id.ParseParameterID(parameterID)
		if err != nil {
			return fmt.Errorf("parse option parameter id: %w", err)
		}
		mod, err := decimal.NewFromString(modifier)
		if err != nil {
			return fmt.Errorf("parse option modifier: %w", err)
		}
		if param, ok := params[pid]; ok {
			param.Options = append(param.Options, models.ParameterOption{
				ID:          oid,
				ParameterID: pid,
				Value:       value,
				Modifier:    mod,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate parameter options: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanService(row rowScanner) (*models.Service, error) {
	var (
		svc       models.Service
		rawID     string
		basePrice string
	)
	if err := row.Scan(&rawID, &svc.Name, &svc.Description, &basePrice, &svc.CreatedAt); err != nil {
		return nil, err
	}
	serviceID, err := id.ParseServiceID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse service id: %w", err)
	}
	price, err := decimal.NewFromString(basePrice)
	if err != nil {
		return nil, fmt.Errorf("parse base price: %w", err)
	}
	svc.ID = serviceID
	svc.BasePrice = price
	return &svc, nil
}

func scanParameter(row rowScanner) (*models.Parameter, error) {
	var (
		param            models.Parameter
		rawID, serviceID string
		ptype            string
		defaultValue     sql.NullString
	)
	err := row.Scan(&rawID, &serviceID, &param.Name, &param.Description, &ptype,
		&param.IsRequired, &defaultValue, &param.Position, &param.CreatedAt)
	if err != nil {
		return nil, err
	}
	pid, err := id.ParseParameterID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse parameter id: %w", err)
	}
	sid, err := id.ParseServiceID(serviceID)
	if err != nil {
		return nil, fmt.Errorf("parse parameter service id: %w", err)
	}
	parsedType, err := models.ParseParameterType(ptype)
	if err != nil {
		return nil, fmt.Errorf("parse parameter type: %w", err)
	}
	param.ID = pid
	param.ServiceID = sid
	param.Type = parsedType
	if defaultValue.Valid {
		param.DefaultValue = &defaultValue.String
	}
	return &param, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
