package main

import (
	"context"
	"database/sql"
	"time"

	calculationservice "quotient/internal/calculation/service"
	calculationstore "quotient/internal/calculation/store"
	dErrors "quotient/pkg/domain-errors"
)

const defaultCalculationTxTimeout = 5 * time.Second

type calculationPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newCalculationPostgresTx(db *sql.DB) *calculationPostgresTx {
	return &calculationPostgresTx{db: db}
}

func (t *calculationPostgresTx) RunInTx(ctx context.Context, fn func(store calculationservice.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultCalculationTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(calculationstore.NewPostgresTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}
