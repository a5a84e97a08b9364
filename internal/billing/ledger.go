package billing

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	dbgen "github.com/noah-isme/backend-billing/internal/db/gen"
)

// Ledger resolves catalog prices and records bill lines.
type Ledger interface {
	ResolveProducts(ctx context.Context, ids []int64) (map[int64]dbgen.Product, error)
	AppendLines(ctx context.Context, lines []dbgen.InsertBillLineParams) error
}

type txBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// PGLedger is the Postgres-backed Ledger.
type PGLedger struct {
	Pool txBeginner
	Q    *dbgen.Queries
}

// ResolveProducts loads the requested products in one query, keyed by id.
func (l *PGLedger) ResolveProducts(ctx context.Context, ids []int64) (map[int64]dbgen.Product, error) {
	out := make(map[int64]dbgen.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := l.Q.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// AppendLines writes every line inside one transaction. Either all lines are
// recorded or none are.
func (l *PGLedger) AppendLines(ctx context.Context, lines []dbgen.InsertBillLineParams) error {
	if len(lines) == 0 {
		return nil
	}
	tx, err := l.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	qtx := l.Q.WithTx(tx)
	for i, line := range lines {
		if _, err := qtx.InsertBillLine(ctx, line); err != nil {
			return fmt.Errorf("insert bill line %d: %w", i, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit bill: %w", err)
	}
	return nil
}
