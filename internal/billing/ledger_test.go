package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	dbgen "github.com/noah-isme/backend-billing/internal/db/gen"
)

type fakeRow struct {
	id  int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.id
	return nil
}

type fakeTx struct {
	pgx.Tx
	failAt     int
	inserts    int
	committed  bool
	rolledBack bool
}

func (f *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row {
	f.inserts++
	if f.failAt > 0 && f.inserts == f.failAt {
		return fakeRow{err: errors.New("check constraint violated")}
	}
	return fakeRow{id: int64(f.inserts)}
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	if !f.committed {
		f.rolledBack = true
	}
	return nil
}

type fakePool struct {
	tx       *fakeTx
	beginErr error
}

func (p *fakePool) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	if p.beginErr != nil {
		return nil, p.beginErr
	}
	return p.tx, nil
}

func sampleLines(n int) []dbgen.InsertBillLineParams {
	lines := make([]dbgen.InsertBillLineParams, n)
	for i := range lines {
		lines[i] = dbgen.InsertBillLineParams{ProductID: int64(i + 1), Quantity: 1, Total: decimal.NewFromInt(10)}
	}
	return lines
}

func TestAppendLinesCommitsOnce(t *testing.T) {
	tx := &fakeTx{}
	ledger := &PGLedger{Pool: &fakePool{tx: tx}, Q: dbgen.New(nil)}
	require.NoError(t, ledger.AppendLines(context.Background(), sampleLines(3)))
	require.Equal(t, 3, tx.inserts)
	require.True(t, tx.committed)
	require.False(t, tx.rolledBack)
}

func TestAppendLinesRollsBackWholeBill(t *testing.T) {
	tx := &fakeTx{failAt: 2}
	ledger := &PGLedger{Pool: &fakePool{tx: tx}, Q: dbgen.New(nil)}
	err := ledger.AppendLines(context.Background(), sampleLines(3))
	require.Error(t, err)
	require.Equal(t, 2, tx.inserts)
	require.False(t, tx.committed)
	require.True(t, tx.rolledBack)
}

func TestAppendLinesBeginFailure(t *testing.T) {
	ledger := &PGLedger{Pool: &fakePool{beginErr: errors.New("pool closed")}, Q: dbgen.New(nil)}
	require.Error(t, ledger.AppendLines(context.Background(), sampleLines(1)))
}

func TestAppendLinesEmptyIsNoop(t *testing.T) {
	ledger := &PGLedger{Pool: &fakePool{beginErr: errors.New("should not begin")}, Q: dbgen.New(nil)}
	require.NoError(t, ledger.AppendLines(context.Background(), nil))
}
