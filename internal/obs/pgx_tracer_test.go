package obs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescribeSQLReadsQueryName(t *testing.T) {
	name, op := describeSQL("-- name: InsertBillLine :one\ninsert into bills (bill_id) values ($1)")
	require.Equal(t, "InsertBillLine", name)
	require.Equal(t, "INSERT", op)

	name, op = describeSQL("  select 1")
	require.Empty(t, name)
	require.Equal(t, "SELECT", op)
}

func TestTruncateSQL(t *testing.T) {
	long := strings.Repeat("x", 400)
	require.Len(t, truncateSQL(long), 303)
	require.Equal(t, "select 1", truncateSQL(" select 1 "))
}
