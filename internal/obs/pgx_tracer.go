package obs

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ctxSpanKey struct{}

// PGXTracer implements pgx.QueryTracer. Spans are named after the sqlc
// query when the statement carries a "-- name:" header.
type PGXTracer struct{}

// TraceQueryStart starts a span for the SQL statement.
func (PGXTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	name, operation := describeSQL(data.SQL)
	spanName := "pgx.query"
	if name != "" {
		spanName = "db." + name
	}
	ctx, span := otel.Tracer("billing.pgx").Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.statement", truncateSQL(data.SQL)),
	)
	if operation != "" {
		span.SetAttributes(attribute.String("db.operation", operation))
	}
	return context.WithValue(ctx, ctxSpanKey{}, span)
}

// TraceQueryEnd ends the span and records any error.
func (PGXTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	span, ok := ctx.Value(ctxSpanKey{}).(trace.Span)
	if !ok {
		return
	}
	if data.Err != nil {
		span.RecordError(data.Err)
		span.SetStatus(codes.Error, "query failed")
	} else {
		span.SetAttributes(attribute.Int64("db.rows_affected", data.CommandTag.RowsAffected()))
	}
	span.End()
}

// describeSQL returns the sqlc query name and the leading SQL verb.
func describeSQL(sql string) (name, operation string) {
	body := strings.TrimSpace(sql)
	if strings.HasPrefix(body, "-- name:") {
		header, rest, _ := strings.Cut(body, "\n")
		if fields := strings.Fields(strings.TrimPrefix(header, "-- name:")); len(fields) > 0 {
			name = fields[0]
		}
		body = strings.TrimSpace(rest)
	}
	if fields := strings.Fields(body); len(fields) > 0 {
		operation = strings.ToUpper(fields[0])
	}
	return name, operation
}

func truncateSQL(sql string) string {
	trimmed := strings.TrimSpace(sql)
	if len(trimmed) > 300 {
		return trimmed[:300] + "..."
	}
	return trimmed
}
