package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

// FilteredTracer forwards to inner except for statements touching skipTable.
type FilteredTracer struct {
	inner     pgx.QueryTracer
	skipTable string
}

// NewFilteredTracer wraps inner. Matching on skipTable is case-insensitive.
func NewFilteredTracer(inner pgx.QueryTracer, skipTable string) *FilteredTracer {
	return &FilteredTracer{
		inner:     inner,
		skipTable: strings.ToLower(skipTable),
	}
}

type skipCtxKey struct{}

func (t *FilteredTracer) skips(sql string) bool {
	return t.skipTable != "" && strings.Contains(strings.ToLower(sql), t.skipTable)
}

func (t *FilteredTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	if t.skips(data.SQL) {
		return context.WithValue(ctx, skipCtxKey{}, true)
	}

	return t.inner.TraceQueryStart(ctx, conn, data)
}

func (t *FilteredTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	if ctx.Value(skipCtxKey{}) != nil {
		return
	}

	t.inner.TraceQueryEnd(ctx, conn, data)
}

// TraceCopyFromStart is a no-op unless inner traces copies and the table is not skipped.
func (t *FilteredTracer) TraceCopyFromStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceCopyFromStartData) context.Context {
	inner, ok := t.inner.(pgx.CopyFromTracer)
	if !ok || t.skips(data.TableName.Sanitize()) {
		return context.WithValue(ctx, skipCtxKey{}, true)
	}
	return inner.TraceCopyFromStart(ctx, conn, data)
}

func (t *FilteredTracer) TraceCopyFromEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceCopyFromEndData) {
	if ctx.Value(skipCtxKey{}) != nil {
		return
	}
	if inner, ok := t.inner.(pgx.CopyFromTracer); ok {
		inner.TraceCopyFromEnd(ctx, conn, data)
	}
}
