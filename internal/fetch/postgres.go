package fetch

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

// PostgresStrategy reads a whole table straight from Postgres.
type PostgresStrategy struct {
	Timeout time.Duration
}

func (s *PostgresStrategy) Name() string { return TypePostgres }

func (s *PostgresStrategy) FetchRows(ctx context.Context, src Source) (Result, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	conn, err := pgx.Connect(ctx, src.DSN)
	if err != nil {
		return Result{}, &Error{Source: src.Name, Message: "failed to connect", Cause: err}
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, selectAll(src.Table))
	if err != nil {
		return Result{}, &Error{Source: src.Name, Message: "query failed", Cause: err}
	}

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fd.Name
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return Result{}, &Error{Source: src.Name, Message: "failed to read rows", Cause: err}
	}

	out := make([]trend.RawRow, 0, len(maps))
	for _, m := range maps {
		out = append(out, FlattenRow(m))
	}
	return Result{Rows: out, Columns: columns}, nil
}

// selectAll builds the table scan, quoting a possibly schema-qualified name.
func selectAll(table string) string {
	if table == "" {
		table = DefaultRESTTable
	}
	return "SELECT * FROM " + pgx.Identifier(strings.Split(table, ".")).Sanitize()
}
