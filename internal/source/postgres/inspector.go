package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// DefaultDSN points at the local default instance.
const DefaultDSN = "postgresql://postgres@localhost/postgres"

// Row holds the column values of one result row, in select order. NULL is
// read as the empty string.
type Row []string

// openDB is replaced in tests.
var openDB = sql.Open

// Inspector owns the single connection used for one collection run.
type Inspector struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInspector opens a connection described by dsn and verifies it with a
// ping. Any failure is returned as a *ConnectError.
func NewInspector(ctx context.Context, dsn string, logger *zap.Logger) (*Inspector, error) {
	db, err := openDB("postgres", dsn)
	if err != nil {
		return nil, &ConnectError{Err: err}
	}
	// one run, one connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &ConnectError{Err: err}
	}

	return newInspector(db, logger), nil
}

func newInspector(db *sql.DB, logger *zap.Logger) *Inspector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inspector{db: db, logger: logger}
}

func (i *Inspector) Close() error {
	return i.db.Close()
}

// Query runs one statement and reads every row. Driver errors are returned as
// *QueryError; the result set is always released.
func (i *Inspector) Query(ctx context.Context, query string) ([]Row, error) {
	i.logger.Debug("running query", zap.String("query", query))

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}

	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for n := range vals {
			ptrs[n] = &vals[n]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &QueryError{Query: query, Err: err}
		}
		row := make(Row, len(vals))
		for n, v := range vals {
			row[n] = stringify(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}

	i.logger.Debug("query finished", zap.String("query", query), zap.Int("rows", len(out)))
	return out, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.DateOnly)
	default:
		return fmt.Sprint(t)
	}
}
