// Package sqlexec runs fiddle statements directly against PostgreSQL over a pgx
// connection pool. Its Executor satisfies the same gateway contract as the HTTP
// backend client, so the request lifecycle works unchanged against a local
// database.
//
// Key behaviour:
//   - All statements but the last are executed for effect, in order
//   - The last statement is queried, explained and turned into a plan diagram
//   - Cells are formatted as text, PostgreSQL-specific types included
//   - PostgreSQL errors surface as validation errors carrying the server message
package sqlexec

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"fiddle/cli/internal/backend"
	ferrors "fiddle/cli/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// MaxResults caps the number of rows kept from the final statement.
const MaxResults = 500

// Executor executes statements using a connection pool.
type Executor struct {
	// Pool is the PostgreSQL connection pool
	Pool *pgxpool.Pool
	log  *zap.Logger
}

// New creates an Executor from an existing pgx pool.
func New(pool *pgxpool.Pool, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{Pool: pool, log: log}
}

// Connect opens a pool for dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string, log *zap.Logger) (*Executor, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.Network, "invalid database connection string", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, ferrors.Wrap(ferrors.Network, "cannot reach database", err)
	}
	return New(pool, log), nil
}

// Close releases the pool.
func (e *Executor) Close() {
	if e.Pool != nil {
		e.Pool.Close()
	}
}

// Execute runs req on one pooled connection. Partition parameters are accepted
// and ignored.
func (e *Executor) Execute(ctx context.Context, req backend.Request) (*backend.Result, error) {
	res := &backend.Result{Columns: []backend.Column{}, Rows: [][]string{}}
	if len(req.Stmts) == 0 {
		return res, nil
	}

	conn, err := e.Pool.Acquire(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	defer conn.Release()

	last := len(req.Stmts) - 1
	for i, stmt := range req.Stmts[:last] {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			e.log.Debug("statement failed", zap.Int("index", i), zap.Error(err))
			return nil, mapError(err)
		}
	}

	final := rewriteCatalogStatement(req.Stmts[last])
	if err := query(ctx, conn, final, res); err != nil {
		return nil, mapError(err)
	}

	// Plans are best effort: utility statements cannot be explained.
	if lines, err := explainText(ctx, conn, "EXPLAIN (COSTS OFF) "+final); err == nil {
		res.LogicalPlan = lines
	} else {
		e.log.Debug("logical plan unavailable", zap.Error(err))
	}
	if lines, err := explainText(ctx, conn, "EXPLAIN (VERBOSE) "+final); err == nil {
		res.PhysicalPlan = lines
	}
	if raw, err := explainJSON(ctx, conn, "EXPLAIN (FORMAT JSON) "+final); err == nil {
		if dot, err := PlanDOT(strings.NewReader(raw)); err == nil {
			res.Graphviz = dot
		} else {
			e.log.Debug("plan diagram unavailable", zap.Error(err))
		}
	}
	return res, nil
}

// GetVersion reports the server version.
func (e *Executor) GetVersion(ctx context.Context) (string, error) {
	var v string
	if err := e.Pool.QueryRow(ctx, "SHOW server_version").Scan(&v); err != nil {
		return "", mapError(err)
	}
	return "postgres " + v, nil
}

func query(ctx context.Context, conn *pgxpool.Conn, sql string, res *backend.Result) error {
	rows, err := conn.Query(ctx, sql)
	if err != nil {
		return err
	}
	defer rows.Close()

	typeMap := conn.Conn().TypeMap()
	for _, fd := range rows.FieldDescriptions() {
		name := "unknown"
		if t, ok := typeMap.TypeForOID(fd.DataTypeOID); ok {
			name = t.Name
		}
		res.Columns = append(res.Columns, backend.Column{Name: fd.Name, Type: name})
	}

	for rows.Next() {
		if len(res.Rows) >= MaxResults {
			break
		}
		vals, err := rows.Values()
		if err != nil {
			return err
		}
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = FormatValue(v)
		}
		res.Rows = append(res.Rows, row)
	}
	return rows.Err()
}

func explainText(ctx context.Context, conn *pgxpool.Conn, sql string) (string, error) {
	rows, err := conn.Query(ctx, sql)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return "", err
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), rows.Err()
}

func explainJSON(ctx context.Context, conn *pgxpool.Conn, sql string) (string, error) {
	var raw string
	err := conn.QueryRow(ctx, sql).Scan(&raw)
	return raw, err
}

// mapError turns server-side errors into validation errors and everything else
// into network errors.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		msg := pgErr.Message
		if pgErr.Position > 0 {
			msg += " at position " + strconv.Itoa(int(pgErr.Position))
		}
		return &ferrors.E{Kind: ferrors.Validation, Message: msg, Err: err}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ferrors.Wrap(ferrors.Network, "query cancelled", err)
	}
	return ferrors.Wrap(ferrors.Network, "database request failed", err)
}
