package client

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/stuck-lehnert/cloud/query/sqlgen"
)

// Tx is an open transaction. Nested transactions use savepoints, named
// uniquely within the outermost transaction.
//
// A Tx runs on a single connection and must not be used from several
// goroutines at once.
type Tx struct {
	tx     *sql.Tx
	client *Client
	seq    *atomic.Int64
}

// Transaction runs fn inside a new transaction.
func (c *Client) Transaction(ctx context.Context, fn func(tx Executor) error) error {
	return c.TransactionWithOptions(ctx, nil, fn)
}

// TransactionWithOptions runs fn inside a new transaction started with opts.
// The transaction is rolled back if fn returns an error or panics; a panic
// is re-raised after the rollback.
func (c *Client) TransactionWithOptions(ctx context.Context, opts *sql.TxOptions, fn func(tx Executor) error) error {
	sqlTx, err := c.db.BeginTx(ctx, opts)
	if err != nil {
		return &ExecutionError{SQL: "BEGIN", Err: err}
	}

	tx := &Tx{tx: sqlTx, client: c, seq: new(atomic.Int64)}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return &ExecutionError{SQL: "COMMIT", Err: err}
	}
	return nil
}

// Query runs stmt inside the transaction.
func (t *Tx) Query(ctx context.Context, stmt sqlgen.Fragment) ([]map[string]any, error) {
	return t.client.run(ctx, t.tx, stmt, true)
}

// Transaction runs fn inside a savepoint of t. Only the savepoint is rolled
// back on failure; the outer transaction stays usable.
func (t *Tx) Transaction(ctx context.Context, fn func(tx Executor) error) error {
	nested := &Tx{tx: t.tx, client: t.client, seq: t.seq}
	name := fmt.Sprintf("sp_%d", t.seq.Add(1))

	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return &ExecutionError{SQL: "SAVEPOINT " + name, Err: err}
	}

	defer func() {
		if p := recover(); p != nil {
			_, _ = t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name)
			panic(p)
		}
	}()

	if err := fn(nested); err != nil {
		if _, rbErr := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return fmt.Errorf("%w (rollback to savepoint failed: %v)", err, rbErr)
		}
		return err
	}

	if _, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return &ExecutionError{SQL: "RELEASE SAVEPOINT " + name, Err: err}
	}
	return nil
}

var _ Executor = (*Tx)(nil)
