// Package store is the MySQL persistence layer. Every query helper takes a
// Querier so the same code runs on the pool or inside a transaction.
package store

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicate      = errors.New("duplicate record")
	ErrNotEnoughStock = errors.New("not enough stock")
)

// Querier is implemented by both *sqlx.DB and *sqlx.Tx.
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Store wraps the primary read/write pool.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// DB returns the pool for reads outside a transaction.
func (s *Store) DB() Querier {
	return s.db
}

// Ping checks the pool can reach the database.
func (s *Store) Ping(ctx context.Context) error {
	return errors.Wrap(s.db.PingContext(ctx), "ping database")
}

// WithTx runs fn inside a transaction and commits if fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback() // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit transaction")
}

// get runs a single-row query and maps sql.ErrNoRows to ErrNotFound.
func get(ctx context.Context, q Querier, dest interface{}, what, query string, args ...interface{}) error {
	err := q.GetContext(ctx, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(ErrNotFound, what)
	}
	return errors.Wrapf(err, "get %s", what)
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

func insert(ctx context.Context, q Querier, what, query string, args ...interface{}) (int64, error) {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		if isDuplicate(err) {
			return 0, errors.Wrap(ErrDuplicate, what)
		}
		return 0, errors.Wrapf(err, "insert %s", what)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.Wrapf(err, "read id of new %s", what)
	}
	return id, nil
}
