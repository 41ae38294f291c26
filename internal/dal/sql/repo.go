package sql

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/Roma7-7-7/vocab-trainer/internal/dal"
)

const driverName = "sqlite"

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question) //nolint:gochecknoglobals // stateless builder

type (
	// Client is satisfied by both *sqlx.DB and *sqlx.Tx.
	Client interface {
		sqlx.ExtContext
	}

	Repository struct {
		db     *sqlx.DB
		client Client
		log    *slog.Logger
	}
)

// Open connects to the SQLite file at path. Foreign keys are enforced and
// transactions take the write lock up front.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn := path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to sqlite: %w", err)
	}
	return db, nil
}

func NewRepository(db *sqlx.DB, log *slog.Logger) *Repository {
	return &Repository{db: db, client: db, log: log}
}

func (r *Repository) Transact(ctx context.Context, txFunc func(r dal.Repository) error) error {
	if _, ok := r.client.(*sqlx.Tx); ok {
		return txFunc(r)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // ignore rollback errors

	if err = txFunc(&Repository{db: r.db, client: tx, log: r.log}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (r *Repository) exec(ctx context.Context, query squirrel.Sqlizer) (int64, error) {
	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	res, err := r.client.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return affected, nil
}

func (r *Repository) get(ctx context.Context, dest any, query squirrel.Sqlizer) error {
	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return sqlx.GetContext(ctx, r.client, dest, sqlQuery, args...)
}

func (r *Repository) selectAll(ctx context.Context, dest any, query squirrel.Sqlizer) error {
	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return sqlx.SelectContext(ctx, r.client, dest, sqlQuery, args...)
}
