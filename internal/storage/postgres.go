package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	txcontext "regdesk/pkg/platform/tx"
)

// Postgres stores the bucket in the kv table (see internal/platform/postgres).
// Update takes a transaction-scoped advisory lock on the key so that
// concurrent writers, including inserts of a missing key, serialize.
type Postgres struct {
	db     *sql.DB
	ownsDB bool
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (p *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return p.db
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := p.execer(ctx).QueryRowContext(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return v, true, nil
}

const upsertQuery = `
INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	if _, err := p.execer(ctx).ExecContext(ctx, upsertQuery, key, value); err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := p.execer(ctx).ExecContext(ctx, `DELETE FROM kv WHERE key = ANY($1)`, pq.Array(keys)); err != nil {
		return fmt.Errorf("postgres delete: %w", err)
	}
	return nil
}

func (p *Postgres) Incr(ctx context.Context, key string) (int64, error) {
	var n int64
	err := txcontext.Run(ctx, p.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := lockKey(ctx, tx, key); err != nil {
			return err
		}
		v, ok, err := p.Get(ctx, key)
		if err != nil {
			return err
		}
		n, err = parseCounter(key, v, ok)
		if err != nil {
			return err
		}
		n++
		return p.Set(ctx, key, fmt.Sprintf("%d", n))
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (p *Postgres) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return txcontext.Run(ctx, p.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := lockKey(ctx, tx, key); err != nil {
			return err
		}
		v, ok, err := p.Get(ctx, key)
		if err != nil {
			return err
		}
		next, write, err := applyUpdate(fn, v, ok)
		if err != nil || !write {
			return err
		}
		return p.Set(ctx, key, next)
	})
}

func (p *Postgres) Scan(ctx context.Context, prefix string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT key FROM kv WHERE key LIKE $1 ESCAPE '\' ORDER BY key`, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("postgres scan %s: %w", prefix, err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("postgres scan %s: %w", prefix, err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the pool only when Open created it.
func (p *Postgres) Close() error {
	if !p.ownsDB {
		return nil
	}
	return p.db.Close()
}

func lockKey(ctx context.Context, tx *sql.Tx, key string) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("postgres lock %s: %w", key, err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
