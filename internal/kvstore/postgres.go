package kvstore

import (
	"context"
	"encoding/json"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBOps defines the subset of pgxpool.Pool methods we use.
// This allows us to inject a mock for testing.
type DBOps interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore is the persistent namespace: one kv_blobs table holding
// JSON documents keyed by string.
type PostgresStore struct {
	db DBOps
}

func NewPostgresStore(db DBOps) *PostgresStore {
	return &PostgresStore{db: db}
}

func AutoMigrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS kv_blobs(
          key TEXT PRIMARY KEY,
          value JSONB NOT NULL,
          updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
      );
  `)
	if err != nil {
		log.Printf("kvstore: migrate: %v", err)
		return err
	}
	return nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("kvstore: marshal %q: %v", key, err)
		return false
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO kv_blobs (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		    SET value = EXCLUDED.value,
		        updated_at = now()
	`, key, data)
	if err != nil {
		log.Printf("kvstore: set %q: %v", key, err)
		return false
	}
	return true
}

func (s *PostgresStore) Get(ctx context.Context, key string, dest any) bool {
	var data []byte
	err := s.db.QueryRow(ctx, `SELECT value FROM kv_blobs WHERE key = $1`, key).Scan(&data)
	if err != nil {
		if err != pgx.ErrNoRows {
			log.Printf("kvstore: get %q: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("kvstore: unmarshal %q: %v", key, err)
		return false
	}
	return true
}

func (s *PostgresStore) Remove(ctx context.Context, key string) bool {
	_, err := s.db.Exec(ctx, `DELETE FROM kv_blobs WHERE key = $1`, key)
	if err != nil {
		log.Printf("kvstore: remove %q: %v", key, err)
		return false
	}
	return true
}

func (s *PostgresStore) Clear(ctx context.Context) bool {
	_, err := s.db.Exec(ctx, `DELETE FROM kv_blobs`)
	if err != nil {
		log.Printf("kvstore: clear: %v", err)
		return false
	}
	return true
}
