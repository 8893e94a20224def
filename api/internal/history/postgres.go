package history

import (
	"context"
	"database/sql"
	"errors"
)

type PostgresStore struct{ DB *sql.DB }

func NewPostgresStore(db *sql.DB) *PostgresStore { return &PostgresStore{DB: db} }

const schemaDDL = `
create table if not exists report_history (
	history_key text primary key,
	items       jsonb not null,
	updated_at  timestamptz not null default now()
)`

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, schemaDDL)
	return err
}

func (s *PostgresStore) Load(ctx context.Context, key string) ([]byte, error) {
	const q = `select items from report_history where history_key=$1`
	var js []byte
	if err := s.DB.QueryRowContext(ctx, q, key).Scan(&js); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return js, nil
}

// Save upserts the whole list for key.
func (s *PostgresStore) Save(ctx context.Context, key string, data []byte) error {
	const q = `
insert into report_history(history_key, items)
values ($1, $2)
on conflict (history_key)
do update set items=excluded.items, updated_at=now()`
	_, err := s.DB.ExecContext(ctx, q, key, data)
	return err
}
