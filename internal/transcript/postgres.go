package transcript

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on top of a Postgres pool via pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing pgxpool.Pool as a transcript Store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Init creates the transcript_turns table if it does not already exist.
func (s *PostgresStore) Init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS transcript_turns (
    id UUID PRIMARY KEY,
    session_id TEXT NOT NULL,
    input TEXT NOT NULL,
    reply TEXT NOT NULL,
    score DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS transcript_turns_session_created_idx
    ON transcript_turns(session_id, created_at);
`)
	return err
}

func (s *PostgresStore) AppendTurn(ctx context.Context, sessionID string, turn Turn) (Turn, error) {
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}
	turn.SessionID = sessionID

	_, err := s.pool.Exec(ctx, `
INSERT INTO transcript_turns (id, session_id, input, reply, score, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`,
		turn.ID, turn.SessionID, turn.Input, turn.Reply, turn.Score, turn.CreatedAt)
	if err != nil {
		return Turn{}, err
	}
	return turn, nil
}

func (s *PostgresStore) ListTurns(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, session_id, input, reply, score, created_at
FROM transcript_turns
WHERE session_id = $1
ORDER BY created_at ASC, id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Input, &t.Reply, &t.Score, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

var _ Store = (*PostgresStore)(nil)
