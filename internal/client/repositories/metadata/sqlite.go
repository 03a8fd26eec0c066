package metadata

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/dbx"
)

// SQLiteRepository keeps the session as rows of the metadata table. Every
// method is a single statement, so a session is never half written.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, s Session) error {
	if s.Token == "" {
		return fmt.Errorf("save session: empty token")
	}
	at := s.SignedInAt
	if at.IsZero() {
		at = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?), (?, ?), (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`,
		KeyToken, []byte(s.Token),
		KeyEmail, []byte(s.Email),
		KeySignedInAt, []byte(at.UTC().Format(time.RFC3339)),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context) (Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value FROM metadata WHERE key IN (?, ?, ?)`,
		KeyToken, KeyEmail, KeySignedInAt)
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	defer rows.Close()

	var s Session
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return Session{}, fmt.Errorf("load session: %w", err)
		}
		switch key {
		case KeyToken:
			s.Token = string(value)
		case KeyEmail:
			s.Email = string(value)
		case KeySignedInAt:
			// an unreadable timestamp does not invalidate the token
			s.SignedInAt, _ = time.Parse(time.RFC3339, string(value))
		}
	}
	if err := rows.Err(); err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}

	if s.Token == "" {
		return Session{}, common.ErrorNotFound
	}
	return s, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM metadata WHERE key IN (?, ?, ?)`,
		KeyToken, KeyEmail, KeySignedInAt)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
