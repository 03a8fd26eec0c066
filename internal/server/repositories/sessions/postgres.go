package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/dbx"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/google/uuid"
)

// OneActivePerUser is the partial unique index that backs CreateActive.
const OneActivePerUser = "sessions_one_active_per_user"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateActive(ctx context.Context, session *models.Session) (*models.Session, error) {
	query :=
		`INSERT INTO sessions (user_id, token, active)
		 VALUES ($1, $2, TRUE)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, session.UserID, session.Token).
		Scan(&session.ID, &session.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err, OneActivePerUser) {
			return nil, common.ErrActiveSessionExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	session.Active = true
	return session, nil
}

func (r *PostgresRepository) ListActive(ctx context.Context, userID string) ([]*models.Session, error) {
	result := make([]*models.Session, 0)
	if _, err := uuid.Parse(userID); err != nil {
		return result, nil
	}

	query :=
		`SELECT id, user_id, token, active, created_at FROM sessions
		 WHERE user_id = $1 AND active
		 ORDER BY created_at
		 FOR UPDATE`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s := &models.Session{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.Token, &s.Active, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) DeactivateAll(ctx context.Context, userID string) (int64, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return 0, nil
	}

	query :=
		`UPDATE sessions SET active = FALSE
		 WHERE user_id = $1 AND active`

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}

func (r *PostgresRepository) ActiveByToken(ctx context.Context, token string) (*models.Session, error) {
	query :=
		`SELECT id, user_id, token, active, created_at FROM sessions
		 WHERE token = $1 AND active`

	s := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&s.ID, &s.UserID, &s.Token, &s.Active, &s.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}
