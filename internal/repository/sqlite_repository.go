package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"chat-relay/bot/internal/model"
)

// SQLiteRepository is a HistoryStore backed by SQLite. With the default
// in-memory DSN the data still lives only as long as the process. Each
// operation runs in its own transaction, so an append and the read that
// follows it are never interleaved with another flow's writes.
type SQLiteRepository struct {
	db         *sql.DB
	maxHistory int
}

// NewSQLiteRepository creates a history store on an initialized database
// (see database.InitDB).
func NewSQLiteRepository(db *sql.DB, maxHistory int) *SQLiteRepository {
	return &SQLiteRepository{db: db, maxHistory: normalizeMax(maxHistory)}
}

func (r *SQLiteRepository) Get(ctx context.Context, user model.UserID) ([]model.Turn, error) {
	return queryTurns(ctx, r.db, user)
}

// Append inserts the turn, trims the user's history to the bound and returns
// the result in a single transaction.
func (r *SQLiteRepository) Append(ctx context.Context, user model.UserID, turn model.Turn) ([]model.Turn, error) {
	if turn.Content.HasInlineData() {
		return nil, ErrInlineData
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	// Ensure transaction is rolled back on error
	defer func() { _ = tx.Rollback() }()

	insertQuery := "INSERT INTO turns (user_id, role, content, created_at) VALUES (?, ?, ?, ?)"
	if _, err := tx.ExecContext(ctx, insertQuery, int64(user), string(turn.Role), turn.Content.Text(), time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("could not insert turn: %w", err)
	}

	trimQuery := `
		DELETE FROM turns
		WHERE user_id = ? AND id NOT IN (
			SELECT id FROM turns WHERE user_id = ? ORDER BY id DESC LIMIT ?
		)
	`
	if _, err := tx.ExecContext(ctx, trimQuery, int64(user), int64(user), r.maxHistory); err != nil {
		return nil, fmt.Errorf("could not trim history: %w", err)
	}

	history, err := queryTurns(ctx, tx, user)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit turn: %w", err)
	}
	return history, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, user model.UserID) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM turns WHERE user_id = ?", int64(user)); err != nil {
		return fmt.Errorf("could not clear history: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Users(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT user_id) FROM turns").Scan(&n); err != nil {
		return 0, fmt.Errorf("could not count users: %w", err)
	}
	return n, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryTurns(ctx context.Context, q querier, user model.UserID) ([]model.Turn, error) {
	query := "SELECT role, content FROM turns WHERE user_id = ? ORDER BY id ASC"
	rows, err := q.QueryContext(ctx, query, int64(user))
	if err != nil {
		return nil, fmt.Errorf("could not query history: %w", err)
	}
	defer rows.Close()

	turns := []model.Turn{}
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("could not scan turn: %w", err)
		}
		turns = append(turns, model.Turn{Role: model.Role(role), Content: model.TextContent(content)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read history: %w", err)
	}
	return turns, nil
}
