package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ashaai/asha-server/internal/db"
)

// SQLiteStore persists transcripts in the messages table, surviving process
// restarts. Per-key ordering is enforced by a sequence column assigned
// inside a transaction.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a durable store on the given database.
func NewSQLiteStore(database *db.DB) *SQLiteStore {
	return &SQLiteStore{db: database}
}

func (s *SQLiteStore) Append(ctx context.Context, key Key, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq)+1, 0) FROM messages WHERE user_id = ? AND chat_title = ?`,
		key.UserID, key.ChatTitle).Scan(&next)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	for i, msg := range msgs {
		urls, err := json.Marshal(msg.URLs)
		if err != nil {
			return fmt.Errorf("marshal urls: %w", err)
		}
		at := msg.At
		if at.IsZero() {
			at = time.Now().UTC()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO messages (id, user_id, chat_title, seq, role, content, urls, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			msg.ID, key.UserID, key.ChatTitle, next+i, string(msg.Role), msg.Content, string(urls), at)
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) History(ctx context.Context, key Key) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, content, urls, created_at FROM messages WHERE user_id = ? AND chat_title = ? ORDER BY seq`,
		key.UserID, key.ChatTitle)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (s *SQLiteStore) Chats(ctx context.Context, userID string) ([]Chat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chat_title, id, role, content, urls, created_at FROM messages WHERE user_id = ? ORDER BY chat_title, seq`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var title string
		var msg Message
		var role, urls string
		if err := rows.Scan(&title, &msg.ID, &role, &msg.Content, &urls, &msg.At); err != nil {
			return nil, fmt.Errorf("scan chat row: %w", err)
		}
		msg.Role = Role(role)
		if err := json.Unmarshal([]byte(urls), &msg.URLs); err != nil {
			return nil, fmt.Errorf("unmarshal urls: %w", err)
		}

		if len(chats) == 0 || chats[len(chats)-1].Title != title {
			chats = append(chats, Chat{Title: title})
		}
		last := &chats[len(chats)-1]
		last.History = append(last.History, msg)
	}
	return chats, rows.Err()
}

func (s *SQLiteStore) Clear(ctx context.Context, key Key) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM messages WHERE user_id = ? AND chat_title = ?`, key.UserID, key.ChatTitle)
	return err
}

func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM messages`)
	return err
}

func scanMessages(rows *sql.Rows) ([]Message, error) {
	var out []Message
	for rows.Next() {
		var msg Message
		var role, urls string
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &urls, &msg.At); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.Role = Role(role)
		if err := json.Unmarshal([]byte(urls), &msg.URLs); err != nil {
			return nil, fmt.Errorf("unmarshal urls: %w", err)
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}
