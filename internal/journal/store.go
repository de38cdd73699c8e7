// Package journal keeps a SQLite log of the replies the bot has sent.
// It is write-only from the bot's point of view: nothing in it is fed back
// into the schedule.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"phrasebot/internal/domain"
)

// Entry is one sent reply.
type Entry struct {
	ID        int64
	RunID     string
	ChatID    int64
	MessageID int
	Kind      domain.ReplyKind
	Text      string
	SentAt    time.Time
}

// Store implements domain.ReplyJournal using SQLite.
type Store struct {
	db     *sql.DB
	runID  string
	logger *slog.Logger
}

// Open creates the database file and its directory if needed. Every Store
// gets a fresh run id that tags the entries it records.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Single connection for SQLite
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db, runID: uuid.NewString(), logger: logger}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal migration failed: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS replies (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id      TEXT NOT NULL,
		chat_id     INTEGER NOT NULL,
		message_id  INTEGER NOT NULL,
		kind        TEXT NOT NULL,
		text        TEXT NOT NULL,
		sent_at     DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_replies_chat ON replies(chat_id, sent_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RunID identifies this process's entries.
func (s *Store) RunID() string { return s.runID }

// Record appends a sent reply.
func (s *Store) Record(ctx context.Context, reply domain.Reply) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO replies (run_id, chat_id, message_id, kind, text, sent_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.runID, reply.ChatID, reply.ReplyTo, string(reply.Kind), reply.Text, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record reply: %w", err)
	}
	return nil
}

// Recent returns the newest entries first. chatID 0 means all chats.
func (s *Store) Recent(ctx context.Context, chatID int64, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, run_id, chat_id, message_id, kind, text, sent_at FROM replies`
	args := []any{}
	if chatID != 0 {
		query += ` WHERE chat_id = ?`
		args = append(args, chatID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query replies: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind string
		if err := rows.Scan(&e.ID, &e.RunID, &e.ChatID, &e.MessageID, &kind, &e.Text, &e.SentAt); err != nil {
			return nil, fmt.Errorf("scan reply: %w", err)
		}
		e.Kind = domain.ReplyKind(kind)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Counts returns the number of recorded replies per kind.
func (s *Store) Counts(ctx context.Context) (map[domain.ReplyKind]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM replies GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("count replies: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.ReplyKind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[domain.ReplyKind(kind)] = n
	}
	return counts, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
