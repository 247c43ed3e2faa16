package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if err := RunMigrations(dsn); err != nil {
		return nil, err
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{db: db, now: time.Now}, nil
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(databaseURL string) error {
	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	slog.Info("migrations applied", "version", version, "dirty", dirty)
	return nil
}

const sessionColumns = `id, title, created_at, updated_at, message_count`

func scanSession(row interface{ Scan(...any) error }) (Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.Title, &s.CreatedAt, &s.UpdatedAt, &s.MessageCount)
	return s, err
}

func (s *PostgresStore) CreateSession(ctx context.Context, title, firstMessage string) (Session, error) {
	now := s.now().UTC()
	sess := Session{
		ID:        NewSessionID(now),
		Title:     ResolveTitle(title, firstMessage),
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_sessions(id, title, message_count, created_at, updated_at)
		VALUES($1,$2,0,$3,$3)`,
		sess.ID, sess.Title, now)
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

func (s *PostgresStore) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM chat_sessions ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetSession(ctx context.Context, id string) (SessionData, error) {
	sess, err := scanSession(s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM chat_sessions WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return SessionData{}, ErrSessionNotFound
	}
	if err != nil {
		return SessionData{}, fmt.Errorf("failed to get session %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, content, sent_at, files
		FROM chat_messages WHERE session_id=$1 ORDER BY position`, id)
	if err != nil {
		return SessionData{}, err
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var (
			m     Message
			files []byte
		)
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.Timestamp, &files); err != nil {
			return SessionData{}, err
		}
		if err := json.Unmarshal(files, &m.Files); err != nil {
			return SessionData{}, fmt.Errorf("decode files of message %s: %w", m.ID, err)
		}
		if len(m.Files) == 0 {
			m.Files = nil
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return SessionData{}, err
	}
	return SessionData{Session: sess, Messages: messages}, nil
}

func (s *PostgresStore) AppendMessage(ctx context.Context, id string, msg Message) (Session, error) {
	now := s.now().UTC()
	msg = prepareMessage(msg, now)

	files, err := json.Marshal(filesOrEmpty(msg.Files))
	if err != nil {
		return Session{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Session{}, err
	}
	defer tx.Rollback()

	sess, err := scanSession(tx.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM chat_sessions WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, err
	}

	position := sess.MessageCount
	var existing int
	err = tx.QueryRowContext(ctx, `SELECT position FROM chat_messages WHERE session_id=$1 AND id=$2`, id, msg.ID).Scan(&existing)
	switch {
	case err == nil:
		position = existing
		if _, err := tx.ExecContext(ctx, `DELETE FROM chat_messages WHERE session_id=$1 AND position >= $2`, id, position); err != nil {
			return Session{}, err
		}
	case !errors.Is(err, sql.ErrNoRows):
		return Session{}, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chat_messages(session_id, id, position, role, content, sent_at, files)
		VALUES($1,$2,$3,$4,$5,$6,$7)`,
		id, msg.ID, position, msg.Role, msg.Content, msg.Timestamp, files)
	if err != nil {
		return Session{}, fmt.Errorf("insert message: %w", err)
	}

	sess.MessageCount = position + 1
	sess.UpdatedAt = now
	if sess.MessageCount == 1 && msg.Role == RoleUser {
		if t := GenerateTitle(msg.Content); t != "" {
			sess.Title = t
		}
	}
	_, err = tx.ExecContext(ctx, `UPDATE chat_sessions SET title=$1, message_count=$2, updated_at=$3 WHERE id=$4`,
		sess.Title, sess.MessageCount, sess.UpdatedAt, id)
	if err != nil {
		return Session{}, err
	}
	if err := tx.Commit(); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *PostgresStore) RenameSession(ctx context.Context, id, title string) (Session, error) {
	sess, err := scanSession(s.db.QueryRowContext(ctx, `
		UPDATE chat_sessions SET title=$1, updated_at=$2 WHERE id=$3
		RETURNING `+sessionColumns, title, s.now().UTC(), id))
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	return sess, err
}

func (s *PostgresStore) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *PostgresStore) PurgeIdle(ctx context.Context, before time.Time) ([]string, error) {
	var ids []string
	err := s.db.QueryRowContext(ctx, `
		WITH purged AS (
			DELETE FROM chat_sessions WHERE updated_at < $1 RETURNING id, seq
		)
		SELECT COALESCE(array_agg(id ORDER BY seq), ARRAY[]::TEXT[]) FROM purged`, before).
		Scan(pq.Array(&ids))
	if err != nil {
		return nil, fmt.Errorf("purge idle sessions: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func filesOrEmpty(files []UploadedFile) []UploadedFile {
	if files == nil {
		return []UploadedFile{}
	}
	return files
}
