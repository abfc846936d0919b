package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"bindery/internal/config"
)

// Store manages queue persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the queue database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "queue.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Enqueue records a folder as pending work. Folders already known to the
// store keep their current state, so repeated scans are idempotent.
func (s *Store) Enqueue(ctx context.Context, folderID, manifestPath, agentOutputPath string) (*Entry, error) {
	if folderID == "" {
		return nil, errors.New("folder id is required")
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO queue_entries (folder_id, manifest_path, agent_output_path, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(folder_id) DO NOTHING`,
		folderID,
		manifestPath,
		agentOutputPath,
		StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("enqueue folder: %w", err)
	}

	return s.GetByFolder(ctx, folderID)
}

// GetByFolder fetches a queue entry by folder identifier.
func (s *Store) GetByFolder(ctx context.Context, folderID string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM queue_entries WHERE folder_id = ?`, folderID)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// Pending returns pending entries in lexicographic folder order so batch runs
// are reproducible.
func (s *Store) Pending(ctx context.Context) ([]*Entry, error) {
	return s.List(ctx, StatusPending)
}

// List returns entries filtered by status set (or all entries when no status
// is provided), ordered lexicographically by folder.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Entry, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + entryColumns + ` FROM queue_entries`
	orderClause := ` ORDER BY folder_id`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list queue entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// MarkProcessed transitions a pending entry to processed. The transition is
// guarded so an entry never reaches processed from any other state.
func (s *Store) MarkProcessed(ctx context.Context, folderID string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE queue_entries
         SET status = ?, stage = NULL, error_message = NULL, updated_at = ?
         WHERE folder_id = ? AND status = ?`,
		StatusProcessed,
		time.Now().UTC().Format(time.RFC3339Nano),
		folderID,
		StatusPending,
	)
	if err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("folder %q is not pending", folderID)
	}
	return nil
}

// MarkFailed records a failure against a pending entry, leaving the source
// artifacts untouched for a manual rerun.
func (s *Store) MarkFailed(ctx context.Context, folderID, stage, message string) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE queue_entries
         SET status = ?, stage = ?, error_message = ?, updated_at = ?
         WHERE folder_id = ? AND status = ?`,
		StatusFailed,
		nullableString(stage),
		nullableString(message),
		time.Now().UTC().Format(time.RFC3339Nano),
		folderID,
		StatusPending,
	)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}

// RetryFailed moves failed entries back to pending for reprocessing. With no
// ids, all failed entries are retried.
func (s *Store) RetryFailed(ctx context.Context, folderIDs ...string) (int64, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	if len(folderIDs) == 0 {
		res, err := s.db.ExecContext(
			ctx,
			`UPDATE queue_entries
             SET status = ?, stage = NULL, error_message = NULL, updated_at = ?
             WHERE status = ?`,
			StatusPending,
			timestamp,
			StatusFailed,
		)
		if err != nil {
			return 0, fmt.Errorf("retry failed entries: %w", err)
		}
		return res.RowsAffected()
	}

	placeholders := makePlaceholders(len(folderIDs))
	args := make([]any, 0, len(folderIDs)+3)
	args = append(args, StatusPending, timestamp)
	for _, id := range folderIDs {
		args = append(args, id)
	}
	args = append(args, StatusFailed)
	query := `UPDATE queue_entries
        SET status = ?, stage = NULL, error_message = NULL, updated_at = ?
        WHERE folder_id IN (` + placeholders + `) AND status = ?`
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("retry selected entries: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns a count of entries grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM queue_entries GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("queue stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates queue state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusPending:
			health.Pending += count
		case StatusProcessed:
			health.Processed += count
		case StatusFailed:
			health.Failed += count
		}
	}
	return health, nil
}

// Remove deletes an entry by folder identifier.
func (s *Store) Remove(ctx context.Context, folderID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM queue_entries WHERE folder_id = ?`, folderID)
	if err != nil {
		return false, fmt.Errorf("delete entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ClearProcessed removes only processed entries from the queue.
func (s *Store) ClearProcessed(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM queue_entries WHERE status = ?`, StatusProcessed)
	if err != nil {
		return 0, fmt.Errorf("clear processed: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes all entries from the queue.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM queue_entries`)
	if err != nil {
		return 0, fmt.Errorf("clear queue: %w", err)
	}
	return res.RowsAffected()
}

const entryColumns = "id, folder_id, manifest_path, agent_output_path, status, stage, error_message, created_at, updated_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		id           int64
		folderID     string
		manifestPath string
		agentPath    string
		statusStr    string
		stage        sql.NullString
		errorMessage sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&folderID,
		&manifestPath,
		&agentPath,
		&statusStr,
		&stage,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:              id,
		FolderID:        folderID,
		ManifestPath:    manifestPath,
		AgentOutputPath: agentPath,
		Status:          Status(statusStr),
		Stage:           stage.String,
		ErrorMessage:    errorMessage.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		entry.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		entry.UpdatedAt = updated
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
