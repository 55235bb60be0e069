package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"reelflow/internal/config"
)

// Store manages project persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the project database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.ProjectDBPath()
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

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Insert persists a new project row.
func (s *Store) Insert(ctx context.Context, project *Project) error {
	if project == nil {
		return errors.New("project is nil")
	}
	videos, timeline, tasks, err := encodeAggregates(project)
	if err != nil {
		return err
	}
	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO projects (
            id, name, client, event_id, status, videos_json, timeline_json, tasks_json,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID,
		project.Name,
		nullableString(project.Client),
		nullableString(project.EventID),
		project.Status,
		nullableString(videos),
		nullableString(timeline),
		nullableString(tasks),
		project.CreatedAt.UTC().Format(time.RFC3339Nano),
		project.UpdatedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetByID fetches a project by identifier. Returns nil when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

// GetByEventID returns the first project bound to an event. Returns nil when absent.
func (s *Store) GetByEventID(ctx context.Context, eventID string) (*Project, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+projectColumns+` FROM projects WHERE event_id = ? ORDER BY created_at LIMIT 1`,
		eventID,
	)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project by event: %w", err)
	}
	return project, nil
}

// Update persists changes to an existing project. Reports whether a row matched.
func (s *Store) Update(ctx context.Context, project *Project) (bool, error) {
	if project == nil {
		return false, errors.New("project is nil")
	}
	videos, timeline, tasks, err := encodeAggregates(project)
	if err != nil {
		return false, err
	}
	project.UpdatedAt = time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`UPDATE projects
         SET name = ?, client = ?, event_id = ?, status = ?,
             videos_json = ?, timeline_json = ?, tasks_json = ?, updated_at = ?
         WHERE id = ?`,
		project.Name,
		nullableString(project.Client),
		nullableString(project.EventID),
		project.Status,
		nullableString(videos),
		nullableString(timeline),
		nullableString(tasks),
		project.UpdatedAt.Format(time.RFC3339Nano),
		project.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// List returns projects filtered by status set (or all projects when no
// status is provided), oldest first.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Project, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + projectColumns + ` FROM projects`
	orderClause := ` ORDER BY created_at`

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
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// Remove deletes a project by identifier.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// CountByStatus aggregates project counts per lifecycle state.
func (s *Store) CountByStatus(ctx context.Context) (Stats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM projects GROUP BY status`)
	if err != nil {
		return Stats{}, fmt.Errorf("count projects: %w", err)
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, fmt.Errorf("scan count: %w", err)
		}
		stats.Total += count
		switch Status(status) {
		case StatusDraft:
			stats.Draft = count
		case StatusInProgress:
			stats.InProgress = count
		case StatusReview:
			stats.Review = count
		case StatusCompleted:
			stats.Completed = count
		case StatusArchived:
			stats.Archived = count
		}
	}
	return stats, rows.Err()
}

const projectColumns = "id, name, client, event_id, status, videos_json, timeline_json, tasks_json, created_at, updated_at"

func scanProject(scanner interface{ Scan(dest ...any) error }) (*Project, error) {
	var (
		id         string
		name       string
		client     sql.NullString
		eventID    sql.NullString
		statusStr  string
		videosRaw  sql.NullString
		timelineRw sql.NullString
		tasksRaw   sql.NullString
		createdRaw string
		updatedRaw string
	)

	if err := scanner.Scan(
		&id,
		&name,
		&client,
		&eventID,
		&statusStr,
		&videosRaw,
		&timelineRw,
		&tasksRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	project := &Project{
		ID:      id,
		Name:    name,
		Client:  client.String,
		EventID: eventID.String,
		Status:  Status(statusStr),
	}
	if videosRaw.Valid && videosRaw.String != "" {
		if err := json.Unmarshal([]byte(videosRaw.String), &project.Videos); err != nil {
			return nil, fmt.Errorf("decode videos: %w", err)
		}
	}
	if timelineRw.Valid && timelineRw.String != "" {
		if err := json.Unmarshal([]byte(timelineRw.String), &project.Timeline); err != nil {
			return nil, fmt.Errorf("decode timeline: %w", err)
		}
	}
	if tasksRaw.Valid && tasksRaw.String != "" {
		if err := json.Unmarshal([]byte(tasksRaw.String), &project.Tasks); err != nil {
			return nil, fmt.Errorf("decode tasks: %w", err)
		}
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		project.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		project.UpdatedAt = updated
	}
	return project, nil
}

func encodeAggregates(project *Project) (videos, timeline, tasks string, err error) {
	videos, err = encodeJSON(project.Videos)
	if err != nil {
		return "", "", "", fmt.Errorf("encode videos: %w", err)
	}
	timeline, err = encodeJSON(project.Timeline)
	if err != nil {
		return "", "", "", fmt.Errorf("encode timeline: %w", err)
	}
	tasks, err = encodeJSON(project.Tasks)
	if err != nil {
		return "", "", "", fmt.Errorf("encode tasks: %w", err)
	}
	return videos, timeline, tasks, nil
}

func encodeJSON[T any](items []T) (string, error) {
	if len(items) == 0 {
		return "", nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) execWithoutResultRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
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
