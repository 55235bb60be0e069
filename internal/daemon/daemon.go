package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"

	"reelflow/internal/catalog"
	"reelflow/internal/config"
	"reelflow/internal/logging"
	"reelflow/internal/notifications"
	"reelflow/internal/projects"
	"reelflow/internal/timeline"
)

// Daemon coordinates the stores and services behind the control socket and
// enforces single-instance execution via an advisory file lock.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	catalog   *catalog.Store
	timelines *timeline.Service
	store     *projects.Store
	projects  *projects.Service
	notifier  notifications.Service
	logPath   string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	ProjectDBPath string
	LockFilePath  string
	SocketPath    string
	Stats         projects.Stats
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *projects.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("daemon requires config and project store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	notifier := notifications.NewService(cfg)
	cat := catalog.NewStore(cfg)
	lockPath := filepath.Join(cfg.Paths.LogDir, "reelflowd.lock")
	return &Daemon{
		cfg:       cfg,
		logger:    logger,
		catalog:   cat,
		timelines: timeline.NewService(cfg, cat, notifier, logger),
		store:     store,
		projects:  projects.NewService(store, notifier, logger),
		notifier:  notifier,
		logPath:   filepath.Join(cfg.Paths.LogDir, "reelflow.log"),
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and marks the daemon running.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another reelflow daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.running.Store(true)
	d.logger.Info("reelflow daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop releases the daemon lock and marks the daemon stopped.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("reelflow daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Projects exposes the project workflow service.
func (d *Daemon) Projects() *projects.Service {
	return d.projects
}

// Timelines exposes the timeline persistence gateway.
func (d *Daemon) Timelines() *timeline.Service {
	return d.timelines
}

// Catalog exposes the event and briefing catalog.
func (d *Daemon) Catalog() *catalog.Store {
	return d.catalog
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if d.cfg == nil {
		return false, "configuration unavailable", errors.New("configuration unavailable")
	}
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:       d.running.Load(),
		ProjectDBPath: d.cfg.ProjectDBPath(),
		LockFilePath:  d.lockPath,
		SocketPath:    d.cfg.SocketPath(),
	}
	if stats, err := d.projects.Stats(ctx); err == nil {
		status.Stats = stats
	}
	return status
}
