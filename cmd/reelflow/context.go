package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"reelflow/internal/config"
	"reelflow/internal/ipc"
)

const annotationSkipConfig = "skipConfigLoad"

// cliContext carries the persistent flag values and the lazily loaded
// configuration shared by every subcommand.
type cliContext struct {
	socketOverride *string
	configOverride *string

	loadOnce sync.Once
	cfg      *config.Config
	cfgErr   error
}

func newCLIContext(socketOverride, configOverride *string) *cliContext {
	return &cliContext{
		socketOverride: socketOverride,
		configOverride: configOverride,
	}
}

// overrides returns the trimmed --socket and --config flag values.
func (c *cliContext) overrides() (socket, configPath string) {
	if c.socketOverride != nil {
		socket = strings.TrimSpace(*c.socketOverride)
	}
	if c.configOverride != nil {
		configPath = strings.TrimSpace(*c.configOverride)
	}
	return socket, configPath
}

// ensureConfig loads the configuration once and creates its directories.
// Every call after the first returns the same result.
func (c *cliContext) ensureConfig() (*config.Config, error) {
	c.loadOnce.Do(func() {
		_, configPath := c.overrides()
		cfg, _, _, err := config.Load(configPath)
		if err == nil {
			err = cfg.EnsureDirectories()
		}
		if err != nil {
			c.cfgErr = err
			return
		}
		c.cfg = cfg
	})
	return c.cfg, c.cfgErr
}

// configValue is the best-effort variant for callers that tolerate a nil
// configuration.
func (c *cliContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// socketPath resolves the daemon socket: the --socket flag wins, then the
// configured location, then a temp-dir fallback when no config loads.
func (c *cliContext) socketPath() string {
	if socket, _ := c.overrides(); socket != "" {
		return socket
	}
	if cfg, err := c.ensureConfig(); err == nil && cfg != nil {
		return cfg.SocketPath()
	}
	return filepath.Join(os.TempDir(), "reelflowd.sock")
}

// withClient dials the daemon socket, runs fn, and closes the connection.
func (c *cliContext) withClient(fn func(*ipc.Client) error) error {
	socket := c.socketPath()
	client, err := ipc.Dial(socket)
	if err != nil {
		return dialHint(socket, err)
	}
	defer client.Close()
	return fn(client)
}

// dialHint turns low-level socket errors into actionable messages.
func dialHint(socket string, err error) error {
	if errors.Is(err, syscall.ENOENT) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("connect to daemon: socket %s not found; start the daemon with `reelflow start`", socket)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("connect to daemon: socket %s refused the connection; verify the daemon is running", socket)
	}
	return fmt.Errorf("connect to daemon: %w", err)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationSkipConfig] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
