package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cmlabs-hris/shift-attendance/internal/bootstrap"
	"github.com/cmlabs-hris/shift-attendance/internal/config"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/workday"
)

type Globals struct {
	Debug   bool
	Version string
}

// environment is the loaded configuration plus the connected repositories.
type environment struct {
	cfg    *config.Config
	policy workday.Policy
	repos  bootstrap.Repositories
}

func (e *environment) Close() {
	e.repos.Close()
}

func (e *environment) services() bootstrap.Services {
	return bootstrap.NewServices(e.repos, e.policy, time.Now)
}

// open loads configuration and connects to PostgreSQL. The memory driver is rejected because
// its state would not outlive the command.
func open(ctx context.Context, globals *Globals) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if globals.Debug {
		cfg.App.LogLevel = "debug"
	}
	if cfg.App.StorageDriver != config.StorageDriverPostgres {
		return nil, fmt.Errorf("shiftctl needs STORAGE_DRIVER=%s, got %q", config.StorageDriverPostgres, cfg.App.StorageDriver)
	}

	logger, _, err := bootstrap.NewLogger(cfg, globals.Version)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	repos, err := bootstrap.OpenRepositories(ctx, cfg, policy)
	if err != nil {
		return nil, err
	}

	return &environment{cfg: cfg, policy: policy, repos: repos}, nil
}

var stdout io.Writer = os.Stdout

func printJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
