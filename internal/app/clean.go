package app

import (
	"context"
	"errors"
	"os"

	"go.trai.ch/tgr/internal/adapters/lock" //nolint:depguard // Wired in app layer
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/zerr"
)

// ProjectOptions locate the configuration of a maintenance command.
type ProjectOptions struct {
	Dir        string
	ConfigPath string
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	ProjectOptions
	Results bool
	Locks   bool
}

// Clean removes cached results and lock files of the project.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	project, err := a.load(opts.ProjectOptions)
	if err != nil {
		return err
	}

	var errs error
	remove := func(path, name string) {
		a.logger.Info("removing "+name, "path", path)
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "path", path))
		}
	}

	if opts.Results {
		remove(domain.ResultsDir(project.CacheRoot), "task results")
	}
	if opts.Locks {
		remove(domain.LocksDir(project.CacheRoot), "lock files")
	}
	return errs
}

// PruneOptions configuration for the PruneLocks method.
type PruneOptions struct {
	ProjectOptions
	MaxAgeDays int
}

// PruneLocks removes lock files that nobody holds and that are older than MaxAgeDays.
func (a *App) PruneLocks(_ context.Context, opts PruneOptions) error {
	project, err := a.load(opts.ProjectOptions)
	if err != nil {
		return err
	}
	manager := lock.NewManager(project.CacheRoot, a.logger, lock.Options{})
	if err := manager.CleanOldLocks(opts.MaxAgeDays); err != nil {
		return err
	}
	a.logger.Info("pruned lock files", "max_age_days", opts.MaxAgeDays)
	return nil
}

func (a *App) load(opts ProjectOptions) (*domain.Project, error) {
	cwd, err := workDir(opts.Dir)
	if err != nil {
		return nil, err
	}
	return a.configLoader.Load(cwd, opts.ConfigPath)
}
