package app

import (
	"context"
	"strings"

	"go.trai.ch/tgr/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/tgr/internal/core/domain"
)

const defaultDebounce = watcher.DefaultDebounceWindow

// watch re-runs r after every settled change to the files the previous cycle read.
// Build failures are logged and watched like successes. It returns once ctx is done.
func (a *App) watch(ctx context.Context, r *run) error {
	if a.watchers == nil {
		return domain.ErrWatcherStartFailed
	}
	for {
		paths, err := r.once(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			if paths == nil {
				return err
			}
			a.logger.Error(err)
		}

		changed, err := a.waitForChange(ctx, paths)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		a.logger.Info("change detected, rebuilding", "files", strings.Join(changed, ", "))
	}
}

// waitForChange blocks until one of paths changes and the changes settle.
func (a *App) waitForChange(ctx context.Context, paths []string) ([]string, error) {
	w, err := a.watchers()
	if err != nil {
		return nil, err
	}
	defer func() { _ = w.Stop() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := w.Start(ctx, paths); err != nil {
		return nil, err
	}
	a.logger.Info("watching for changes", "files", len(paths))

	settled := make(chan []string, 1)
	d := watcher.NewDebouncer(a.debounce, func(changed []string) {
		select {
		case settled <- changed:
		default:
		}
	})
	defer d.Stop()
	go func() {
		for event := range w.Events() {
			d.Add(event.Path)
		}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case changed := <-settled:
		return changed, nil
	}
}
