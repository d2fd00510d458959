// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/tgr/internal/adapters/cas"
	_ "go.trai.ch/tgr/internal/adapters/config"
	_ "go.trai.ch/tgr/internal/adapters/fs"
	_ "go.trai.ch/tgr/internal/adapters/linear"
	_ "go.trai.ch/tgr/internal/adapters/logger"
	_ "go.trai.ch/tgr/internal/adapters/metrics"
	_ "go.trai.ch/tgr/internal/adapters/shell"
	_ "go.trai.ch/tgr/internal/adapters/telemetry"
	_ "go.trai.ch/tgr/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/tgr/internal/app"
	_ "go.trai.ch/tgr/internal/engine/scheduler"
	_ "go.trai.ch/tgr/internal/tasks"
)
