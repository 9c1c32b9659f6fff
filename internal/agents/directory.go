// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package agents holds the read-only directory of backend agents.
//
// The directory is loaded once at startup. A failed load leaves it empty;
// agent metadata only decorates the display, so chat keeps working.
package agents

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/tutor-tui/internal/model"
)

// Fetcher retrieves the agent list. It returns an empty slice on failure.
type Fetcher interface {
	FetchAgents(ctx context.Context) []model.Agent
}

// SizeRecorder receives the loaded directory size.
type SizeRecorder interface {
	AgentsLoaded(n int)
}

// Directory is a load-once cache of agents.
type Directory struct {
	fetcher  Fetcher
	logger   *zap.Logger
	recorder SizeRecorder

	once   sync.Once
	mu     sync.RWMutex
	agents []model.Agent
	byName map[string]model.Agent
	loaded bool
}

// NewDirectory creates an unloaded directory. recorder may be nil.
func NewDirectory(fetcher Fetcher, logger *zap.Logger, recorder SizeRecorder) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{
		fetcher:  fetcher,
		logger:   logger.Named("agents"),
		recorder: recorder,
		byName:   make(map[string]model.Agent),
	}
}

// Load fetches the directory on the first call and returns the cached list
// on every call. It never fails; errors leave the list empty.
func (d *Directory) Load(ctx context.Context) []model.Agent {
	d.once.Do(func() {
		list := d.fetch(ctx)

		d.mu.Lock()
		d.agents = list
		for _, a := range list {
			if _, dup := d.byName[a.Name]; dup {
				d.logger.Warn("duplicate agent name", zap.String("name", a.Name))
				continue
			}
			d.byName[a.Name] = a
		}
		d.loaded = true
		d.mu.Unlock()

		if d.recorder != nil {
			d.recorder.AgentsLoaded(len(list))
		}
		d.logger.Info("agent directory loaded", zap.Int("count", len(list)))
	})
	return d.Agents()
}

func (d *Directory) fetch(ctx context.Context) (list []model.Agent) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("agent fetch panicked", zap.Any("panic", r))
			list = []model.Agent{}
		}
	}()
	list = d.fetcher.FetchAgents(ctx)
	if list == nil {
		list = []model.Agent{}
	}
	return list
}

// Agents returns a copy of the loaded list (empty before Load).
func (d *Directory) Agents() []model.Agent {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.Agent, len(d.agents))
	copy(out, d.agents)
	return out
}

// Lookup finds an agent by name.
func (d *Directory) Lookup(name string) (model.Agent, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	a, ok := d.byName[name]
	return a, ok
}

// Loaded reports whether Load has completed.
func (d *Directory) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}
