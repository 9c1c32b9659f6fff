// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for tutor.
//
// # Key Types
//
//   - Config: root configuration (backend, ui, logging, metrics, export)
//   - ValidationError / ValidateErrors: field-level validation failures
//   - Watcher: fsnotify-based reload of the active config file
//
// # Usage
//
// Load from the default locations:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    // cfg still holds defaults when only the file failed to parse
//	}
//	fmt.Println(cfg.Backend.URL)
//
// Change and persist a value:
//
//	path, _ := config.ActivePath()
//	cfg, _ = config.ReadFile(path)
//	_ = cfg.Set("ui.show_timestamps", "true")
//	_ = config.SaveTo(cfg, path)
package config
