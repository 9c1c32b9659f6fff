// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry records chat exchange statistics.
//
// Metrics are kept twice: as Prometheus collectors on a private registry,
// served on /metrics when an address is configured, and as a plain in-process
// Stats snapshot for the /status command.
//
// # Key Types
//
//   - Metrics: the recorder passed to the orchestrator
//   - Stats: point-in-time summary for display
//
// # Usage
//
//	m := telemetry.New()
//	orch := orchestrator.New(client, store, orchestrator.WithRecorder(m))
//	go telemetry.Serve(ctx, ":9464", m, logger)
//	fmt.Println(m.Snapshot().AverageLatency)
package telemetry
