// Package metrics defines and registers all custom Prometheus metrics for the
// script library API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto). HTTP request metrics are collected separately by
// the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "script_library"

// ── Script metrics ────────────────────────────────────────────────────────────

// ScriptsCreatedTotal counts scripts stored successfully.
var ScriptsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scripts_created_total",
		Help:      "Total number of scripts created.",
	},
)

// ScriptsDeletedTotal counts delete requests.
// Label:
//   - result: "deleted" or "not_found"
var ScriptsDeletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scripts_deleted_total",
		Help:      "Total number of script delete requests, by result.",
	},
	[]string{"result"},
)

// ScriptsStored tracks the number of scripts last observed in the store.
var ScriptsStored = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scripts_stored",
		Help:      "Number of scripts currently held by the store.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionsPrunedTotal counts expired sessions removed by the in-memory pruner.
var SessionsPrunedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_pruned_total",
		Help:      "Total number of expired sessions removed by the periodic pruner.",
	},
)
