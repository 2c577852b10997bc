// Package metrics exposes Prometheus counters for the notification engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PushSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_push_sent_total",
		Help: "Push sends by outcome (sent, no_token, invalid_token, failed).",
	}, []string{"outcome"})

	InAppWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_inapp_written_total",
		Help: "In-app notification writes by category and outcome.",
	}, []string{"category", "outcome"})

	EventsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_events_handled_total",
		Help: "Change events by collection, operation and outcome (handled, duplicate, panic, rejected).",
	}, []string{"collection", "op", "outcome"})

	RemindersProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_reminders_processed_total",
		Help: "Reminder scan records by outcome (reminded, skipped, unlinked, failed).",
	}, []string{"outcome"})

	ReminderScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "notifier_reminder_scan_seconds",
		Help:    "Wall time of one reminder scan.",
		Buckets: prometheus.DefBuckets,
	})
)
