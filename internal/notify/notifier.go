// Package notify delivers pipeline notifications over email and alert
// topics. Delivery is fire-and-forget from the pipeline's point of view: a
// failed send is logged and reported as a typed error, never escalated into
// a pipeline failure.
package notify

import (
	"context"

	"bizgen/internal/common/logger"
)

// Priority tags how urgently a message should be treated downstream.
type Priority string

const (
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Channel names understood by Send.
const (
	ChannelEmail = "email"
	ChannelAlert = "alert"
)

// Message is one notification to deliver across the listed channels.
type Message struct {
	Subject  string
	Body     string
	Priority Priority
	Channels []string
	Email    string // recipient, required for the email channel
}

// Notifier sends a message over its configured channels.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// NoOpNotifier drops every message. Used when notifications are disabled
// and in tests.
type NoOpNotifier struct{}

func (NoOpNotifier) Send(ctx context.Context, msg Message) error { return nil }

// LoggingNotifier records every message to the log without delivering it.
// Useful for local development against no AWS account.
type LoggingNotifier struct {
	Log logger.Logger
}

func (n LoggingNotifier) Send(ctx context.Context, msg Message) error {
	n.Log.Info("notification (logging only)", map[string]interface{}{
		"subject":  msg.Subject,
		"priority": string(msg.Priority),
		"channels": msg.Channels,
	})
	return nil
}
