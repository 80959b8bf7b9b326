// Package notify pushes finding events to external channels (Slack incoming
// webhooks, Jira Cloud issues). Delivery is best effort: failures are logged
// and never surfaced to the ingest path that produced the event.
package notify

import (
	"context"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/djvirus9/secops-dashboard/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event describes one finding sighting worth telling humans about.
type Event struct {
	FindingID   string
	Title       string
	Severity    string
	Asset       string
	Tool        string
	RiskScore   int
	Description string

	// IsNew distinguishes a first detection from a repeat sighting.
	IsNew       bool
	Occurrences int
}

// Notifier delivers one event to one channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, ev Event) error
}

// Dispatcher fans one event out to every configured notifier.
type Dispatcher struct {
	notifiers []Notifier
	timeout   time.Duration
	log       *zap.Logger
}

// NewDispatcher builds a dispatcher from the notify configuration. Channels
// without complete configuration are simply not registered.
func NewDispatcher(cfg config.NotifyConfig, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		timeout: cfg.Timeout,
		log:     logger.Named("notify"),
	}
	if d.timeout <= 0 {
		d.timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: d.timeout}
	if cfg.Slack.WebhookURL != "" {
		d.notifiers = append(d.notifiers, NewSlack(cfg.Slack, client))
	}
	if cfg.Jira.Enabled() {
		d.notifiers = append(d.notifiers, NewJira(cfg.Jira, client))
	}
	return d
}

// Enabled reports whether any channel is configured.
func (d *Dispatcher) Enabled() bool { return len(d.notifiers) > 0 }

// Dispatch sends ev to all channels concurrently and logs per-channel
// failures. It blocks until every channel finished or the timeout elapsed;
// callers that must not wait run it on their own goroutine.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	if len(d.notifiers) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for _, n := range d.notifiers {
		n := n
		g.Go(func() error {
			if err := n.Notify(ctx, ev); err != nil {
				d.log.Warn("Notification delivery failed",
					zap.String("channel", n.Name()),
					zap.String("finding_id", ev.FindingID),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}
