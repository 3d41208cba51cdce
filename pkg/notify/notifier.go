// Package notify provides desktop notifications for batch completion
package notify

import (
	"fmt"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/polyforge/polyforge/pkg/logger"
)

// BatchNotifier raises a desktop notification when a batch finishes.
type BatchNotifier struct {
	enabled bool
	logger  logger.Logger
}

// New creates a new batch notifier
func New(enabled bool, log logger.Logger) *BatchNotifier {
	return &BatchNotifier{enabled: enabled, logger: log}
}

// NotifyBatchDone reports the batch outcome. Notification failures are
// logged at debug level and otherwise ignored.
func (n *BatchNotifier) NotifyBatchDone(succeeded, total int, duration time.Duration) {
	if !n.enabled {
		return
	}

	title := "✅ Builds Succeeded"
	if succeeded < total {
		title = "❌ Builds Failed"
	}
	message := fmt.Sprintf("%d/%d services in %s", succeeded, total, formatDuration(duration))

	if err := beeep.Notify(title, message, ""); err != nil {
		if n.logger != nil {
			n.logger.Debug("Failed to send notification", logger.WithField("error", err))
		}
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
