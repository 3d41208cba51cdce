package notify

import (
	"testing"
	"time"
)

func TestDisabledNotifierIsNoOp(t *testing.T) {
	// Must not attempt any desktop interaction when disabled.
	New(false, nil).NotifyBatchDone(3, 5, 2*time.Second)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{59 * time.Second, "59.0s"},
		{90 * time.Second, "1m30s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
