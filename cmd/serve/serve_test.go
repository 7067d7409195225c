package serve

import (
	"testing"
	"time"

	"github.com/cmt-technologies/otrmtv/internal/config"
)

func TestLookupTimeout(t *testing.T) {
	tests := []struct {
		configured time.Duration
		want       time.Duration
	}{
		{0, kioskLookupTimeout},
		{5 * time.Second, 5 * time.Second},
		{2 * time.Minute, 2 * time.Minute},
	}

	for _, tt := range tests {
		got := lookupTimeout(&config.Config{LookupTimeout: tt.configured})
		if got != tt.want {
			t.Errorf("lookupTimeout(%v) = %v; want %v", tt.configured, got, tt.want)
		}
	}
}
