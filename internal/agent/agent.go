// Package agent ties identity resolution to pairing activations.
package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmt-technologies/otrmtv/internal/models"
	"github.com/cmt-technologies/otrmtv/internal/pairing"
	"github.com/jonboulle/clockwork"
)

type IdentitySource interface {
	Resolve() models.DeviceIdentity
}

type IdentityObserver interface {
	ObserveIdentity(id models.DeviceIdentity)
}

// Agent resolves a fresh identity for every activation.
type Agent struct {
	identities IdentitySource
	orch       *pairing.Orchestrator
	clock      clockwork.Clock
	observers  []IdentityObserver
}

func New(identities IdentitySource, orch *pairing.Orchestrator, clock clockwork.Clock, observers ...IdentityObserver) *Agent {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Agent{
		identities: identities,
		orch:       orch,
		clock:      clock,
		observers:  observers,
	}
}

// Activate resolves the device identity and starts a pairing activation.
func (a *Agent) Activate(ctx context.Context) <-chan models.PairingState {
	id := a.identities.Resolve()
	for _, obs := range a.observers {
		obs.ObserveIdentity(id)
	}
	return a.orch.Activate(ctx, id)
}

// Start waits out the splash delay, then activates. It returns nil if ctx
// ends first.
func (a *Agent) Start(ctx context.Context, splash time.Duration) <-chan models.PairingState {
	if splash > 0 {
		slog.Debug("Showing splash screen", "duration", splash)
		select {
		case <-ctx.Done():
			return nil
		case <-a.clock.After(splash):
		}
	}
	return a.Activate(ctx)
}

// Run activates once and blocks until the activation settles.
func (a *Agent) Run(ctx context.Context, splash time.Duration) models.PairingState {
	states := a.Start(ctx, splash)
	if states == nil {
		return models.PairingState{}
	}
	return pairing.Await(states)
}

func (a *Agent) Stop() {
	a.orch.Stop()
}
