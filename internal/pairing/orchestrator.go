package pairing

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cmt-technologies/otrmtv/internal/models"
	"github.com/jonboulle/clockwork"
)

// Observer is notified of every state the orchestrator emits, in order.
// OnState must not call back into the Orchestrator.
type Observer interface {
	OnState(state models.PairingState)
}

type ObserverFunc func(state models.PairingState)

func (f ObserverFunc) OnState(state models.PairingState) { f(state) }

// Orchestrator runs pairing activations. Each Activate call takes a new
// generation; only the newest generation may reach a terminal state.
type Orchestrator struct {
	looker    Looker
	clock     clockwork.Clock
	observers []Observer

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func NewOrchestrator(looker Looker, clock clockwork.Clock, observers ...Observer) *Orchestrator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Orchestrator{
		looker:    looker,
		clock:     clock,
		observers: observers,
	}
}

// Activate starts a new activation for id and supersedes any pending one.
// The returned channel yields Loading, then Ready or Error, then closes. A
// superseded activation's channel closes after Loading.
func (o *Orchestrator) Activate(ctx context.Context, id models.DeviceIdentity) <-chan models.PairingState {
	states := make(chan models.PairingState, 2)

	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
	}
	o.gen++
	gen := o.gen
	actx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	loading := models.Loading(gen, id, o.clock.Now())
	o.publish(loading)
	o.mu.Unlock()

	states <- loading
	slog.Info("Pairing activation started", "generation", gen, "device", id.Normalized, "tier", id.Tier)

	go func() {
		defer close(states)
		defer cancel()

		payload, err := o.looker.Lookup(actx, id.Normalized)

		var final models.PairingState
		if err != nil {
			final = models.Failed(gen, id, ReasonOf(err), o.clock.Now())
		} else {
			final = models.Ready(gen, id, payload, o.clock.Now())
		}

		o.mu.Lock()
		if gen != o.gen {
			o.mu.Unlock()
			slog.Debug("Dropping superseded pairing result", "generation", gen, "phase", final.Phase)
			return
		}
		o.publish(final)
		o.mu.Unlock()

		if err != nil {
			slog.Error("Pairing lookup failed", "generation", gen, "reason", final.Reason, "error", err)
		} else {
			slog.Info("Pairing payload ready", "generation", gen, "room", payload.Room)
		}
		states <- final
	}()

	return states
}

// Current returns the generation of the newest activation, 0 before the first.
func (o *Orchestrator) Current() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.gen
}

// Stop cancels the pending activation, if any.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

// publish must be called with o.mu held.
func (o *Orchestrator) publish(state models.PairingState) {
	for _, obs := range o.observers {
		obs.OnState(state)
	}
}

// Await drains states and returns the last one received.
func Await(states <-chan models.PairingState) models.PairingState {
	var last models.PairingState
	for state := range states {
		last = state
	}
	return last
}
