package agent

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmt-technologies/otrmtv/internal/models"
	"github.com/cmt-technologies/otrmtv/internal/pairing"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls atomic.Int32
}

func (cs *countingSource) Resolve() models.DeviceIdentity {
	cs.calls.Add(1)
	return models.DeviceIdentity{Raw: "AA:BB:CC:DD:EE:FF", Normalized: "aabbccddeeff", Tier: models.TierPrimaryInterface}
}

type staticLooker struct {
	seen chan string
}

func (sl staticLooker) Lookup(_ context.Context, deviceName string) (models.PairingPayload, error) {
	sl.seen <- deviceName
	return models.PairingPayload{QRConfig: "WIFI:S:net;P:pass;;"}, nil
}

type identityLog struct {
	ids []models.DeviceIdentity
}

func (il *identityLog) ObserveIdentity(id models.DeviceIdentity) {
	il.ids = append(il.ids, id)
}

func TestActivateResolvesEveryTime(t *testing.T) {
	src := &countingSource{}
	looker := staticLooker{seen: make(chan string, 2)}
	log := &identityLog{}
	a := New(src, pairing.NewOrchestrator(looker, clockwork.NewFakeClock()), nil, log)

	pairing.Await(a.Activate(context.Background()))
	final := pairing.Await(a.Activate(context.Background()))

	assert.Equal(t, int32(2), src.calls.Load())
	assert.Len(t, log.ids, 2)
	assert.Equal(t, "aabbccddeeff", <-looker.seen)
	assert.Equal(t, models.PhaseReady, final.Phase)
	assert.Equal(t, uint64(2), final.Generation)
}

func TestRunWaitsForSplash(t *testing.T) {
	clock := clockwork.NewFakeClock()
	looker := staticLooker{seen: make(chan string, 1)}
	a := New(&countingSource{}, pairing.NewOrchestrator(looker, clock), clock)

	done := make(chan models.PairingState, 1)
	go func() {
		done <- a.Run(context.Background(), 3*time.Second)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	select {
	case <-done:
		t.Fatal("activation started before the splash ended")
	default:
	}

	clock.Advance(3 * time.Second)

	select {
	case final := <-done:
		assert.Equal(t, models.PhaseReady, final.Phase)
	case <-time.After(2 * time.Second):
		t.Fatal("activation did not finish after splash")
	}
}

func TestStartCancelledDuringSplash(t *testing.T) {
	clock := clockwork.NewFakeClock()
	src := &countingSource{}
	a := New(src, pairing.NewOrchestrator(staticLooker{seen: make(chan string, 1)}, clock), clock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Nil(t, a.Start(ctx, time.Second))
	assert.Equal(t, models.PairingState{}, a.Run(ctx, time.Second))
	assert.Equal(t, int32(0), src.calls.Load())
}
