package kiosk

import (
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmt-technologies/otrmtv/internal/metrics"
	"github.com/cmt-technologies/otrmtv/internal/models"
	"github.com/cmt-technologies/otrmtv/internal/pairing"
	"github.com/cmt-technologies/otrmtv/internal/store"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedLooker struct {
	payload models.PairingPayload
	err     error
}

func (fl fixedLooker) Lookup(context.Context, string) (models.PairingPayload, error) {
	return fl.payload, fl.err
}

type orchActivator struct {
	orch *pairing.Orchestrator
	id   models.DeviceIdentity
}

func (oa orchActivator) Activate(ctx context.Context) <-chan models.PairingState {
	return oa.orch.Activate(ctx, oa.id)
}

func newTestServer(t *testing.T, looker pairing.Looker) (*Server, *store.Board, orchActivator) {
	t.Helper()
	board := store.NewBoard()
	reg := metrics.NewRegistry()
	pm := metrics.NewPairingMetrics(reg)
	orch := pairing.NewOrchestrator(looker, clockwork.NewFakeClock(), board, pm)
	act := orchActivator{orch: orch, id: models.DeviceIdentity{Raw: "room-1003", Normalized: "room-1003", Tier: models.TierDeviceName}}
	return NewServer(board, act, reg), board, act
}

func get(t *testing.T, srv *Server, path string) *http.Response {
	t.Helper()
	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	return resp
}

func TestStateAndQRWhenReady(t *testing.T) {
	srv, _, act := newTestServer(t, fixedLooker{payload: models.PairingPayload{QRConfig: "WIFI:S:net;P:pass;;", Room: "room-1003"}})
	pairing.Await(act.Activate(context.Background()))

	resp := get(t, srv, StatePath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var state models.PairingState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, models.PhaseReady, state.Phase)
	assert.Equal(t, "room-1003", state.Payload.Room)

	resp = get(t, srv, QRCodePath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, defaultQRSize, img.Bounds().Dx())

	resp = get(t, srv, "/")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Room 1003")
}

func TestQRNotFoundOnError(t *testing.T) {
	srv, _, act := newTestServer(t, fixedLooker{err: &pairing.PairingError{Reason: models.ReasonMissingQRConfig, Err: pairing.ErrMissingQRConfig}})
	pairing.Await(act.Activate(context.Background()))

	assert.Equal(t, http.StatusNotFound, get(t, srv, QRCodePath).StatusCode)

	resp := get(t, srv, StatePath)
	var state models.PairingState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, models.PhaseError, state.Phase)
	assert.Equal(t, models.ReasonMissingQRConfig, state.Reason)

	body, _ := io.ReadAll(get(t, srv, "/").Body)
	assert.Contains(t, string(body), "not available")
}

func TestIdentityEndpoint(t *testing.T) {
	srv, _, act := newTestServer(t, fixedLooker{payload: models.PairingPayload{QRConfig: "q"}})
	pairing.Await(act.Activate(context.Background()))

	body, _ := io.ReadAll(get(t, srv, IdentityPath).Body)
	assert.JSONEq(t, `{"raw":"room-1003","normalized":"room-1003","tier":"device-name"}`, string(body))
}

func TestActivateEndpoint(t *testing.T) {
	srv, board, _ := newTestServer(t, fixedLooker{payload: models.PairingPayload{QRConfig: "q"}})

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodPost, ActivatePath, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var loading models.PairingState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loading))
	assert.Equal(t, models.PhaseLoading, loading.Phase)
	assert.Equal(t, uint64(1), loading.Generation)

	assert.Eventually(t, func() bool {
		return board.State().Phase == models.PhaseReady
	}, time.Second, 10*time.Millisecond)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _, act := newTestServer(t, fixedLooker{payload: models.PairingPayload{QRConfig: "q"}})
	pairing.Await(act.Activate(context.Background()))

	resp := get(t, srv, MetricsPath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "otrmtv_pairing_activations_total 1"))
}
