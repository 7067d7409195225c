package store

import (
	"errors"
	"sync"

	"github.com/cmt-technologies/otrmtv/internal/models"
)

var ErrNotReady = errors.New("No pairing payload available")

// Board keeps the latest pairing state for the presentation layer. States
// from an older generation than the one held are ignored.
type Board struct {
	state models.PairingState
	mu    *sync.RWMutex
}

func NewBoard() *Board {
	return &Board{
		mu: &sync.RWMutex{},
	}
}

func (b *Board) OnState(state models.PairingState) {
	b.Put(state)
}

// Put stores state and reports whether it was accepted.
func (b *Board) Put(state models.PairingState) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if state.Generation < b.state.Generation {
		return false
	}
	b.state = state
	return true
}

func (b *Board) State() models.PairingState {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.state
}

// Payload returns the payload of a Ready state.
func (b *Board) Payload() (models.PairingPayload, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.state.Phase != models.PhaseReady || b.state.Payload == nil {
		return models.PairingPayload{}, ErrNotReady
	}
	return *b.state.Payload, nil
}

func (b *Board) Identity() models.DeviceIdentity {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.state.Identity
}
