package models

import "time"

// PairingPayload is the Wi-Fi/cast configuration returned by the lookup service.
type PairingPayload struct {
	Room       string `json:"room,omitempty"`
	SSID       string `json:"ssid,omitempty"`
	Password   string `json:"password,omitempty"`
	PairingURL string `json:"pairingUrl,omitempty"`
	QRConfig   string `json:"qrConfig"`
}

type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseError   Phase = "error"
)

type Reason string

const (
	ReasonNone               Reason = ""
	ReasonTransport          Reason = "transport"
	ReasonParse              Reason = "parse"
	ReasonUnsuccessfulStatus Reason = "unsuccessful-status"
	ReasonMissingQRConfig    Reason = "missing-qr-config"
)

// PairingState is a tagged union: Payload is set only for PhaseReady and
// Reason only for PhaseError.
type PairingState struct {
	Phase      Phase           `json:"phase"`
	Payload    *PairingPayload `json:"payload,omitempty"`
	Reason     Reason          `json:"reason,omitempty"`
	Generation uint64          `json:"generation"`
	Identity   DeviceIdentity  `json:"identity"`
	At         time.Time       `json:"at"`
}

func Loading(gen uint64, id DeviceIdentity, at time.Time) PairingState {
	return PairingState{Phase: PhaseLoading, Generation: gen, Identity: id, At: at}
}

func Ready(gen uint64, id DeviceIdentity, payload PairingPayload, at time.Time) PairingState {
	return PairingState{Phase: PhaseReady, Payload: &payload, Generation: gen, Identity: id, At: at}
}

func Failed(gen uint64, id DeviceIdentity, reason Reason, at time.Time) PairingState {
	return PairingState{Phase: PhaseError, Reason: reason, Generation: gen, Identity: id, At: at}
}

// Terminal reports whether no further state follows within the same generation.
func (s PairingState) Terminal() bool {
	return s.Phase == PhaseReady || s.Phase == PhaseError
}
