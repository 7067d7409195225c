package pairing

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cmt-technologies/otrmtv/internal/models"
)

const statusSuccess = "success"

// envelope holds the top level of a response undecoded, so a status or data
// of an unexpected type is reported as an unsuccessful lookup.
type envelope struct {
	Status json.RawMessage `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// field accepts a JSON string, number or null. Other types decode to "".
type field string

func (f *field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = field(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*f = field(b)
	default:
		*f = ""
	}
	return nil
}

// lookupData is the data object as sent by the service, which spells the
// pairing URL either way.
type lookupData struct {
	Room            field `json:"room"`
	SSID            field `json:"ssid"`
	Password        field `json:"password"`
	PairingURLSnake field `json:"pairing_url"`
	PairingURLCamel field `json:"pairingUrl"`
	QRConfig        field `json:"qr_config"`
}

// canonical folds both pairing URL spellings into one field, preferring
// snake_case.
func (d lookupData) canonical() models.PairingPayload {
	url := d.PairingURLSnake
	if url == "" {
		url = d.PairingURLCamel
	}
	return models.PairingPayload{
		Room:       string(d.Room),
		SSID:       string(d.SSID),
		Password:   string(d.Password),
		PairingURL: string(url),
		QRConfig:   string(d.QRConfig),
	}
}

// decodeEnvelope fails with ReasonParse only when body is not JSON.
func decodeEnvelope(body []byte) (envelope, error) {
	if !json.Valid(body) {
		return envelope{}, newError(models.ReasonParse, fmt.Errorf("lookup response is not JSON"))
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, newError(models.ReasonUnsuccessfulStatus, fmt.Errorf("%w: %v", ErrUnsuccessfulStatus, err))
	}
	return env, nil
}

func validate(env envelope) (models.PairingPayload, error) {
	var status string
	if err := json.Unmarshal(env.Status, &status); err != nil || status != statusSuccess {
		return models.PairingPayload{}, newError(models.ReasonUnsuccessfulStatus, ErrUnsuccessfulStatus)
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || data[0] != '{' {
		return models.PairingPayload{}, newError(models.ReasonUnsuccessfulStatus, ErrMissingData)
	}

	var d lookupData
	if err := json.Unmarshal(data, &d); err != nil {
		return models.PairingPayload{}, newError(models.ReasonParse, err)
	}

	payload := d.canonical()
	if payload.QRConfig == "" {
		return models.PairingPayload{}, newError(models.ReasonMissingQRConfig, ErrMissingQRConfig)
	}
	return payload, nil
}

// DecodePayload turns a lookup response body into a payload or a tagged
// PairingError.
func DecodePayload(body []byte) (models.PairingPayload, error) {
	env, err := decodeEnvelope(body)
	if err != nil {
		return models.PairingPayload{}, err
	}
	return validate(env)
}
