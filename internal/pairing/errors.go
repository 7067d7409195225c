package pairing

import (
	"errors"
	"fmt"

	"github.com/cmt-technologies/otrmtv/internal/models"
)

var (
	ErrHTTPStatus         = errors.New("lookup returned non-2xx status")
	ErrUnsuccessfulStatus = errors.New("lookup returned unsuccessful status")
	ErrMissingData        = errors.New("lookup response has no data object")
	ErrMissingQRConfig    = errors.New("QR config not found in lookup response")
)

// PairingError carries the reason tag a failed lookup maps to.
type PairingError struct {
	Reason models.Reason
	Err    error
}

func (e *PairingError) Error() string {
	return fmt.Sprintf("pairing %s: %v", e.Reason, e.Err)
}

func (e *PairingError) Unwrap() error { return e.Err }

func newError(reason models.Reason, err error) *PairingError {
	return &PairingError{Reason: reason, Err: err}
}

// ReasonOf maps err to a reason tag. Untagged errors count as transport
// failures since they come from below the envelope parser.
func ReasonOf(err error) models.Reason {
	if err == nil {
		return models.ReasonNone
	}
	var perr *PairingError
	if errors.As(err, &perr) {
		return perr.Reason
	}
	return models.ReasonTransport
}
