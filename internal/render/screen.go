package render

import (
	"fmt"
	"strings"

	"github.com/cmt-technologies/otrmtv/internal/models"
)

const (
	Header          = "How to connect to your In-Room Chromecast"
	ConnectText     = "Connect your device by scanning the QR code"
	QRText          = "Scan the above QR code to connect the Wi-Fi."
	CastText        = "Open your cast-enabled app (YouTube, Netflix, Amazon Prime) and tap the cast icon, then select:"
	RoomLoadingText = "Room information loading..."
	LoadingGlyph    = "⏳"
	UnavailableText = "📱 QR code not available"
)

// RoomLabel turns "room-1003" into "Room 1003". Only the first "room-" and
// the first remaining hyphen are replaced.
func RoomLabel(room string) string {
	if room == "" {
		return RoomLoadingText
	}
	label := strings.Replace(room, "room-", "Room ", 1)
	return strings.Replace(label, "-", " ", 1)
}

// QRCard is what the QR card shows for a state: an hourglass while loading,
// the glyph once ready and a placeholder on error.
func QRCard(state models.PairingState) string {
	switch state.Phase {
	case models.PhaseReady:
		glyph, err := QRCodeText(state.Payload.QRConfig)
		if err != nil {
			return UnavailableText
		}
		return glyph
	case models.PhaseError:
		return UnavailableText
	default:
		return LoadingGlyph
	}
}

// Screen renders the three-card connection screen as plain text.
func Screen(state models.PairingState) string {
	room := ""
	if state.Payload != nil {
		room = state.Payload.Room
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", Header)
	fmt.Fprintf(&sb, "[Connect]\n%s\n\n", ConnectText)
	fmt.Fprintf(&sb, "[QR Code]\n%s\n%s\n\n", QRCard(state), QRText)
	fmt.Fprintf(&sb, "[Cast]\n%s\n%s\n", CastText, RoomLabel(room))
	if state.Identity.Normalized != "" {
		fmt.Fprintf(&sb, "\nDevice: %s\n", state.Identity.Normalized)
	}
	return sb.String()
}
