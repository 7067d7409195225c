package identity

import (
	"net"
	"strings"
)

// PlaceholderAddress is reported by platforms that hide the real hardware
// address from unprivileged callers.
const PlaceholderAddress = "02:00:00:00:00:00"

// FallbackIdentity is used when no tier yields a value.
const FallbackIdentity = "device"

var separators = strings.NewReplacer(":", "", " ", "")

// Normalize strips colons and spaces and lower-cases s. Hyphens are kept since
// they carry meaning in names such as "room-1003".
func Normalize(s string) string {
	return strings.ToLower(separators.Replace(s))
}

// FormatHardwareAddr renders addr as uppercase hex octets joined by ':'.
func FormatHardwareAddr(addr net.HardwareAddr) string {
	return strings.ToUpper(addr.String())
}

func usableAddress(formatted string) bool {
	return formatted != "" && !strings.EqualFold(formatted, PlaceholderAddress)
}

var skippedMarkers = []string{"lo", "wlan", "wifi", "tun", "vpn", "docker"}

// skipInterface reports whether an interface name looks like loopback,
// wireless, a tunnel or a container bridge.
func skipInterface(name string) bool {
	name = strings.ToLower(name)
	for _, marker := range skippedMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

var wiredPrefixes = []string{"eth", "enp", "enx", "usb"}

func wiredInterface(name string) bool {
	name = strings.ToLower(name)
	for _, prefix := range wiredPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return strings.Contains(name, "ethernet")
}
