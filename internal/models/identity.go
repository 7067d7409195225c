package models

import "fmt"

// Tier identifies which resolution step produced a DeviceIdentity.
type Tier int

const (
	TierPrimaryInterface Tier = iota + 1
	TierSecondaryInterface
	TierEnumeratedInterface
	TierAddressFile
	TierPlatformUniqueID
	TierDeviceName
	TierFallback
)

var tierNames = map[Tier]string{
	TierPrimaryInterface:    "primary-interface",
	TierSecondaryInterface:  "secondary-interface",
	TierEnumeratedInterface: "enumerated-interface",
	TierAddressFile:         "address-file",
	TierPlatformUniqueID:    "platform-unique-id",
	TierDeviceName:          "device-name",
	TierFallback:            "fallback",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "unknown"
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(text []byte) error {
	if string(text) == "unknown" {
		*t = 0
		return nil
	}
	for tier, name := range tierNames {
		if name == string(text) {
			*t = tier
			return nil
		}
	}
	return fmt.Errorf("unknown identity tier %q", text)
}

// IsHardware reports whether the tier yields a hardware address.
func (t Tier) IsHardware() bool {
	return t >= TierPrimaryInterface && t <= TierAddressFile
}

// DeviceIdentity is the lookup key of one activation. Normalized is never empty.
type DeviceIdentity struct {
	Raw        string `json:"raw"`
	Normalized string `json:"normalized"`
	Tier       Tier   `json:"tier"`
}
