package identity

import (
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/cmt-technologies/otrmtv/internal/models"
)

const PrimaryInterface = "eth0"

// SecondaryInterfaces are probed in order after PrimaryInterface.
var SecondaryInterfaces = []string{"eth1", "eth2", "eth3", "enp0s3", "enp0s8", "enp1s0"}

// Resolver derives a stable device identity from wired hardware addresses,
// falling back to platform identifiers and finally to FallbackIdentity.
type Resolver struct {
	prober    Prober
	primary   string
	secondary []string
}

func NewResolver(prober Prober) *Resolver {
	return &Resolver{
		prober:    prober,
		primary:   PrimaryInterface,
		secondary: SecondaryInterfaces,
	}
}

type tier struct {
	id    models.Tier
	probe func() (string, error)
}

// Resolve never fails: the last tier is a constant.
func (r *Resolver) Resolve() models.DeviceIdentity {
	tiers := []tier{
		{models.TierPrimaryInterface, func() (string, error) { return r.interfaceAddress(r.primary) }},
		{models.TierSecondaryInterface, r.secondaryAddress},
		{models.TierEnumeratedInterface, r.enumeratedAddress},
		{models.TierAddressFile, r.fileAddress},
		{models.TierPlatformUniqueID, func() (string, error) { return r.prober.PlatformUniqueID() }},
		{models.TierDeviceName, r.deviceName},
	}

	for _, t := range tiers {
		raw, ok := attempt(t)
		if !ok {
			continue
		}
		slog.Debug("Resolved device identity", "tier", t.id, "raw", raw)
		return models.DeviceIdentity{Raw: raw, Normalized: Normalize(raw), Tier: t.id}
	}

	slog.Warn("No identity tier succeeded, using fallback", "identity", FallbackIdentity)
	return models.DeviceIdentity{Raw: FallbackIdentity, Normalized: FallbackIdentity, Tier: models.TierFallback}
}

// attempt runs one tier, converting errors, panics and values that normalize
// to nothing into a failed tier.
func attempt(t tier) (raw string, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Debug("Identity tier panicked", "tier", t.id, "panic", rec)
			raw, ok = "", false
		}
	}()

	raw, err := t.probe()
	if err != nil {
		slog.Debug("Identity tier failed", "tier", t.id, "error", err)
		return "", false
	}
	if Normalize(strings.TrimSpace(raw)) == "" {
		return "", false
	}
	return raw, true
}

func checkAddress(addr net.HardwareAddr) (string, error) {
	if len(addr) == 0 {
		return "", ErrNoHardwareAddress
	}
	formatted := FormatHardwareAddr(addr)
	if !usableAddress(formatted) {
		return "", ErrPlaceholder
	}
	return formatted, nil
}

func (r *Resolver) interfaceAddress(name string) (string, error) {
	addr, err := r.prober.HardwareAddressOf(name)
	if err != nil {
		return "", err
	}
	return checkAddress(addr)
}

func (r *Resolver) secondaryAddress() (string, error) {
	for _, name := range r.secondary {
		if mac, err := r.interfaceAddress(name); err == nil {
			return mac, nil
		}
	}
	return "", ErrNoWiredInterface
}

func (r *Resolver) enumeratedAddress() (string, error) {
	intfs, err := r.prober.ListInterfaces()
	if err != nil {
		return "", err
	}

	for _, intf := range intfs {
		if skipInterface(intf.Name) || !wiredInterface(intf.Name) {
			continue
		}
		if mac, err := checkAddress(intf.HardwareAddr); err == nil {
			return mac, nil
		}
		if mac, err := r.interfaceAddress(intf.Name); err == nil {
			return mac, nil
		}
	}
	return "", ErrNoWiredInterface
}

func (r *Resolver) fileAddress() (string, error) {
	content, err := r.prober.ReadAddressFile(r.primary)
	if err != nil {
		return "", err
	}
	addr, err := net.ParseMAC(strings.TrimSpace(content))
	if err != nil {
		return "", fmt.Errorf("address file for %s: %w", r.primary, err)
	}
	return checkAddress(addr)
}

func (r *Resolver) deviceName() (string, error) {
	name, err := r.prober.PlatformDeviceName()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(name) == "" {
		return "", ErrBlankDeviceName
	}
	return name, nil
}
