package identity

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// InterfaceInfo describes one network interface as seen by a Prober.
type InterfaceInfo struct {
	Name         string
	HardwareAddr net.HardwareAddr
	Flags        net.Flags
}

// Prober is the set of host facilities the Resolver queries. Implementations
// may fail freely; the Resolver treats every error as a failed tier.
type Prober interface {
	ListInterfaces() ([]InterfaceInfo, error)
	HardwareAddressOf(name string) (net.HardwareAddr, error)
	ReadAddressFile(name string) (string, error)
	PlatformUniqueID() (string, error)
	PlatformDeviceName() (string, error)
}

const DefaultSysfsRoot = "/sys/class/net"

var DefaultMachineIDPaths = []string{"/etc/machine-id", "/var/lib/dbus/machine-id"}

// HostProber queries the running Linux host.
type HostProber struct {
	SysfsRoot      string
	MachineIDPaths []string
	Hostname       func() (string, error)
}

func NewHostProber(sysfsRoot string) *HostProber {
	if sysfsRoot == "" {
		sysfsRoot = DefaultSysfsRoot
	}
	return &HostProber{
		SysfsRoot:      sysfsRoot,
		MachineIDPaths: DefaultMachineIDPaths,
		Hostname:       os.Hostname,
	}
}

func (hp *HostProber) ListInterfaces() ([]InterfaceInfo, error) {
	intfs, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	res := make([]InterfaceInfo, 0, len(intfs))
	for _, intf := range intfs {
		res = append(res, InterfaceInfo{
			Name:         intf.Name,
			HardwareAddr: intf.HardwareAddr,
			Flags:        intf.Flags,
		})
	}
	return res, nil
}

func (hp *HostProber) HardwareAddressOf(name string) (net.HardwareAddr, error) {
	intf, err := net.InterfaceByName(name)
	if err != nil {
		return nil, err
	}
	if len(intf.HardwareAddr) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoHardwareAddress)
	}
	return intf.HardwareAddr, nil
}

func (hp *HostProber) ReadAddressFile(name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(hp.SysfsRoot, name, "address"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// PlatformUniqueID returns the systemd/dbus machine id. Files that do not hold
// a 128-bit hex id are ignored.
func (hp *HostProber) PlatformUniqueID() (string, error) {
	for _, path := range hp.MachineIDPaths {
		b, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		id := strings.TrimSpace(string(b))
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		return id, nil
	}
	return "", ErrNoUniqueID
}

func (hp *HostProber) PlatformDeviceName() (string, error) {
	if hp.Hostname == nil {
		return os.Hostname()
	}
	return hp.Hostname()
}
