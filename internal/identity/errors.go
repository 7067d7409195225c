package identity

import "errors"

var (
	ErrNoHardwareAddress = errors.New("interface has no hardware address")
	ErrPlaceholder       = errors.New("placeholder hardware address")
	ErrNoUniqueID        = errors.New("no platform unique id")
	ErrBlankDeviceName   = errors.New("blank device name")
	ErrNoWiredInterface  = errors.New("no usable wired interface")
)
