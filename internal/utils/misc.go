package utils

import (
	"net"
	"os"
	"os/signal"
	"syscall"
)

func WaitForSignal() chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGINT)

	return ch
}

// GetMyIPv4Addr get ipv4 address of every RUNNING interfaces on the host
// Note: ipv6, loopback and non-private addresses are ignored
func GetMyIPv4Addr() ([]net.IP, error) {
	intfs, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	res := make([]net.IP, 0)

	for _, intf := range intfs {
		addrs, _ := intf.Addrs()
		for idx := range addrs {
			ip, _, _ := net.ParseCIDR(addrs[idx].String())
			if ip.To4() != nil && !ip.IsLoopback() && ip.IsPrivate() && (intf.Flags&net.FlagRunning != 0) {
				res = append(res, ip)
			}
		}
	}
	return res, nil
}

// KioskURLs lists the http URLs a kiosk listening on port is reachable at.
func KioskURLs(port string) []string {
	ips, err := GetMyIPv4Addr()
	if err != nil {
		return nil
	}

	urls := make([]string, 0, len(ips))
	for _, ip := range ips {
		urls = append(urls, "http://"+net.JoinHostPort(ip.String(), port))
	}
	return urls
}
