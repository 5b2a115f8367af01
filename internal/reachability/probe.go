package reachability

import (
	"context"
	"fmt"
	"strings"

	psnet "github.com/shirou/gopsutil/v3/net"
)

// InterfaceProbe treats the network as reachable when some interface is up,
// is not a loopback device and carries at least one address.
type InterfaceProbe struct {
	// Name limits the check to a single interface when set.
	Name string
}

// Reachable lists the host interfaces and reports whether one is usable.
func (p InterfaceProbe) Reachable(ctx context.Context) (bool, error) {
	ifaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return false, fmt.Errorf("list interfaces: %w", err)
	}
	return anyUsable(ifaces, p.Name), nil
}

func anyUsable(ifaces []psnet.InterfaceStat, name string) bool {
	name = strings.TrimSpace(name)
	for _, iface := range ifaces {
		if name != "" && iface.Name != name {
			continue
		}
		if usable(iface) {
			return true
		}
	}
	return false
}

func usable(iface psnet.InterfaceStat) bool {
	up := false
	for _, flag := range iface.Flags {
		switch strings.ToLower(flag) {
		case "loopback":
			return false
		case "up":
			up = true
		}
	}
	return up && len(iface.Addrs) > 0
}
