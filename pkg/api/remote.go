package api

import (
	"fmt"
)

// HostMetaKey is the service meta key which a node can set to override the
// host label that it's grouped under. Without it, the host label is the
// address that the node was discovered at.
const HostMetaKey = "host"

// Remote represents a node listening on some remote host and port, as returned
// by discovery.
//
// Ident must be globally unique and stable within a cluster, since it is used
// as the NodeID, which maintenance requests are keyed by. A node which is
// rescheduled onto a different machine keeps its requests.
type Remote struct {
	Ident string
	Host  string
	Port  int

	// Meta is the free-form metadata which the remote registered with.
	Meta map[string]string
}

// Addr returns an address which can be dialled to connect to the remote.
func (r Remote) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// NodeID returns the remote ident as a NodeID.
func (r Remote) NodeID() NodeID {
	return NodeID(r.Ident)
}

// HostLabel returns the host which the node should be grouped under for
// host-level maintenance.
func (r Remote) HostLabel() string {
	if h, ok := r.Meta[HostMetaKey]; ok && h != "" {
		return h
	}

	return r.Host
}
