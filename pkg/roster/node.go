package roster

import (
	"fmt"
	"sync"
	"time"

	"github.com/adammck/maint/pkg/api"
	"github.com/adammck/maint/pkg/maintenance"
)

// Node is a cluster node which the tracker knows about, either because it was
// seen in service discovery or because it has maintenance requests in storage.
type Node struct {
	ID api.NodeID

	// The requests on this node. Never nil.
	Maintenance *maintenance.State

	// The host which this node is currently on. Empty if the node has never
	// been seen in service discovery (i.e. was only loaded from storage), or
	// was registered without one.
	host   string
	muHost sync.RWMutex

	// When this node was last seen in service discovery. Doesn't necessarily
	// mean that it's actually alive, though. Zero if never.
	whenLastSeen time.Time
}

func newNode(nID api.NodeID, ms *maintenance.State) *Node {
	return &Node{
		ID:          nID,
		Maintenance: ms,
	}
}

func (n *Node) Host() string {
	n.muHost.RLock()
	defer n.muHost.RUnlock()
	return n.host
}

// setHost updates the host, and returns the previous one.
func (n *Node) setHost(host string) string {
	n.muHost.Lock()
	defer n.muHost.Unlock()
	prev := n.host
	n.host = host
	return prev
}

func (n *Node) seen(t time.Time) {
	n.muHost.Lock()
	defer n.muHost.Unlock()
	n.whenLastSeen = t
}

// LastSeen returns when the node was last reported by discovery.
func (n *Node) LastSeen() time.Time {
	n.muHost.RLock()
	defer n.muHost.RUnlock()
	return n.whenLastSeen
}

func (n *Node) String() string {
	return fmt.Sprintf("N{%s}", n.ID)
}
