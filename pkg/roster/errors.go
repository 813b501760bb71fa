package roster

import (
	"fmt"

	"github.com/adammck/maint/pkg/api"
)

// ErrNodeNotFound is returned when a node which does not exist (or has been
// removed) is looked up.
type ErrNodeNotFound struct {
	NodeID api.NodeID
}

func (e ErrNodeNotFound) Error() string {
	return fmt.Sprintf("no such node: %s", e.NodeID)
}

// ErrHostNotFound is returned when a host is neither registered nor carried by
// any node.
type ErrHostNotFound struct {
	Host string
}

func (e ErrHostNotFound) Error() string {
	return fmt.Sprintf("no such host: %s", e.Host)
}

// ErrHostNotEmpty is returned by RemoveHost while nodes are still on the host.
type ErrHostNotEmpty struct {
	Host  string
	Nodes int
}

func (e ErrHostNotEmpty) Error() string {
	return fmt.Sprintf("host %s still has %d nodes", e.Host, e.Nodes)
}
