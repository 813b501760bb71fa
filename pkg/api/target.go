package api

import "fmt"

// TargetType is the kind of object that a maintenance operation is aimed at.
type TargetType string

const (
	TargetNode TargetType = "cluster_node"
	TargetHost TargetType = "host"
)

func ParseTargetType(s string) (TargetType, error) {
	switch TargetType(s) {
	case TargetNode, TargetHost:
		return TargetType(s), nil
	}

	return "", InvalidArgument("unknown target type: %q", s)
}

// Target is what a maintenance operation is aimed at: either a single node, or
// every node which is currently on some host.
type Target struct {
	Type TargetType
	ID   string
}

func NodeTarget(nID NodeID) Target {
	return Target{Type: TargetNode, ID: string(nID)}
}

func HostTarget(host string) Target {
	return Target{Type: TargetHost, ID: host}
}

func (t Target) String() string {
	return fmt.Sprintf("%s:%s", t.Type, t.ID)
}
