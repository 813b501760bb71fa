package api

// NodeID is the unique identity of a cluster node. It's the ident that the node
// advertises to service discovery, and the key under which its maintenance
// requests are persisted.
type NodeID string

const ZeroNodeID NodeID = ""

func (nID NodeID) String() string {
	return string(nID)
}
