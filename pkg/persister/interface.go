package persister

import "github.com/adammck/maint/pkg/api"

// Persister durably stores maintenance requests, so that they survive a
// restart of the tracker (or a failover to another instance of it). Requests
// are keyed by (node, request id) and are never updated in place.
type Persister interface {

	// GetRequests returns every stored request, grouped by node. It's called
	// once, at startup.
	GetRequests() (map[api.NodeID][]api.Request, error)

	// PutRequest stores a new request. Implementations should refuse to
	// overwrite an existing request with the same ID.
	PutRequest(nID api.NodeID, r api.Request) error

	// DeleteRequest removes a single request. Deleting a request which doesn't
	// exist is not an error.
	DeleteRequest(nID api.NodeID, id api.RequestID) error

	// DeleteNode removes every request belonging to the given node.
	DeleteNode(nID api.NodeID) error
}
