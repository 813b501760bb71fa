package discovery

import "github.com/adammck/maint/pkg/api"

// Discoverable is an interface to make oneself discoverable (by name), and
// discovering other services by name.
//
// This is not a general-purpose service discovery interface! It's just what
// the tracker needs to learn which nodes exist and which host each is on,
// without letting Consul details get all over the place.
type Discoverable interface {
	Start() error
	Stop() error
	Get(string) ([]api.Remote, error)
}
