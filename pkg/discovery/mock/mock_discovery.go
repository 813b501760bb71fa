package mock

import (
	"sync"

	"github.com/adammck/maint/pkg/api"
)

type MockDiscovery struct {
	Remotes map[string][]api.Remote
	sync.RWMutex

	// If non-nil, returned by Get.
	Err error
}

func New() *MockDiscovery {
	return &MockDiscovery{
		Remotes: map[string][]api.Remote{},
	}
}

// interface

func (d *MockDiscovery) Start() error {
	return nil
}

func (d *MockDiscovery) Stop() error {
	return nil
}

func (d *MockDiscovery) Get(name string) ([]api.Remote, error) {
	d.RLock()
	defer d.RUnlock()

	if d.Err != nil {
		return nil, d.Err
	}

	rems, ok := d.Remotes[name]
	if !ok {
		return []api.Remote{}, nil
	}

	res := make([]api.Remote, len(rems))
	copy(res, rems)

	return res, nil
}

// test helpers

func (d *MockDiscovery) Set(name string, remotes []api.Remote) {
	d.Lock()
	defer d.Unlock()
	d.Remotes[name] = remotes
}

func (d *MockDiscovery) Add(name string, remote api.Remote) {
	d.Lock()
	defer d.Unlock()
	d.Remotes[name] = append(d.Remotes[name], remote)
}

// Remove removes the remote with the given ident, if it's there.
func (d *MockDiscovery) Remove(name string, ident string) {
	d.Lock()
	defer d.Unlock()

	rems := d.Remotes[name][:0]
	for _, r := range d.Remotes[name] {
		if r.Ident != ident {
			rems = append(rems, r)
		}
	}
	d.Remotes[name] = rems
}
