package memory

import (
	"fmt"
	"sync"

	"github.com/adammck/maint/pkg/api"
)

// Persister keeps requests in memory. Nothing survives a restart, so this is
// only useful for tests and for trying things out. Tests can inject failures
// via PutErr and DeleteErr.
type Persister struct {
	data map[api.NodeID]map[api.RequestID]api.Request
	mu   sync.Mutex

	// If non-nil, returned by the next (and every subsequent) call.
	PutErr    error
	DeleteErr error

	puts    int
	deletes int
}

func New() *Persister {
	return &Persister{
		data: map[api.NodeID]map[api.RequestID]api.Request{},
	}
}

func (mp *Persister) GetRequests() (map[api.NodeID][]api.Request, error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	out := make(map[api.NodeID][]api.Request, len(mp.data))
	for nID, reqs := range mp.data {
		for _, r := range reqs {
			out[nID] = append(out[nID], r)
		}
		api.SortRequests(out[nID])
	}

	return out, nil
}

func (mp *Persister) PutRequest(nID api.NodeID, r api.Request) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.PutErr != nil {
		return mp.PutErr
	}

	reqs, ok := mp.data[nID]
	if !ok {
		reqs = map[api.RequestID]api.Request{}
		mp.data[nID] = reqs
	}

	if _, ok := reqs[r.ID]; ok {
		return fmt.Errorf("request already exists: %s/%s", nID, r.ID)
	}

	reqs[r.ID] = r
	mp.puts += 1
	return nil
}

func (mp *Persister) DeleteRequest(nID api.NodeID, id api.RequestID) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.DeleteErr != nil {
		return mp.DeleteErr
	}

	if reqs, ok := mp.data[nID]; ok {
		delete(reqs, id)
		if len(reqs) == 0 {
			delete(mp.data, nID)
		}
	}

	mp.deletes += 1
	return nil
}

func (mp *Persister) DeleteNode(nID api.NodeID) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.DeleteErr != nil {
		return mp.DeleteErr
	}

	delete(mp.data, nID)
	return nil
}

// Len returns the number of requests stored for the given node.
func (mp *Persister) Len(nID api.NodeID) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return len(mp.data[nID])
}

// Ops returns the number of successful puts and deletes so far.
func (mp *Persister) Ops() (puts, deletes int) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.puts, mp.deletes
}
