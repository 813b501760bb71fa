package maintenance

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/adammck/maint/pkg/api"
	"github.com/jonboulle/clockwork"
)

// Writer is the part of the persister which State writes through to. Every
// mutation is persisted before it's applied in memory, while the node's lock
// is held, so the store never sees writes for one node out of order.
type Writer interface {
	PutRequest(nID api.NodeID, r api.Request) error
	DeleteRequest(nID api.NodeID, id api.RequestID) error
	DeleteNode(nID api.NodeID) error
}

// ErrDestroyed is returned by every mutation of a State after Destroy.
var ErrDestroyed = errors.New("node has been removed")

// State is the set of maintenance requests on a single node. It's safe for
// concurrent use; each State has its own lock, so operations on different
// nodes never contend.
type State struct {
	nID   api.NodeID
	w     Writer
	clock clockwork.Clock

	requests  map[api.RequestID]api.Request
	destroyed bool
	mu        sync.Mutex
}

func New(nID api.NodeID, w Writer, clock clockwork.Clock) *State {
	return &State{
		nID:      nID,
		w:        w,
		clock:    clock,
		requests: map[api.RequestID]api.Request{},
	}
}

// Restore loads requests which were read back from storage. They are not
// written again.
func (s *State) Restore(reqs []api.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return
	}

	for _, r := range reqs {
		s.requests[r.ID] = r
	}
}

// Add creates a new request with a fresh ID and the current time.
func (s *State) Add(k api.Kind, comment, user string) (api.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(k, comment, user)
}

// Remove deletes every request which pred returns true for, and returns how
// many of each kind were deleted. If the store fails part-way, the requests
// already deleted stay deleted, and are included in the counts.
func (s *State) Remove(pred func(api.Request) bool) (api.Counts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(pred)
}

// Replace removes every request of the given kind and then adds a single new
// one, atomically with respect to other callers. This is how a legacy flag is
// set to true.
func (s *State) Replace(k api.Kind, comment, user string) (api.Request, api.Counts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.remove(OfKind(k))
	if err != nil {
		return api.Request{}, removed, err
	}

	r, err := s.add(k, comment, user)
	return r, removed, err
}

// List returns every request, sorted by ID.
func (s *State) List() []api.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list()
}

// Flags returns the flags derived from the current requests.
func (s *State) Flags() api.Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DeriveFlags(s.list())
}

// Snapshot returns the requests and the flags derived from them, both from the
// same moment.
func (s *State) Snapshot() ([]api.Request, api.Flags) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reqs := s.list()
	return reqs, DeriveFlags(reqs)
}

// Destroy deletes every request from storage and memory, and closes the state
// so that nothing can be added to it afterwards. It returns how many of each
// kind were deleted. If the store fails, nothing changes.
func (s *State) Destroy() (api.Counts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return nil, ErrDestroyed
	}

	err := s.w.DeleteNode(s.nID)
	if err != nil {
		return nil, fmt.Errorf("deleting requests on node %s: %w", s.nID, err)
	}

	counts := api.Counts{}
	for _, r := range s.requests {
		counts[r.Kind] += 1
	}

	s.requests = map[api.RequestID]api.Request{}
	s.destroyed = true

	return counts, nil
}

func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Caller must hold mu.
func (s *State) add(k api.Kind, comment, user string) (api.Request, error) {
	if s.destroyed {
		return api.Request{}, ErrDestroyed
	}

	if !k.Valid() {
		return api.Request{}, api.InvalidArgument("unknown maintenance kind: %d", uint8(k))
	}

	id, err := api.NewRequestID()
	if err != nil {
		return api.Request{}, fmt.Errorf("generating request id: %w", err)
	}

	r := api.Request{
		ID:        id,
		Kind:      k,
		Comment:   comment,
		User:      user,
		Timestamp: s.clock.Now().UTC().Truncate(time.Microsecond),
	}

	err = s.w.PutRequest(s.nID, r)
	if err != nil {
		return api.Request{}, fmt.Errorf("persisting request %s on node %s: %w", id, s.nID, err)
	}

	s.requests[id] = r
	return r, nil
}

// Caller must hold mu.
func (s *State) remove(pred func(api.Request) bool) (api.Counts, error) {
	if s.destroyed {
		return nil, ErrDestroyed
	}

	counts := api.Counts{}

	// Iterate in ID order, so a partial failure is at least reproducible.
	for _, r := range s.list() {
		if !pred(r) {
			continue
		}

		err := s.w.DeleteRequest(s.nID, r.ID)
		if err != nil {
			return counts, fmt.Errorf("deleting request %s on node %s: %w", r.ID, s.nID, err)
		}

		delete(s.requests, r.ID)
		counts[r.Kind] += 1
	}

	return counts, nil
}

// Caller must hold mu.
func (s *State) list() []api.Request {
	out := make([]api.Request, 0, len(s.requests))
	for _, r := range s.requests {
		out = append(out, r)
	}

	api.SortRequests(out)
	return out
}
