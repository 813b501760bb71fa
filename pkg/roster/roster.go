package roster

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/adammck/maint/pkg/api"
	"github.com/adammck/maint/pkg/discovery"
	"github.com/adammck/maint/pkg/maintenance"
	"github.com/adammck/maint/pkg/persister"
	"github.com/jonboulle/clockwork"
	"github.com/lthibault/jitterbug"
	"github.com/sirupsen/logrus"
)

// Roster is the set of nodes which the tracker knows about, and which host
// each of them is on. Nodes are added by discovery (or explicitly via
// Register), and are only ever removed explicitly. A node which disappears from
// discovery keeps its maintenance requests, because a banned node which is
// down should stay banned when it comes back.
type Roster struct {
	disc    discovery.Discoverable
	svcName string
	pers    persister.Persister
	clock   clockwork.Clock
	log     logrus.FieldLogger

	nodes map[api.NodeID]*Node

	// Hosts which were created explicitly. Hosts which are only carried by
	// nodes aren't in here.
	hosts map[string]struct{}

	// Guards nodes and hosts. Never held during a node's critical section.
	mu sync.RWMutex
}

// New returns an empty roster. Disc may be nil, in which case nodes must be
// registered explicitly and Tick does nothing.
func New(disc discovery.Discoverable, svcName string, pers persister.Persister, clock clockwork.Clock, log logrus.FieldLogger) *Roster {
	return &Roster{
		disc:    disc,
		svcName: svcName,
		pers:    pers,
		clock:   clock,
		log:     log,
		nodes:   map[api.NodeID]*Node{},
		hosts:   map[string]struct{}{},
	}
}

// getOrCreate returns the node with the given ID, creating it if necessary.
// Caller must hold the write lock.
func (r *Roster) getOrCreate(nID api.NodeID) (*Node, bool) {
	if n, ok := r.nodes[nID]; ok {
		return n, false
	}

	n := newNode(nID, maintenance.New(nID, r.pers, r.clock))
	r.nodes[nID] = n
	return n, true
}

// Load restores every request from the persister. It should be called once,
// before serving. Nodes which only exist in storage are created with no host;
// they'll be given one when discovery reports them.
func (r *Roster) Load() error {
	reqs, err := r.pers.GetRequests()
	if err != nil {
		return fmt.Errorf("loading requests: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for nID, rs := range reqs {
		node, _ := r.getOrCreate(nID)
		node.Maintenance.Restore(rs)
		n += len(rs)
	}

	r.log.WithFields(logrus.Fields{
		"nodes":    len(reqs),
		"requests": n,
	}).Info("restored maintenance requests")

	return nil
}

// Register adds a node on the given host, or moves it there if it's already
// known. The host may be empty.
func (r *Roster) Register(nID api.NodeID, host string) (*Node, error) {
	if nID == api.ZeroNodeID {
		return nil, api.InvalidArgument("empty node id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n, created := r.getOrCreate(nID)
	prev := n.setHost(host)

	if created {
		r.log.WithFields(logrus.Fields{"node": nID, "host": host}).Info("new node")
	} else if prev != host {
		r.log.WithFields(logrus.Fields{"node": nID, "host": host, "prev": prev}).Info("node moved")
	}

	return n, nil
}

// SetHost changes the host of an existing node, and returns the previous one.
// Discovery will move it back on the next tick if it disagrees.
func (r *Roster) SetHost(nID api.NodeID, host string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.nodes[nID]
	if !ok {
		return "", ErrNodeNotFound{NodeID: nID}
	}

	prev := n.setHost(host)
	if prev != host {
		r.log.WithFields(logrus.Fields{"node": nID, "host": host, "prev": prev}).Info("node moved")
	}

	return prev, nil
}

// Remove destroys a node, along with all of its maintenance requests, both in
// memory and in storage. It returns how many requests of each kind were
// destroyed. Mutations of the node which are already in progress finish
// first; later ones fail.
func (r *Roster) Remove(nID api.NodeID) (api.Counts, error) {
	n, err := r.NodeByIdent(nID)
	if err != nil {
		return nil, err
	}

	// Takes the node's lock, so must happen outside of r.mu.
	c, err := n.Maintenance.Destroy()
	if errors.Is(err, maintenance.ErrDestroyed) {
		return nil, ErrNodeNotFound{NodeID: nID}
	}
	if err != nil {
		return nil, fmt.Errorf("removing node %s: %w", nID, err)
	}

	r.mu.Lock()
	if r.nodes[nID] == n {
		delete(r.nodes, nID)
	}
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{
		"node":     nID,
		"requests": c.Total(),
	}).Info("removed node")

	return c, nil
}

// CreateHost registers a host, so that it can be targeted even before any
// nodes are on it.
func (r *Roster) CreateHost(host string) error {
	if host == "" {
		return api.InvalidArgument("empty host")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.hosts[host] = struct{}{}

	return nil
}

// RemoveHost unregisters a host. It fails while any node is still on it.
func (r *Roster) RemoveHost(host string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c := len(r.nodesOf(host)); c > 0 {
		return ErrHostNotEmpty{Host: host, Nodes: c}
	}

	if _, ok := r.hosts[host]; !ok {
		return ErrHostNotFound{Host: host}
	}

	delete(r.hosts, host)
	return nil
}

func (r *Roster) NodeByIdent(nID api.NodeID) (*Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.nodes[nID]
	if !ok {
		return nil, ErrNodeNotFound{NodeID: nID}
	}

	return n, nil
}

// Nodes returns every known node, sorted by ID.
func (r *Roster) Nodes() []*Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Node, 0, len(r.nodes))
	for _, n := range r.nodes {
		out = append(out, n)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	return out
}

// Hosts returns every host which is either registered or carried by a node,
// sorted.
func (r *Roster) Hosts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := map[string]struct{}{}
	for h := range r.hosts {
		set[h] = struct{}{}
	}
	for _, n := range r.nodes {
		if h := n.Host(); h != "" {
			set[h] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for h := range set {
		out = append(out, h)
	}
	sort.Strings(out)

	return out
}

// nodesOf returns the (sorted) IDs of the nodes which are currently on the
// given host. Caller must hold the lock.
func (r *Roster) nodesOf(host string) []api.NodeID {
	out := []api.NodeID{}
	if host == "" {
		return out
	}

	for nID, n := range r.nodes {
		if n.Host() == host {
			out = append(out, nID)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})

	return out
}

// NodesOf returns the nodes which are currently on the given host.
func (r *Roster) NodesOf(host string) ([]api.NodeID, error) {
	return r.Resolve(api.HostTarget(host))
}

// Resolve expands a target into the nodes which it covers right now. Nodes
// which move on or off a host after this returns aren't affected.
func (r *Roster) Resolve(t api.Target) ([]api.NodeID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch t.Type {
	case api.TargetNode:
		nID := api.NodeID(t.ID)
		if _, ok := r.nodes[nID]; !ok {
			return nil, ErrNodeNotFound{NodeID: nID}
		}
		return []api.NodeID{nID}, nil

	case api.TargetHost:
		nIDs := r.nodesOf(t.ID)
		if len(nIDs) == 0 {
			if _, ok := r.hosts[t.ID]; !ok {
				return nil, ErrHostNotFound{Host: t.ID}
			}
		}
		return nIDs, nil
	}

	return nil, api.InvalidArgument("unknown target type: %q", t.Type)
}

// Tick pulls the current set of nodes from discovery. New nodes are added, and
// the host and last-seen time of known nodes are updated. Nodes which have
// disappeared are left alone.
func (r *Roster) Tick() error {
	if r.disc == nil {
		return nil
	}

	res, err := r.disc.Get(r.svcName)
	if err != nil {
		return fmt.Errorf("discovering %s: %w", r.svcName, err)
	}

	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rem := range res {
		nID := rem.NodeID()
		if nID == api.ZeroNodeID {
			continue
		}

		n, created := r.getOrCreate(nID)
		host := rem.HostLabel()
		prev := n.setHost(host)
		n.seen(now)

		f := logrus.Fields{"node": nID, "host": host, "addr": rem.Addr()}
		if created {
			r.log.WithFields(f).Info("new node")
		} else if prev != host {
			f["prev"] = prev
			r.log.WithFields(f).Info("node moved")
		}
	}

	r.log.WithField("remotes", len(res)).Debug("discovery tick")

	return nil
}

// Run ticks immediately, and then roughly every d until the context is
// cancelled.
func (r *Roster) Run(ctx context.Context, d time.Duration) {
	t := jitterbug.New(d, &jitterbug.Norm{Stdev: d / 10})
	defer t.Stop()

	for {
		if err := r.Tick(); err != nil {
			r.log.WithError(err).Warn("roster tick failed")
		}

		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
