package tracker

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/adammck/maint/pkg/acl"
	"github.com/adammck/maint/pkg/api"
	"github.com/adammck/maint/pkg/config"
	"github.com/adammck/maint/pkg/metrics"
	"github.com/adammck/maint/pkg/roster"
	"github.com/sirupsen/logrus"
)

// Tracker is the maintenance API. It resolves targets to nodes, checks that
// the caller may write to each of them, and applies the change to each node's
// request set.
type Tracker struct {
	rost *roster.Roster
	gate *acl.Gate
	met  *metrics.Metrics
	log  logrus.FieldLogger

	sysUser     string
	parallelism int

	// When true, SetFlag and SetAttribute are refused.
	forbidLegacy atomic.Bool
}

// New returns a tracker over the given roster, which should already have been
// loaded. Met may be nil.
func New(cfg config.Config, rost *roster.Roster, gate *acl.Gate, met *metrics.Metrics, log logrus.FieldLogger) *Tracker {
	t := &Tracker{
		rost:        rost,
		gate:        gate,
		met:         met,
		log:         log,
		sysUser:     cfg.SystemUser,
		parallelism: cfg.NodeTracker.FanOutParallelism,
	}

	if t.parallelism < 1 {
		t.parallelism = 1
	}

	t.forbidLegacy.Store(cfg.NodeTracker.ForbidMaintenanceAttributeWrites)

	c := api.Counts{}
	for _, n := range rost.Nodes() {
		for _, r := range n.Maintenance.List() {
			c[r.Kind]++
		}
	}
	met.ObserveRestore(c)

	return t
}

func (t *Tracker) user(u string) string {
	if u == "" {
		return t.sysUser
	}
	return u
}

// node returns the node with the given ID, if the user may write to it.
func (t *Tracker) node(nID api.NodeID, user string) (*roster.Node, error) {
	n, err := t.rost.NodeByIdent(nID)
	if err != nil {
		return nil, err
	}

	if err := t.gate.Authorize(user, nID); err != nil {
		t.met.ObserveDenied()
		return nil, err
	}

	return n, nil
}

// AddMaintenance creates a request of the given kind on the target. For a
// single node, the new request ID is returned. For a host, every node on it
// which the user may write to gets its own request, and ZeroRequestID is
// returned.
func (t *Tracker) AddMaintenance(ctx context.Context, target api.Target, k api.Kind, comment, user string) (api.RequestID, error) {
	if !k.Valid() {
		return api.ZeroRequestID, api.InvalidArgument("unknown maintenance kind: %d", uint8(k))
	}

	user = t.user(user)

	nIDs, err := t.rost.Resolve(target)
	if err != nil {
		return api.ZeroRequestID, err
	}

	if target.Type == api.TargetNode {
		n, err := t.node(nIDs[0], user)
		if err != nil {
			return api.ZeroRequestID, err
		}

		r, err := t.add(n, k, comment, user)
		if err != nil {
			return api.ZeroRequestID, err
		}

		return r.ID, nil
	}

	add := func(n *roster.Node) (api.Counts, error) {
		if _, err := t.add(n, k, comment, user); err != nil {
			return nil, err
		}
		return api.Counts{k: 1}, nil
	}

	res := t.fanOut(ctx, nIDs, user, add)
	t.report(target, "add", res)

	return api.ZeroRequestID, ctx.Err()
}

func (t *Tracker) add(n *roster.Node, k api.Kind, comment, user string) (api.Request, error) {
	r, err := n.Maintenance.Add(k, comment, user)
	if err != nil {
		return api.Request{}, fmt.Errorf("adding %s request to %s: %w", k, n.ID, err)
	}

	t.met.ObserveAdd(k)
	t.log.WithFields(logrus.Fields{
		"node": n.ID,
		"kind": k,
		"user": user,
		"id":   r.ID,
	}).Info("added maintenance request")

	return r, nil
}

// RemoveMaintenance deletes the requests on the target which match the filter,
// and returns how many of each kind were deleted. For a host, nodes which the
// user may not write to are skipped.
func (t *Tracker) RemoveMaintenance(ctx context.Context, target api.Target, f api.Filter, user string) (api.Counts, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	user = t.user(user)
	pred := f.Predicate(user)

	nIDs, err := t.rost.Resolve(target)
	if err != nil {
		return nil, err
	}

	remove := func(n *roster.Node) (api.Counts, error) {
		c, err := n.Maintenance.Remove(pred)
		t.met.ObserveRemove(c)

		if c.Total() > 0 {
			t.log.WithFields(logrus.Fields{
				"node":    n.ID,
				"user":    user,
				"removed": c.ByName(),
			}).Info("removed maintenance requests")
		}

		if err != nil {
			return c, fmt.Errorf("removing requests from %s: %w", n.ID, err)
		}

		return c, nil
	}

	if target.Type == api.TargetNode {
		n, err := t.node(nIDs[0], user)
		if err != nil {
			return nil, err
		}

		return remove(n)
	}

	res := t.fanOut(ctx, nIDs, user, remove)
	t.report(target, "remove", res)

	return res.counts, ctx.Err()
}

// Requests returns every request on the node, sorted by ID.
func (t *Tracker) Requests(nID api.NodeID) ([]api.Request, error) {
	n, err := t.rost.NodeByIdent(nID)
	if err != nil {
		return nil, err
	}

	return n.Maintenance.List(), nil
}

func (t *Tracker) Flags(nID api.NodeID) (api.Flags, error) {
	n, err := t.rost.NodeByIdent(nID)
	if err != nil {
		return api.Flags{}, err
	}

	return n.Maintenance.Flags(), nil
}

// Attributes returns the read view of a node. The requests and flags in it are
// from the same instant.
func (t *Tracker) Attributes(nID api.NodeID) (api.NodeAttributes, error) {
	n, err := t.rost.NodeByIdent(nID)
	if err != nil {
		return api.NodeAttributes{}, err
	}

	return attributes(n), nil
}

// Attribute returns a single attribute of a node by name, e.g. "banned".
func (t *Tracker) Attribute(nID api.NodeID, name string) (interface{}, error) {
	attrs, err := t.Attributes(nID)
	if err != nil {
		return nil, err
	}

	return attrs.Get(name)
}

// ListAttributes returns the attributes of every node on the given host, or of
// every node if host is empty.
func (t *Tracker) ListAttributes(host string) ([]api.NodeAttributes, error) {
	var nodes []*roster.Node

	if host == "" {
		nodes = t.rost.Nodes()
	} else {
		nIDs, err := t.rost.NodesOf(host)
		if err != nil {
			return nil, err
		}

		for _, nID := range nIDs {
			n, err := t.rost.NodeByIdent(nID)
			if err != nil {
				// Removed since resolving.
				continue
			}
			nodes = append(nodes, n)
		}
	}

	out := make([]api.NodeAttributes, len(nodes))
	for i, n := range nodes {
		out[i] = attributes(n)
	}

	return out, nil
}

func attributes(n *roster.Node) api.NodeAttributes {
	reqs, flags := n.Maintenance.Snapshot()
	return api.NewNodeAttributes(n.ID, n.Host(), reqs, flags)
}

// SetForbidLegacyWrites toggles whether the legacy flag attributes can be
// written. Only superusers may change it.
func (t *Tracker) SetForbidLegacyWrites(value bool, user string) error {
	user, err := t.superuser(user)
	if err != nil {
		return err
	}

	if t.forbidLegacy.Swap(value) != value {
		t.log.WithFields(logrus.Fields{
			"user":  user,
			"value": value,
		}).Info("changed forbid_maintenance_attribute_writes")
	}

	return nil
}

func (t *Tracker) ForbidLegacyWrites() bool {
	return t.forbidLegacy.Load()
}
