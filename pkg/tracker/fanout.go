package tracker

import (
	"context"
	"errors"

	"github.com/adammck/maint/pkg/acl"
	"github.com/adammck/maint/pkg/api"
	"github.com/adammck/maint/pkg/maintenance"
	"github.com/adammck/maint/pkg/roster"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// outcome is what happened to a single node during a host-wide operation.
type outcome uint8

const (
	applied outcome = iota
	denied
	failed
	missing   // removed from the roster after the target was resolved
	cancelled // context ended before the node was started
)

func (o outcome) String() string {
	switch o {
	case applied:
		return "applied"
	case denied:
		return "denied"
	case failed:
		return "failed"
	case missing:
		return "missing"
	case cancelled:
		return "cancelled"
	}

	return "unknown"
}

type nodeResult struct {
	nID     api.NodeID
	outcome outcome
	counts  api.Counts
	err     error
}

// fanOutResult is the aggregate of a host-wide operation. Counts includes what
// was changed on nodes which failed part-way.
type fanOutResult struct {
	counts  api.Counts
	results []nodeResult
}

func (r *fanOutResult) count(o outcome) int {
	n := 0
	for _, nr := range r.results {
		if nr.outcome == o {
			n++
		}
	}
	return n
}

// fanOut applies fn to each of the given nodes which user may write to, in
// parallel. Each node is its own critical section; there is no rollback, so a
// failure on one node doesn't undo the others. Nodes which haven't been started
// when ctx ends are skipped.
func (t *Tracker) fanOut(ctx context.Context, nIDs []api.NodeID, user string, fn func(*roster.Node) (api.Counts, error)) *fanOutResult {
	results := make([]nodeResult, len(nIDs))

	var g errgroup.Group
	g.SetLimit(t.parallelism)

	for i, nID := range nIDs {
		if err := ctx.Err(); err != nil {
			results[i] = nodeResult{nID: nID, outcome: cancelled, err: err}
			continue
		}

		g.Go(func() error {
			results[i] = t.applyOne(nID, user, fn)
			return nil
		})
	}

	// Never returns an error; failures are collected per node.
	_ = g.Wait()

	total := api.Counts{}
	for _, r := range results {
		total.Add(r.counts)
	}

	return &fanOutResult{
		counts:  total,
		results: results,
	}
}

func (t *Tracker) applyOne(nID api.NodeID, user string, fn func(*roster.Node) (api.Counts, error)) nodeResult {
	n, err := t.node(nID, user)
	if err != nil {
		var ade *acl.AccessDeniedError
		if errors.As(err, &ade) {
			return nodeResult{nID: nID, outcome: denied, err: err}
		}
		return nodeResult{nID: nID, outcome: missing, err: err}
	}

	c, err := fn(n)
	if errors.Is(err, maintenance.ErrDestroyed) {
		return nodeResult{nID: nID, outcome: missing, err: err}
	}
	if err != nil {
		return nodeResult{nID: nID, outcome: failed, counts: c, err: err}
	}

	return nodeResult{nID: nID, outcome: applied, counts: c}
}

// report logs the nodes which were skipped by a host-wide operation. Skips
// aren't returned to the caller.
func (t *Tracker) report(target api.Target, op string, res *fanOutResult) {
	for _, r := range res.results {
		if r.outcome == applied {
			continue
		}

		t.met.ObserveSkipped()
		t.log.WithError(r.err).WithFields(logrus.Fields{
			"host":    target.ID,
			"node":    r.nID,
			"op":      op,
			"outcome": r.outcome,
		}).Warn("skipped node")
	}

	t.log.WithFields(logrus.Fields{
		"host":    target.ID,
		"op":      op,
		"nodes":   len(res.results),
		"applied": res.count(applied),
		"counts":  res.counts.ByName(),
	}).Debug("host fan-out done")
}
