package tracker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/adammck/maint/pkg/acl"
	"github.com/adammck/maint/pkg/api"
	"github.com/adammck/maint/pkg/config"
	"github.com/adammck/maint/pkg/maintenance"
	"github.com/adammck/maint/pkg/metrics"
	"github.com/adammck/maint/pkg/persister/memory"
	"github.com/adammck/maint/pkg/roster"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
)

type TrackerSuite struct {
	suite.Suite
	ctx    context.Context
	clock  clockwork.FakeClock
	pers   *memory.Persister
	rost   *roster.Roster
	policy *acl.Policy
	reg    *prometheus.Registry
	hook   *test.Hook
	trk    *Tracker
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerSuite))
}

// SetupTest creates three nodes: n1 and n2 on h1, and n3 on h2. Everyone may
// write to everything unless a test changes the policy.
func (ts *TrackerSuite) SetupTest() {
	log, hook := test.NewNullLogger()
	ts.hook = hook
	ts.ctx = context.Background()
	ts.clock = clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 0, 0, 0, 1500, time.UTC))
	ts.pers = memory.New()
	ts.rost = roster.New(nil, "node", ts.pers, ts.clock, log)
	ts.policy = &acl.Policy{}

	for nID, host := range map[api.NodeID]string{"n1": "h1", "n2": "h1", "n3": "h2"} {
		_, err := ts.rost.Register(nID, host)
		ts.Require().NoError(err)
	}

	ts.reg = prometheus.NewRegistry()
	met, err := metrics.New(ts.reg)
	ts.Require().NoError(err)

	gate := acl.NewGate(ts.policy, []string{"root"}, log)
	ts.trk = New(config.Default(), ts.rost, gate, met, log)
}

func (ts *TrackerSuite) deny(user string, nodes ...api.NodeID) {
	ts.policy.ACEs = append(ts.policy.ACEs, acl.ACE{
		Action:      acl.Deny,
		Subjects:    []string{user},
		Permissions: []acl.Permission{acl.Write},
		Nodes:       nodes,
	})
}

func (ts *TrackerSuite) add(tgt api.Target, k api.Kind, comment, user string) api.RequestID {
	id, err := ts.trk.AddMaintenance(ts.ctx, tgt, k, comment, user)
	ts.Require().NoError(err)
	return id
}

func (ts *TrackerSuite) remove(tgt api.Target, f api.Filter, user string) api.Counts {
	c, err := ts.trk.RemoveMaintenance(ts.ctx, tgt, f, user)
	ts.Require().NoError(err)
	return c
}

func (ts *TrackerSuite) requests(nID api.NodeID) map[string]api.RequestAttributes {
	attrs, err := ts.trk.Attributes(nID)
	ts.Require().NoError(err)
	return attrs.MaintenanceRequests
}

func (ts *TrackerSuite) flag(nID api.NodeID, k api.Kind) bool {
	v, err := ts.trk.Attribute(nID, k.Flag())
	ts.Require().NoError(err)
	return v.(bool)
}

func ids(reqs map[string]api.RequestAttributes) []string {
	out := make([]string, 0, len(reqs))
	for id := range reqs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (ts *TrackerSuite) TestExampleScenario() {
	n1 := api.NodeTarget("n1")

	r1 := ts.add(n1, api.Ban, "x", "u1")
	ts.True(ts.flag("n1", api.Ban))

	r2 := ts.add(n1, api.Ban, "y", "u2")
	ts.Equal(api.Counts{api.Ban: 1}, ts.remove(n1, api.IDFilter(r1), "root"))

	ts.Equal(map[string]api.RequestAttributes{
		r2.String(): {
			Type:      "ban",
			User:      "u2",
			Comment:   "y",
			Timestamp: "2024-01-01T00:00:00.000001Z",
		},
	}, ts.requests("n1"))

	// Already gone.
	ts.Empty(ts.remove(n1, api.IDFilter(r1), "root"))

	ts.Equal(api.Counts{api.Ban: 1}, ts.remove(n1, api.Filter{All: true}, "root"))
	ts.False(ts.flag("n1", api.Ban))
}

func (ts *TrackerSuite) TestDirectFlagSet() {
	for _, k := range api.Kinds {
		for _, user := range []string{"u1", "u2"} {
			ts.add(api.NodeTarget("n1"), k, "maintenance by "+user, user)
		}

		ts.Require().NoError(ts.trk.SetAttribute(ts.ctx, "n1", k.Flag(), true, "u1"))
		ts.True(ts.flag("n1", k))

		// Setting the flag to true replaces all existing requests.
		reqs := ts.requests("n1")
		ts.Require().Len(reqs, 1)
		for _, r := range reqs {
			ts.Equal(k.String(), r.Type)
			ts.Equal("u1", r.User)
			ts.Equal("", r.Comment)

			_, err := api.ParseTimestamp(r.Timestamp)
			ts.NoError(err)
		}

		ts.add(api.NodeTarget("n1"), k, "another maintenance by u2", "u2")
		ts.Len(ts.requests("n1"), 2)

		ts.Require().NoError(ts.trk.SetAttribute(ts.ctx, "n1", k.Flag(), false, ""))
		ts.Empty(ts.requests("n1"))
		ts.False(ts.flag("n1", k))
	}
}

func (ts *TrackerSuite) TestSetFlagUnknownAttribute() {
	err := ts.trk.SetAttribute(ts.ctx, "n1", "frobnicated", true, "root")
	ts.Equal(codes.InvalidArgument, Code(err))
}

func (ts *TrackerSuite) TestSetFlagAccessDenied() {
	ts.add(api.NodeTarget("n1"), api.Ban, "", "u2")
	ts.deny("u1")

	err := ts.trk.SetFlag(ts.ctx, "n1", api.Ban, false, "u1")
	ts.Equal(codes.PermissionDenied, Code(err))
	ts.Len(ts.requests("n1"), 1)
}

func (ts *TrackerSuite) TestDeprecation() {
	before := ts.add(api.NodeTarget("n1"), api.Decommission, "", "u1")
	ts.Require().NoError(ts.trk.SetForbidLegacyWrites(true, "root"))

	for _, k := range api.Kinds {
		for _, v := range []bool{true, false} {
			err := ts.trk.SetAttribute(ts.ctx, "n1", k.Flag(), v, "root")
			var de *DeprecatedError
			if ts.ErrorAs(err, &de) {
				ts.Contains(err.Error(), "deprecated")
				ts.Equal(codes.FailedPrecondition, Code(err))
			}
		}
	}

	// No effect, and reads still work.
	ts.Equal([]string{before.String()}, ids(ts.requests("n1")))
	ts.True(ts.flag("n1", api.Decommission))

	// The structured API still works.
	ts.add(api.NodeTarget("n1"), api.Ban, "", "u1")

	ts.Require().NoError(ts.trk.SetForbidLegacyWrites(false, ""))
	ts.NoError(ts.trk.SetAttribute(ts.ctx, "n1", "banned", false, "root"))
	ts.False(ts.flag("n1", api.Ban))
}

func (ts *TrackerSuite) TestForbidFromConfig() {
	cfg := config.Default()
	cfg.NodeTracker.ForbidMaintenanceAttributeWrites = true

	log, _ := test.NewNullLogger()
	trk := New(cfg, ts.rost, acl.NewGate(ts.policy, nil, log), nil, log)
	ts.True(trk.ForbidLegacyWrites())

	err := trk.SetAttribute(ts.ctx, "n1", "banned", true, "root")
	ts.Equal(codes.FailedPrecondition, Code(err))
}

func (ts *TrackerSuite) TestForbidRequiresSuperuser() {
	err := ts.trk.SetForbidLegacyWrites(true, "u1")
	ts.Equal(codes.PermissionDenied, Code(err))
	ts.False(ts.trk.ForbidLegacyWrites())
}

func (ts *TrackerSuite) TestAddRemove() {
	n1 := api.NodeTarget("n1")

	for _, k := range api.Kinds {
		m1 := ts.add(n1, k, "comment1", "u1")
		ts.True(ts.flag("n1", k))
		m2 := ts.add(n1, k, "comment2", "u2")
		ts.True(ts.flag("n1", k))

		ts.Equal(api.Counts{k: 1}, ts.remove(n1, api.IDFilter(m1), "root"))
		ts.True(ts.flag("n1", k))

		reqs := ts.requests("n1")
		ts.Require().Len(reqs, 1)
		m := reqs[m2.String()]
		ts.Equal(k.String(), m.Type)
		ts.Equal("comment2", m.Comment)
		ts.Equal("u2", m.User)

		ts.Equal(api.Counts{k: 1}, ts.remove(n1, api.IDFilter(m2), "root"))
		ts.False(ts.flag("n1", k))
	}
}

func (ts *TrackerSuite) TestMixingTypes() {
	n1 := api.NodeTarget("n1")

	byKind := map[api.Kind]api.RequestID{}
	for _, k := range api.Kinds {
		byKind[k] = ts.add(n1, k, k.String(), "")
	}

	flags, err := ts.trk.Flags("n1")
	ts.Require().NoError(err)
	ts.Equal(api.Flags{
		Banned:               true,
		Decommissioned:       true,
		DisableWriteSessions: true,
		DisableSchedulerJobs: true,
		DisableTabletCells:   true,
	}, flags)

	cleared := map[api.Kind]bool{}
	check := func() {
		for _, k := range api.Kinds {
			ts.Equal(!cleared[k], ts.flag("n1", k), k.String())
		}
	}

	for _, k := range api.Kinds {
		check()
		ts.Equal(api.Counts{k: 1}, ts.remove(n1, api.IDFilter(byKind[k]), ""))
		cleared[k] = true
		check()
	}
}

func (ts *TrackerSuite) TestAccess() {
	n1 := api.NodeTarget("n1")
	ts.deny("u")

	id := ts.add(n1, api.Ban, "ban by root", "")
	before, err := ts.trk.Requests("n1")
	ts.Require().NoError(err)

	_, err = ts.trk.AddMaintenance(ts.ctx, n1, api.Ban, "ban by u", "u")
	if ts.Error(err) {
		ts.Contains(err.Error(), "Access denied")
		ts.Equal(codes.PermissionDenied, Code(err))
	}

	_, err = ts.trk.RemoveMaintenance(ts.ctx, n1, api.IDFilter(id), "u")
	if ts.Error(err) {
		ts.Contains(err.Error(), "Access denied")
	}

	after, err := ts.trk.Requests("n1")
	ts.Require().NoError(err)
	if diff := cmp.Diff(before, after); diff != "" {
		ts.Failf("requests changed", "(-before +after):\n%s", diff)
	}
}

func (ts *TrackerSuite) TestRemoveAll() {
	n1 := api.NodeTarget("n1")
	ts.add(n1, api.DisableWriteSessions, "comment1", "")
	ts.add(n1, api.Decommission, "comment2", "")

	ts.Len(ts.requests("n1"), 2)
	ts.True(ts.flag("n1", api.Decommission))
	ts.True(ts.flag("n1", api.DisableWriteSessions))

	ts.Equal(api.Counts{
		api.DisableWriteSessions: 1,
		api.Decommission:         1,
	}, ts.remove(n1, api.Filter{All: true}, ""))

	ts.Empty(ts.requests("n1"))
	ts.False(ts.flag("n1", api.Decommission))
	ts.False(ts.flag("n1", api.DisableWriteSessions))
}

func (ts *TrackerSuite) TestRemoveMine() {
	n1 := api.NodeTarget("n1")
	ts.add(n1, api.DisableWriteSessions, "comment1", "u1")
	ts.add(n1, api.DisableSchedulerJobs, "comment2", "u2")

	ts.Equal(api.Counts{api.DisableWriteSessions: 1}, ts.remove(n1, api.Filter{Mine: true}, "u1"))

	users := []string{}
	for _, r := range ts.requests("n1") {
		users = append(users, r.User)
	}
	ts.Equal([]string{"u2"}, users)
}

func (ts *TrackerSuite) TestRemoveMany() {
	n1 := api.NodeTarget("n1")
	toRemove := []api.RequestID{
		ts.add(n1, api.DisableWriteSessions, "", "u1"),
		ts.add(n1, api.DisableWriteSessions, "", "u1"),
		ts.add(n1, api.DisableSchedulerJobs, "", "u2"),
	}
	other := ts.add(n1, api.DisableWriteSessions, "", "u1")

	want := []string{toRemove[2].String(), other.String()}
	sort.Strings(want)

	ts.Equal(api.Counts{api.DisableWriteSessions: 2}, ts.remove(n1, api.Filter{Mine: true, IDs: toRemove}, "u1"))

	// Only requests which are both listed and by u1 were removed.
	ts.Equal(want, ids(ts.requests("n1")))
}

func (ts *TrackerSuite) TestHostMaintenance() {
	zero := ts.add(api.HostTarget("h1"), api.Ban, "because I want", "u")
	ts.Equal(api.ZeroRequestID, zero)
	ts.Equal("00000000-0000-0000-0000-000000000000", zero.String())

	seen := map[string]bool{}
	for _, nID := range []api.NodeID{"n1", "n2"} {
		reqs := ts.requests(nID)
		ts.Require().Len(reqs, 1)
		for id, r := range reqs {
			ts.Equal("ban", r.Type)
			ts.Equal("u", r.User)
			ts.Equal("because I want", r.Comment)
			ts.False(seen[id], "ids must be distinct")
			seen[id] = true
		}
	}
	ts.Empty(ts.requests("n3"))

	notMine := ts.add(api.NodeTarget("n1"), api.Ban, "", "")
	ts.add(api.NodeTarget("n2"), api.Ban, "", "u")
	h2 := ts.add(api.NodeTarget("n3"), api.Ban, "", "u")

	ts.Equal(api.Counts{api.Ban: 3}, ts.remove(api.HostTarget("h1"), api.Filter{Mine: true}, "u"))

	ts.Empty(ts.requests("n2"))
	ts.Equal([]string{notMine.String()}, ids(ts.requests("n1")))
	ts.Equal([]string{h2.String()}, ids(ts.requests("n3")))
}

func (ts *TrackerSuite) TestHostSkipsUnauthorizedNodes() {
	ts.deny("u", "n2")

	ts.add(api.HostTarget("h1"), api.DisableTabletCells, "", "u")
	ts.Len(ts.requests("n1"), 1)
	ts.Empty(ts.requests("n2"))

	ts.Require().NotEmpty(ts.hook.Entries)
	e := ts.hook.LastEntry()
	ts.Equal(logrus.WarnLevel, e.Level)
	ts.Equal(api.NodeID("n2"), e.Data["node"])
	ts.Equal(denied, e.Data["outcome"])

	// Root's request on n2 is out of reach for u, and that's not an error.
	ts.add(api.NodeTarget("n2"), api.DisableTabletCells, "", "")
	ts.Equal(api.Counts{api.DisableTabletCells: 1}, ts.remove(api.HostTarget("h1"), api.Filter{All: true}, "u"))
	ts.Len(ts.requests("n2"), 1)
}

func (ts *TrackerSuite) TestHostPersistFailure() {
	ts.pers.PutErr = errors.New("disk on fire")

	id, err := ts.trk.AddMaintenance(ts.ctx, api.HostTarget("h1"), api.Ban, "", "")
	ts.NoError(err)
	ts.Equal(api.ZeroRequestID, id)
	ts.Empty(ts.requests("n1"))
	ts.Empty(ts.requests("n2"))

	_, err = ts.trk.AddMaintenance(ts.ctx, api.NodeTarget("n1"), api.Ban, "", "")
	ts.ErrorIs(err, ts.pers.PutErr)
	ts.Equal(codes.Internal, Code(err))
}

func (ts *TrackerSuite) TestEmptyHost() {
	ts.Require().NoError(ts.rost.CreateHost("h3"))

	id := ts.add(api.HostTarget("h3"), api.Ban, "", "")
	ts.Equal(api.ZeroRequestID, id)
	ts.Empty(ts.remove(api.HostTarget("h3"), api.Filter{All: true}, ""))
}

func (ts *TrackerSuite) TestCancelledFanOut() {
	ctx, cancel := context.WithCancel(ts.ctx)
	cancel()

	_, err := ts.trk.AddMaintenance(ctx, api.HostTarget("h1"), api.Ban, "", "")
	ts.ErrorIs(err, context.Canceled)
	ts.Empty(ts.requests("n1"))
	ts.Empty(ts.requests("n2"))
}

func (ts *TrackerSuite) TestNotFound() {
	_, err := ts.trk.AddMaintenance(ts.ctx, api.NodeTarget("n9"), api.Ban, "", "")
	ts.Equal(codes.NotFound, Code(err))

	_, err = ts.trk.AddMaintenance(ts.ctx, api.HostTarget("h9"), api.Ban, "", "")
	ts.Equal(codes.NotFound, Code(err))

	_, err = ts.trk.RemoveMaintenance(ts.ctx, api.HostTarget("h9"), api.Filter{All: true}, "")
	ts.Equal(codes.NotFound, Code(err))

	_, err = ts.trk.Attributes("n9")
	ts.Equal(codes.NotFound, Code(err))
}

func (ts *TrackerSuite) TestInvalidArguments() {
	n1 := api.NodeTarget("n1")
	ts.add(n1, api.Ban, "", "")

	_, err := ts.trk.AddMaintenance(ts.ctx, n1, api.KindUnknown, "", "")
	ts.Equal(codes.InvalidArgument, Code(err))

	for _, f := range []api.Filter{
		{},
		{All: true, Mine: true},
		{All: true, IDs: []api.RequestID{api.ZeroRequestID}},
	} {
		_, err := ts.trk.RemoveMaintenance(ts.ctx, n1, f, "")
		ts.Equal(codes.InvalidArgument, Code(err), fmt.Sprintf("%+v", f))
	}

	_, err = ts.trk.Attribute("n1", "colour")
	ts.Equal(codes.InvalidArgument, Code(err))

	ts.Len(ts.requests("n1"), 1)
}

func (ts *TrackerSuite) TestDefaultUser() {
	ts.add(api.NodeTarget("n1"), api.Ban, "", "")
	for _, r := range ts.requests("n1") {
		ts.Equal("root", r.User)
	}
}

func (ts *TrackerSuite) TestListAttributes() {
	ts.add(api.HostTarget("h1"), api.Ban, "", "")

	all, err := ts.trk.ListAttributes("")
	ts.Require().NoError(err)
	ts.Require().Len(all, 3)
	ts.Equal("n1", all[0].ID)
	ts.True(all[0].Banned)
	ts.False(all[2].Banned)

	h2, err := ts.trk.ListAttributes("h2")
	ts.Require().NoError(err)
	ts.Require().Len(h2, 1)
	ts.Equal("n3", h2[0].ID)
	ts.Equal("h2", h2[0].Host)
}

func (ts *TrackerSuite) TestRestoreAfterRestart() {
	id := ts.add(api.NodeTarget("n1"), api.Decommission, "moving racks", "alice")

	log, _ := test.NewNullLogger()
	rost := roster.New(nil, "node", ts.pers, ts.clock, log)
	ts.Require().NoError(rost.Load())
	trk := New(config.Default(), rost, acl.NewGate(ts.policy, nil, log), nil, log)

	attrs, err := trk.Attributes("n1")
	ts.Require().NoError(err)
	ts.True(attrs.Decommissioned)
	ts.Equal(api.RequestAttributes{
		Type:      "decommission",
		User:      "alice",
		Comment:   "moving racks",
		Timestamp: "2024-01-01T00:00:00.000001Z",
	}, attrs.MaintenanceRequests[id.String()])
}

func (ts *TrackerSuite) TestAdminRequiresSuperuser() {
	for name, err := range map[string]error{
		"create host": ts.trk.CreateHost("h3", "u1"),
		"remove host": ts.trk.RemoveHost("h2", "u1"),
	} {
		ts.Equal(codes.PermissionDenied, Code(err), name)
	}

	_, err := ts.trk.SetHost("n1", "h2", "u1")
	ts.Equal(codes.PermissionDenied, Code(err))
	_, err = ts.trk.RemoveNode("n1", "u1")
	ts.Equal(codes.PermissionDenied, Code(err))

	// Nothing changed.
	nodes, err := ts.trk.ListAttributes("h1")
	ts.Require().NoError(err)
	ts.Len(nodes, 2)
	_, err = ts.trk.ListAttributes("h3")
	ts.Equal(codes.NotFound, Code(err))
}

func (ts *TrackerSuite) TestCreateRemoveHost() {
	ts.Require().NoError(ts.trk.CreateHost("h3", ""))

	// Targetable while empty.
	ts.Equal(api.ZeroRequestID, ts.add(api.HostTarget("h3"), api.Ban, "", ""))
	ts.Empty(ts.remove(api.HostTarget("h3"), api.Filter{All: true}, ""))

	err := ts.trk.RemoveHost("h2", "root")
	ts.Equal(codes.FailedPrecondition, Code(err))

	ts.Require().NoError(ts.trk.RemoveHost("h3", "root"))
	_, err = ts.trk.AddMaintenance(ts.ctx, api.HostTarget("h3"), api.Ban, "", "")
	ts.Equal(codes.NotFound, Code(err))

	err = ts.trk.CreateHost("", "root")
	ts.Equal(codes.InvalidArgument, Code(err))
}

func (ts *TrackerSuite) TestSetHost() {
	id := ts.add(api.NodeTarget("n1"), api.Ban, "", "u1")

	prev, err := ts.trk.SetHost("n1", "h2", "")
	ts.Require().NoError(err)
	ts.Equal("h1", prev)

	// Requests move with the node.
	ts.Equal([]string{id.String()}, ids(ts.requests("n1")))
	ts.Equal(api.Counts{api.Ban: 1}, ts.remove(api.HostTarget("h2"), api.Filter{All: true}, ""))

	// The last node left h1, which was never created explicitly.
	_, err = ts.trk.SetHost("n2", "h2", "")
	ts.Require().NoError(err)
	_, err = ts.trk.ListAttributes("h1")
	ts.Equal(codes.NotFound, Code(err))

	_, err = ts.trk.SetHost("n9", "h2", "")
	ts.Equal(codes.NotFound, Code(err))
}

func (ts *TrackerSuite) TestRemoveNode() {
	ts.add(api.NodeTarget("n1"), api.Ban, "", "u1")
	ts.add(api.NodeTarget("n1"), api.Ban, "", "u2")
	ts.add(api.NodeTarget("n1"), api.Decommission, "", "u1")
	ts.add(api.NodeTarget("n2"), api.Ban, "", "u1")

	c, err := ts.trk.RemoveNode("n1", "root")
	ts.Require().NoError(err)
	ts.Equal(api.Counts{api.Ban: 2, api.Decommission: 1}, c)
	ts.Equal(0, ts.pers.Len("n1"))

	_, err = ts.trk.Attributes("n1")
	ts.Equal(codes.NotFound, Code(err))
	_, err = ts.trk.RemoveNode("n1", "root")
	ts.Equal(codes.NotFound, Code(err))

	// Host operations only see what's left.
	ts.Equal(api.Counts{api.Ban: 1}, ts.remove(api.HostTarget("h1"), api.Filter{All: true}, ""))

	rec := ts.get(ts.trk.Handler(ts.reg), "/metrics")
	body := rec.Body.String()
	ts.Contains(body, `maint_requests_active{kind="ban"} 0`)
	ts.Contains(body, `maint_requests_active{kind="decommission"} 0`)
	ts.Contains(body, `maint_requests_removed_total{kind="ban"} 3`)

	// Gone after a restart, too.
	log, _ := test.NewNullLogger()
	rost := roster.New(nil, "node", ts.pers, ts.clock, log)
	ts.Require().NoError(rost.Load())
	_, err = rost.NodeByIdent("n1")
	ts.Equal(roster.ErrNodeNotFound{NodeID: "n1"}, err)
}

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{nil, codes.OK},
		{&acl.AccessDeniedError{User: "u", NodeID: "n1"}, codes.PermissionDenied},
		{&DeprecatedError{Attribute: "banned"}, codes.FailedPrecondition},
		{roster.ErrNodeNotFound{NodeID: "n1"}, codes.NotFound},
		{fmt.Errorf("wrapped: %w", roster.ErrHostNotFound{Host: "h1"}), codes.NotFound},
		{roster.ErrHostNotEmpty{Host: "h1", Nodes: 1}, codes.FailedPrecondition},
		{fmt.Errorf("adding: %w", maintenance.ErrDestroyed), codes.NotFound},
		{api.InvalidArgument("bad"), codes.InvalidArgument},
		{context.Canceled, codes.Canceled},
		{errors.New("boom"), codes.Internal},
	}

	for _, tt := range tests {
		if got := Code(tt.err); got != tt.want {
			t.Errorf("Code(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
