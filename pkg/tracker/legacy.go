package tracker

import (
	"context"
	"fmt"

	"github.com/adammck/maint/pkg/api"
	"github.com/adammck/maint/pkg/maintenance"
	"github.com/sirupsen/logrus"
)

// SetAttribute writes one of the legacy flag attributes (e.g. "banned") of a
// node. See SetFlag.
func (t *Tracker) SetAttribute(ctx context.Context, nID api.NodeID, attr string, value bool, user string) error {
	k, err := api.KindFromFlag(attr)
	if err != nil {
		return err
	}

	return t.SetFlag(ctx, nID, k, value, user)
}

// SetFlag sets the legacy flag of the given kind on a single node. Setting it
// to true replaces every request of that kind with a single new one by the
// user, with no comment. Setting it to false removes every request of that
// kind, by anyone. Both fail with DeprecatedError while legacy writes are
// forbidden.
func (t *Tracker) SetFlag(ctx context.Context, nID api.NodeID, k api.Kind, value bool, user string) error {
	if !k.Valid() {
		return api.InvalidArgument("unknown maintenance kind: %d", uint8(k))
	}

	if t.forbidLegacy.Load() {
		return &DeprecatedError{Attribute: k.Flag()}
	}

	user = t.user(user)

	n, err := t.node(nID, user)
	if err != nil {
		return err
	}

	f := logrus.Fields{
		"node":  nID,
		"user":  user,
		"attr":  k.Flag(),
		"value": value,
	}

	if value {
		r, c, err := n.Maintenance.Replace(k, "", user)
		t.met.ObserveRemove(c)
		if err != nil {
			return fmt.Errorf("setting %s on %s: %w", k.Flag(), nID, err)
		}

		t.met.ObserveAdd(k)
		f["id"] = r.ID
		f["removed"] = c.Total()
		t.log.WithFields(f).Info("set legacy attribute")

		return nil
	}

	c, err := n.Maintenance.Remove(maintenance.OfKind(k))
	t.met.ObserveRemove(c)
	if err != nil {
		return fmt.Errorf("clearing %s on %s: %w", k.Flag(), nID, err)
	}

	f["removed"] = c.Total()
	t.log.WithFields(f).Info("set legacy attribute")

	return nil
}
