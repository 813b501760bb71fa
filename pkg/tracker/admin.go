package tracker

import (
	"github.com/adammck/maint/pkg/acl"
	"github.com/adammck/maint/pkg/api"
	"github.com/sirupsen/logrus"
)

// superuser returns the effective user, or an error if it isn't a superuser.
func (t *Tracker) superuser(user string) (string, error) {
	user = t.user(user)
	if !t.gate.IsSuperuser(user) {
		t.met.ObserveDenied()
		return user, &acl.AccessDeniedError{User: user}
	}

	return user, nil
}

// CreateHost registers a host with no nodes on it, so that it can be targeted
// before any nodes are discovered there.
func (t *Tracker) CreateHost(host, user string) error {
	user, err := t.superuser(user)
	if err != nil {
		return err
	}

	if err := t.rost.CreateHost(host); err != nil {
		return err
	}

	t.log.WithFields(logrus.Fields{"host": host, "user": user}).Info("created host")
	return nil
}

// RemoveHost unregisters a host. Fails while any node is still on it.
func (t *Tracker) RemoveHost(host, user string) error {
	user, err := t.superuser(user)
	if err != nil {
		return err
	}

	if err := t.rost.RemoveHost(host); err != nil {
		return err
	}

	t.log.WithFields(logrus.Fields{"host": host, "user": user}).Info("removed host")
	return nil
}

// SetHost moves a node to a different host, and returns the previous one. The
// node's requests move with it.
func (t *Tracker) SetHost(nID api.NodeID, host, user string) (string, error) {
	user, err := t.superuser(user)
	if err != nil {
		return "", err
	}

	prev, err := t.rost.SetHost(nID, host)
	if err != nil {
		return "", err
	}

	t.log.WithFields(logrus.Fields{
		"node": nID,
		"host": host,
		"prev": prev,
		"user": user,
	}).Info("set host")

	return prev, nil
}

// RemoveNode forgets a node, and destroys all of its requests. It returns how
// many of each kind were destroyed.
func (t *Tracker) RemoveNode(nID api.NodeID, user string) (api.Counts, error) {
	user, err := t.superuser(user)
	if err != nil {
		return nil, err
	}

	n, err := t.rost.NodeByIdent(nID)
	if err != nil {
		return nil, err
	}

	f := logrus.Fields{
		"node": nID,
		"host": n.Host(),
		"user": user,
	}
	if ls := n.LastSeen(); !ls.IsZero() {
		f["last_seen"] = ls
	}

	c, err := t.rost.Remove(nID)
	if err != nil {
		return nil, err
	}

	t.met.ObserveRemove(c)
	f["removed"] = c.ByName()
	t.log.WithFields(f).Info("removed node")

	return c, nil
}
