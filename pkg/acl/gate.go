package acl

import (
	"fmt"

	"github.com/adammck/maint/pkg/api"
	"github.com/sirupsen/logrus"
)

// Checker answers whether a user may write to a node. An error means the
// answer is unknown, which the Gate treats as no.
type Checker interface {
	HasWritePermission(user string, nID api.NodeID) (bool, error)
}

// AccessDeniedError is returned when a user lacks write permission on a node.
type AccessDeniedError struct {
	User   string
	NodeID api.NodeID
}

func (e *AccessDeniedError) Error() string {
	if e.NodeID == api.ZeroNodeID {
		return fmt.Sprintf("Access denied for user %q: superuser required", e.User)
	}
	return fmt.Sprintf("Access denied for user %q: \"write\" permission for cluster node %q is not allowed", e.User, e.NodeID)
}

// Gate checks write permission before any maintenance mutation. Superusers
// always pass, without consulting the checker.
type Gate struct {
	checker    Checker
	superusers map[string]struct{}
	log        logrus.FieldLogger
}

func NewGate(checker Checker, superusers []string, log logrus.FieldLogger) *Gate {
	su := make(map[string]struct{}, len(superusers))
	for _, u := range superusers {
		su[u] = struct{}{}
	}

	return &Gate{
		checker:    checker,
		superusers: su,
		log:        log,
	}
}

func (g *Gate) IsSuperuser(user string) bool {
	_, ok := g.superusers[user]
	return ok
}

// Authorize returns nil if user may write to the node, or an
// *AccessDeniedError if not.
func (g *Gate) Authorize(user string, nID api.NodeID) error {
	if g.IsSuperuser(user) {
		return nil
	}

	ok, err := g.checker.HasWritePermission(user, nID)
	if err != nil {
		g.log.WithError(err).WithFields(logrus.Fields{
			"user": user,
			"node": nID,
		}).Warn("permission check failed; denying")
		ok = false
	}

	if !ok {
		return &AccessDeniedError{User: user, NodeID: nID}
	}

	return nil
}
