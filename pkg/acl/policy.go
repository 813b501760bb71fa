package acl

import (
	"fmt"

	"github.com/adammck/maint/pkg/api"
)

type Action string

const (
	Allow Action = "allow"
	Deny  Action = "deny"
)

// Permission is what a subject may do to a node. Maintenance mutations need
// write; reads aren't checked.
type Permission string

const (
	Read  Permission = "read"
	Write Permission = "write"
)

// Everyone is the subject which matches every user.
const Everyone = "everyone"

// ACE is a single access control entry.
type ACE struct {
	Action      Action       `json:"action" yaml:"action"`
	Subjects    []string     `json:"subjects" yaml:"subjects"`
	Permissions []Permission `json:"permissions" yaml:"permissions"`

	// Nodes which this entry applies to. Empty means every node.
	Nodes []api.NodeID `json:"nodes,omitempty" yaml:"nodes,omitempty"`
}

func (ace *ACE) matches(user string, nID api.NodeID, perm Permission) bool {
	return containsSubject(ace.Subjects, user) &&
		contains(ace.Permissions, perm) &&
		(len(ace.Nodes) == 0 || contains(ace.Nodes, nID))
}

func containsSubject(subjects []string, user string) bool {
	for _, s := range subjects {
		if s == user || s == Everyone {
			return true
		}
	}
	return false
}

func contains[T comparable](xs []T, x T) bool {
	for _, y := range xs {
		if y == x {
			return true
		}
	}
	return false
}

// Policy is the ACL of the cluster_node object. Entries are evaluated in order,
// but a matching deny always wins over a matching allow. If nothing matches,
// DefaultAction applies.
type Policy struct {
	DefaultAction Action `json:"default_action,omitempty" yaml:"default_action"`
	ACEs          []ACE  `json:"acl" yaml:"acl"`
}

func (p *Policy) Validate() error {
	switch p.DefaultAction {
	case "", Allow, Deny:
	default:
		return fmt.Errorf("invalid default action: %q", p.DefaultAction)
	}

	for i, ace := range p.ACEs {
		if ace.Action != Allow && ace.Action != Deny {
			return fmt.Errorf("ace %d: invalid action: %q", i, ace.Action)
		}
		for _, perm := range ace.Permissions {
			if perm != Read && perm != Write {
				return fmt.Errorf("ace %d: invalid permission: %q", i, perm)
			}
		}
	}

	return nil
}

// Check returns whether user has perm on the given node.
func (p *Policy) Check(user string, nID api.NodeID, perm Permission) bool {
	matched := false

	for i := range p.ACEs {
		ace := &p.ACEs[i]
		if !ace.matches(user, nID, perm) {
			continue
		}

		if ace.Action == Deny {
			return false
		}

		matched = true
	}

	if matched {
		return true
	}

	return p.DefaultAction != Deny
}

// HasWritePermission implements Checker.
func (p *Policy) HasWritePermission(user string, nID api.NodeID) (bool, error) {
	return p.Check(user, nID, Write), nil
}
