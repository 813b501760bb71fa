package consul

import (
	"fmt"

	"github.com/adammck/maint/pkg/acl"
	"github.com/adammck/maint/pkg/api"
	capi "github.com/hashicorp/consul/api"
	jsoniter "github.com/json-iterator/go"
)

// DefaultKey is where the cluster_node policy lives in the KV store.
const DefaultKey = "acl/cluster_node"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Source reads the policy from Consul on every check, so edits to the ACL
// apply to the very next request.
type Source struct {
	kv  *capi.KV
	key string

	// Used when the key is missing, or the stored policy has no default.
	def acl.Action
}

func New(client *capi.Client, key string, def acl.Action) *Source {
	return &Source{
		kv:  client.KV(),
		key: key,
		def: def,
	}
}

// Policy fetches and decodes the current policy.
func (s *Source) Policy() (*acl.Policy, error) {
	kv, _, err := s.kv.Get(s.key, nil)
	if err != nil {
		return nil, err
	}

	p := &acl.Policy{}
	if kv != nil {
		if err := json.Unmarshal(kv.Value, p); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", s.key, err)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("validating %s: %w", s.key, err)
		}
	}

	if p.DefaultAction == "" {
		p.DefaultAction = s.def
	}

	return p, nil
}

func (s *Source) HasWritePermission(user string, nID api.NodeID) (bool, error) {
	p, err := s.Policy()
	if err != nil {
		return false, err
	}

	return p.Check(user, nID, acl.Write), nil
}
