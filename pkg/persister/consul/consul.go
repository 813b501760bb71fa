package consul

import (
	"fmt"

	"github.com/adammck/maint/pkg/api"
	"github.com/adammck/maint/pkg/persister"
	capi "github.com/hashicorp/consul/api"
	"github.com/sirupsen/logrus"
)

// Persister stores each request as its own key in the Consul KV store, under
// <prefix>/<node>/<request id>.
type Persister struct {
	kv     *capi.KV
	prefix string
	log    logrus.FieldLogger
}

func New(client *capi.Client, prefix string, log logrus.FieldLogger) *Persister {
	if prefix == "" {
		prefix = persister.DefaultPrefix
	}

	return &Persister{
		kv:     client.KV(),
		prefix: prefix,
		log:    log.WithField("persister", "consul"),
	}
}

func (cp *Persister) GetRequests() (map[api.NodeID][]api.Request, error) {
	pairs, _, err := cp.kv.List(cp.prefix+"/", nil)
	if err != nil {
		return nil, err
	}

	out := map[api.NodeID][]api.Request{}

	for _, kv := range pairs {
		nID, r, err := persister.Decode(cp.prefix, kv.Key, kv.Value)
		if err != nil {
			// Skip rather than fail, so one bad key can't stop startup.
			cp.log.WithError(err).Warnf("invalid Consul key: %s", kv.Key)
			continue
		}

		out[nID] = append(out[nID], r)
	}

	return out, nil
}

func (cp *Persister) PutRequest(nID api.NodeID, r api.Request) error {
	v, err := persister.EncodeRequest(r)
	if err != nil {
		return err
	}

	// ModifyIndex zero means only write if the key doesn't exist yet. Request
	// IDs are never reused, so this should always succeed.
	key := persister.RequestKey(cp.prefix, nID, r.ID)
	ok, _, err := cp.kv.CAS(&capi.KVPair{Key: key, Value: v, ModifyIndex: 0}, nil)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("request already exists: %s", key)
	}

	return nil
}

func (cp *Persister) DeleteRequest(nID api.NodeID, id api.RequestID) error {
	_, err := cp.kv.Delete(persister.RequestKey(cp.prefix, nID, id), nil)
	return err
}

func (cp *Persister) DeleteNode(nID api.NodeID) error {
	_, err := cp.kv.DeleteTree(persister.NodeKey(cp.prefix, nID), nil)
	return err
}
