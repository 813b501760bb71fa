package bunt

import (
	"errors"
	"fmt"

	"github.com/adammck/maint/pkg/api"
	"github.com/adammck/maint/pkg/persister"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/buntdb"
)

// Persister stores requests in a local buntdb file. It's meant for single
// instance deployments which don't run Consul. Pass ":memory:" as the path for
// a throwaway store.
type Persister struct {
	db     *buntdb.DB
	prefix string
	log    logrus.FieldLogger
}

func Open(path, prefix string, log logrus.FieldLogger) (*Persister, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening buntdb at %s: %w", path, err)
	}

	// Every write is a maintenance request which somebody is relying on, so
	// don't lose any of them to a crash.
	err = db.SetConfig(buntdb.Config{
		SyncPolicy:           buntdb.Always,
		AutoShrinkPercentage: 100,
		AutoShrinkMinSize:    32 * 1024 * 1024,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	if prefix == "" {
		prefix = persister.DefaultPrefix
	}

	return &Persister{
		db:     db,
		prefix: prefix,
		log:    log.WithField("persister", "bunt"),
	}, nil
}

func (bp *Persister) Close() error {
	return bp.db.Close()
}

func (bp *Persister) GetRequests() (map[api.NodeID][]api.Request, error) {
	out := map[api.NodeID][]api.Request{}

	err := bp.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(bp.prefix+"/*", func(key, value string) bool {
			nID, r, err := persister.Decode(bp.prefix, key, []byte(value))
			if err != nil {
				bp.log.WithError(err).Warnf("invalid buntdb key: %s", key)
				return true
			}

			out[nID] = append(out[nID], r)
			return true
		})
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (bp *Persister) PutRequest(nID api.NodeID, r api.Request) error {
	v, err := persister.EncodeRequest(r)
	if err != nil {
		return err
	}

	key := persister.RequestKey(bp.prefix, nID, r.ID)

	return bp.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Get(key)
		if err == nil {
			return fmt.Errorf("request already exists: %s", key)
		}
		if !errors.Is(err, buntdb.ErrNotFound) {
			return err
		}

		_, _, err = tx.Set(key, string(v), nil)
		return err
	})
}

func (bp *Persister) DeleteRequest(nID api.NodeID, id api.RequestID) error {
	return bp.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(persister.RequestKey(bp.prefix, nID, id))
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil
		}
		return err
	})
}

func (bp *Persister) DeleteNode(nID api.NodeID) error {
	return bp.db.Update(func(tx *buntdb.Tx) error {
		keys := []string{}

		// Can't delete while iterating.
		err := tx.AscendKeys(persister.NodeKey(bp.prefix, nID)+"*", func(key, _ string) bool {
			keys = append(keys, key)
			return true
		})
		if err != nil {
			return err
		}

		for _, k := range keys {
			_, err := tx.Delete(k)
			if err != nil && !errors.Is(err, buntdb.ErrNotFound) {
				return err
			}
		}

		return nil
	})
}
