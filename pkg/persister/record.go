package persister

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/adammck/maint/pkg/api"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultPrefix is the key prefix which requests are stored under, unless
// configured otherwise.
const DefaultPrefix = "maintenance"

// record is how a request is encoded in storage. The node ID isn't included;
// it's part of the key.
type record struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Comment   string `json:"comment"`
	User      string `json:"user"`
	Timestamp string `json:"timestamp"`
}

func EncodeRequest(r api.Request) ([]byte, error) {
	return json.Marshal(record{
		ID:        r.ID.String(),
		Kind:      r.Kind.String(),
		Comment:   r.Comment,
		User:      r.User,
		Timestamp: api.FormatTimestamp(r.Timestamp),
	})
}

func DecodeRequest(b []byte) (api.Request, error) {
	rec := record{}
	err := json.Unmarshal(b, &rec)
	if err != nil {
		return api.Request{}, err
	}

	id, err := api.ParseRequestID(rec.ID)
	if err != nil {
		return api.Request{}, err
	}

	k, err := api.ParseKind(rec.Kind)
	if err != nil {
		return api.Request{}, err
	}

	ts, err := api.ParseTimestamp(rec.Timestamp)
	if err != nil {
		return api.Request{}, fmt.Errorf("invalid timestamp %q: %w", rec.Timestamp, err)
	}

	return api.Request{
		ID:        id,
		Kind:      k,
		Comment:   rec.Comment,
		User:      rec.User,
		Timestamp: ts,
	}, nil
}

// NodeKey returns the key prefix under which all requests of a node are
// stored, including the trailing slash. Node IDs are escaped, since they're
// usually host:port and may contain anything.
func NodeKey(prefix string, nID api.NodeID) string {
	return fmt.Sprintf("%s/%s/", prefix, url.PathEscape(nID.String()))
}

func RequestKey(prefix string, nID api.NodeID, id api.RequestID) string {
	return NodeKey(prefix, nID) + id.String()
}

// ParseKey is the inverse of RequestKey. It returns the node ID that the key
// belongs to, and the request ID.
func ParseKey(prefix, key string) (api.NodeID, api.RequestID, error) {
	rest := strings.TrimPrefix(key, prefix+"/")
	if rest == key {
		return api.ZeroNodeID, api.ZeroRequestID, fmt.Errorf("key not under prefix %q: %s", prefix, key)
	}

	s := strings.SplitN(rest, "/", 2)
	if len(s) != 2 {
		return api.ZeroNodeID, api.ZeroRequestID, fmt.Errorf("invalid key: %s", key)
	}

	n, err := url.PathUnescape(s[0])
	if err != nil {
		return api.ZeroNodeID, api.ZeroRequestID, fmt.Errorf("invalid node in key %s: %w", key, err)
	}

	id, err := api.ParseRequestID(s[1])
	if err != nil {
		return api.ZeroNodeID, api.ZeroRequestID, err
	}

	return api.NodeID(n), id, nil
}

// Decode checks that a stored value matches the key it was stored under, and
// returns the node and request. Mismatches are an error, since they probably
// mean that something other than us wrote to our prefix.
func Decode(prefix, key string, value []byte) (api.NodeID, api.Request, error) {
	nID, id, err := ParseKey(prefix, key)
	if err != nil {
		return api.ZeroNodeID, api.Request{}, err
	}

	r, err := DecodeRequest(value)
	if err != nil {
		return api.ZeroNodeID, api.Request{}, fmt.Errorf("invalid value at %s: %w", key, err)
	}

	if r.ID != id {
		return api.ZeroNodeID, api.Request{}, fmt.Errorf("mismatch between key and encoded request: key=%s, id=%s", key, r.ID)
	}

	return nID, r, nil
}
