package api

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is how request timestamps are rendered: ISO-8601, always
// UTC, with microseconds and a literal Z.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// RequestID is the unique identity of a maintenance request. IDs are UUIDv7,
// so they sort roughly by creation time, and are never reused.
type RequestID uuid.UUID

// ZeroRequestID is returned by operations which don't create exactly one
// request, like host-level AddMaintenance.
var ZeroRequestID RequestID

func NewRequestID() (RequestID, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return ZeroRequestID, err
	}

	return RequestID(u), nil
}

func ParseRequestID(s string) (RequestID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ZeroRequestID, InvalidArgument("invalid request id %q: %v", s, err)
	}

	return RequestID(u), nil
}

func (id RequestID) String() string {
	return uuid.UUID(id).String()
}

func (id RequestID) IsZero() bool {
	return id == ZeroRequestID
}

// Less orders request IDs bytewise.
func (id RequestID) Less(other RequestID) bool {
	return bytes.Compare(id[:], other[:]) < 0
}

func (id RequestID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *RequestID) UnmarshalText(b []byte) error {
	rID, err := ParseRequestID(string(b))
	if err != nil {
		return err
	}

	*id = rID
	return nil
}

// Request is a single maintenance request on a single node. Requests are
// immutable; the only thing which can happen to one is deletion.
type Request struct {
	ID        RequestID
	Kind      Kind
	Comment   string
	User      string
	Timestamp time.Time
}

// SortRequests sorts the given requests by ID, in place.
func SortRequests(reqs []Request) {
	sort.Slice(reqs, func(i, j int) bool {
		return reqs[i].ID.Less(reqs[j].ID)
	})
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}
