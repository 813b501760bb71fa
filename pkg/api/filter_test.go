package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustID(t *testing.T) RequestID {
	id, err := NewRequestID()
	require.NoError(t, err)
	return id
}

func TestFilterValidate(t *testing.T) {
	id := mustID(t)

	examples := []struct {
		name  string
		input Filter
		valid bool
	}{
		{"empty", Filter{}, false},
		{"all", Filter{All: true}, true},
		{"mine", Filter{Mine: true}, true},
		{"ids", Filter{IDs: []RequestID{id}}, true},
		{"mine and ids", Filter{Mine: true, IDs: []RequestID{id}}, true},
		{"all and mine", Filter{All: true, Mine: true}, false},
		{"all and ids", Filter{All: true, IDs: []RequestID{id}}, false},
	}

	for _, ex := range examples {
		t.Run(ex.name, func(t *testing.T) {
			err := ex.input.Validate()
			if ex.valid {
				assert.NoError(t, err)
			} else {
				var iae *InvalidArgumentError
				assert.ErrorAs(t, err, &iae)
			}
		})
	}
}

func TestFilterPredicate(t *testing.T) {
	now := time.Now()
	a := Request{ID: mustID(t), Kind: Ban, User: "u1", Timestamp: now}
	b := Request{ID: mustID(t), Kind: Ban, User: "u2", Timestamp: now}
	c := Request{ID: mustID(t), Kind: Decommission, User: "u1", Timestamp: now}

	match := func(f Filter, user string) []RequestID {
		p := f.Predicate(user)
		out := []RequestID{}
		for _, r := range []Request{a, b, c} {
			if p(r) {
				out = append(out, r.ID)
			}
		}
		return out
	}

	assert.Equal(t, []RequestID{a.ID, b.ID, c.ID}, match(Filter{All: true}, "u1"))
	assert.Equal(t, []RequestID{a.ID, c.ID}, match(Filter{Mine: true}, "u1"))
	assert.Equal(t, []RequestID{b.ID}, match(Filter{IDs: []RequestID{b.ID}}, "u1"))

	// Intersection: b is listed, but isn't mine.
	assert.Equal(t, []RequestID{a.ID}, match(Filter{Mine: true, IDs: []RequestID{a.ID, b.ID}}, "u1"))
}

func TestRequestIDs(t *testing.T) {
	seen := map[RequestID]struct{}{}
	for i := 0; i < 1000; i++ {
		id := mustID(t)
		_, dupe := seen[id]
		require.False(t, dupe)
		seen[id] = struct{}{}
	}

	id := mustID(t)
	parsed, err := ParseRequestID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseRequestID("0-0-0-0")
	assert.Error(t, err)

	assert.True(t, ZeroRequestID.IsZero())
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", ZeroRequestID.String())
}

func TestTimestampFormat(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 1500, time.FixedZone("X", 3600))
	assert.Equal(t, "2023-12-31T23:00:00.000001Z", FormatTimestamp(ts))

	parsed, err := ParseTimestamp("2024-01-01T00:00:00.000000Z")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCounts(t *testing.T) {
	c := Counts{}
	c.Add(Counts{Ban: 1})
	c.Add(Counts{Ban: 2, Decommission: 0})
	assert.Equal(t, Counts{Ban: 3}, c)
	assert.Equal(t, 3, c.Total())
	assert.Equal(t, map[string]int{"ban": 3}, c.ByName())

	back, err := CountsFromNames(map[string]int{"ban": 3})
	require.NoError(t, err)
	assert.Equal(t, c, back)

	_, err = CountsFromNames(map[string]int{"nope": 1})
	assert.Error(t, err)
}
