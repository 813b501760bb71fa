package api

// Filter selects which requests RemoveMaintenance should delete.
//
// All matches everything, and can't be combined with anything else. Mine and
// IDs can be combined, in which case a request must match both. A filter which
// selects nothing at all is invalid, rather than a no-op, to avoid surprises.
type Filter struct {
	All  bool
	Mine bool
	IDs  []RequestID
}

// IDFilter is shorthand for a filter which matches a single request.
func IDFilter(id RequestID) Filter {
	return Filter{IDs: []RequestID{id}}
}

func (f Filter) Validate() error {
	if f.All && (f.Mine || len(f.IDs) > 0) {
		return InvalidArgument("filter: all can't be combined with mine or ids")
	}

	if !f.All && !f.Mine && len(f.IDs) == 0 {
		return InvalidArgument("filter: one of all, mine, id or ids is required")
	}

	return nil
}

// Predicate returns a func which returns true for requests which match the
// filter, when the caller is the given user. The filter must be valid.
func (f Filter) Predicate(user string) func(Request) bool {
	if f.All {
		return func(Request) bool { return true }
	}

	var ids map[RequestID]struct{}
	if len(f.IDs) > 0 {
		ids = make(map[RequestID]struct{}, len(f.IDs))
		for _, id := range f.IDs {
			ids[id] = struct{}{}
		}
	}

	return func(r Request) bool {
		if f.Mine && r.User != user {
			return false
		}

		if ids != nil {
			if _, ok := ids[r.ID]; !ok {
				return false
			}
		}

		return true
	}
}
