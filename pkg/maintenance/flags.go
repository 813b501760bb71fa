package maintenance

import "github.com/adammck/maint/pkg/api"

// DeriveFlags returns the legacy boolean attributes for the given set of
// requests: each flag is true iff at least one request of its kind exists.
func DeriveFlags(reqs []api.Request) api.Flags {
	f := api.Flags{}
	for _, r := range reqs {
		f.Set(r.Kind, true)
	}
	return f
}

// OfKind returns a predicate matching every request of the given kind.
func OfKind(k api.Kind) func(api.Request) bool {
	return func(r api.Request) bool {
		return r.Kind == k
	}
}
