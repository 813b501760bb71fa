package api

// Flags are the legacy boolean attributes of a node. They're derived from the
// node's maintenance requests, and are never stored on their own.
type Flags struct {
	Banned               bool
	Decommissioned       bool
	DisableWriteSessions bool
	DisableSchedulerJobs bool
	DisableTabletCells   bool
}

// Get returns the flag for the given kind.
func (f Flags) Get(k Kind) bool {
	switch k {
	case Ban:
		return f.Banned
	case Decommission:
		return f.Decommissioned
	case DisableWriteSessions:
		return f.DisableWriteSessions
	case DisableSchedulerJobs:
		return f.DisableSchedulerJobs
	case DisableTabletCells:
		return f.DisableTabletCells
	}

	return false
}

// Set sets the flag for the given kind. Unknown kinds are ignored.
func (f *Flags) Set(k Kind, v bool) {
	switch k {
	case Ban:
		f.Banned = v
	case Decommission:
		f.Decommissioned = v
	case DisableWriteSessions:
		f.DisableWriteSessions = v
	case DisableSchedulerJobs:
		f.DisableSchedulerJobs = v
	case DisableTabletCells:
		f.DisableTabletCells = v
	}
}

// Any returns true if any flag is set.
func (f Flags) Any() bool {
	return f != Flags{}
}
