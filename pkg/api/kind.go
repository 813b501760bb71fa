package api

// Kind is the purpose of a maintenance request, i.e. what the node is being
// made unavailable for.
type Kind uint8

const (
	KindUnknown Kind = iota
	Ban
	Decommission
	DisableWriteSessions
	DisableSchedulerJobs
	DisableTabletCells
)

// Kinds is every valid kind, in a stable order.
var Kinds = []Kind{
	Ban,
	Decommission,
	DisableWriteSessions,
	DisableSchedulerJobs,
	DisableTabletCells,
}

var kindNames = map[Kind]string{
	Ban:                  "ban",
	Decommission:         "decommission",
	DisableWriteSessions: "disable_write_sessions",
	DisableSchedulerJobs: "disable_scheduler_jobs",
	DisableTabletCells:   "disable_tablet_cells",
}

// Names of the legacy boolean attributes, which are derived from the requests.
var kindFlags = map[Kind]string{
	Ban:                  "banned",
	Decommission:         "decommissioned",
	DisableWriteSessions: "disable_write_sessions",
	DisableSchedulerJobs: "disable_scheduler_jobs",
	DisableTabletCells:   "disable_tablet_cells",
}

func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return "unknown"
}

// Flag returns the name of the boolean attribute derived from this kind.
func (k Kind) Flag() string {
	return kindFlags[k]
}

// ParseKind returns the Kind with the given name, e.g. "ban".
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}

	return KindUnknown, InvalidArgument("unknown maintenance kind: %q", s)
}

// KindFromFlag returns the Kind which the given boolean attribute (e.g.
// "banned") is derived from.
func KindFromFlag(attr string) (Kind, error) {
	for k, name := range kindFlags {
		if name == attr {
			return k, nil
		}
	}

	return KindUnknown, InvalidArgument("unknown maintenance attribute: %q", attr)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, InvalidArgument("unknown maintenance kind: %d", uint8(k))
	}

	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	kk, err := ParseKind(string(b))
	if err != nil {
		return err
	}

	*k = kk
	return nil
}
