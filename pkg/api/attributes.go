package api

// Names of the non-flag node attributes.
const (
	AttrMaintenanceRequests = "maintenance_requests"
	AttrHost                = "host"
)

// RequestAttributes is how a single request is presented in the
// maintenance_requests attribute of a node.
type RequestAttributes struct {
	Type      string `json:"type"`
	User      string `json:"user"`
	Comment   string `json:"comment"`
	Timestamp string `json:"timestamp"`
}

// NodeAttributes is the read view of the maintenance state of one node.
type NodeAttributes struct {
	ID                   string                       `json:"id"`
	Host                 string                       `json:"host"`
	MaintenanceRequests  map[string]RequestAttributes `json:"maintenance_requests"`
	Banned               bool                         `json:"banned"`
	Decommissioned       bool                         `json:"decommissioned"`
	DisableWriteSessions bool                         `json:"disable_write_sessions"`
	DisableSchedulerJobs bool                         `json:"disable_scheduler_jobs"`
	DisableTabletCells   bool                         `json:"disable_tablet_cells"`
}

func NewRequestAttributes(r Request) RequestAttributes {
	return RequestAttributes{
		Type:      r.Kind.String(),
		User:      r.User,
		Comment:   r.Comment,
		Timestamp: FormatTimestamp(r.Timestamp),
	}
}

// NewNodeAttributes builds the read view from a consistent snapshot of the
// requests and flags of a node.
func NewNodeAttributes(nID NodeID, host string, reqs []Request, flags Flags) NodeAttributes {
	m := make(map[string]RequestAttributes, len(reqs))
	for _, r := range reqs {
		m[r.ID.String()] = NewRequestAttributes(r)
	}

	return NodeAttributes{
		ID:                   nID.String(),
		Host:                 host,
		MaintenanceRequests:  m,
		Banned:               flags.Banned,
		Decommissioned:       flags.Decommissioned,
		DisableWriteSessions: flags.DisableWriteSessions,
		DisableSchedulerJobs: flags.DisableSchedulerJobs,
		DisableTabletCells:   flags.DisableTabletCells,
	}
}

// Get returns a single attribute by name.
func (a NodeAttributes) Get(name string) (interface{}, error) {
	switch name {
	case AttrMaintenanceRequests:
		return a.MaintenanceRequests, nil
	case AttrHost:
		return a.Host, nil
	}

	k, err := KindFromFlag(name)
	if err != nil {
		return nil, err
	}

	return a.Flags().Get(k), nil
}

func (a NodeAttributes) Flags() Flags {
	return Flags{
		Banned:               a.Banned,
		Decommissioned:       a.Decommissioned,
		DisableWriteSessions: a.DisableWriteSessions,
		DisableSchedulerJobs: a.DisableSchedulerJobs,
		DisableTabletCells:   a.DisableTabletCells,
	}
}
