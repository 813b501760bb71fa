package rpc

import "github.com/adammck/maint/pkg/api"

type AddMaintenanceRequest struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Kind       string `json:"kind"`
	Comment    string `json:"comment,omitempty"`
}

type AddMaintenanceResponse struct {
	// The zero id when the target was a host.
	ID string `json:"id"`
}

// RemoveMaintenanceRequest selects which requests to remove. ID is shorthand
// for a single-element IDs. Mine and IDs compose; All excludes both.
type RemoveMaintenanceRequest struct {
	TargetType string   `json:"target_type"`
	TargetID   string   `json:"target_id"`
	ID         string   `json:"id,omitempty"`
	IDs        []string `json:"ids,omitempty"`
	Mine       bool     `json:"mine,omitempty"`
	All        bool     `json:"all,omitempty"`
}

type RemoveMaintenanceResponse struct {
	// Kind name to number removed. Kinds with nothing removed are omitted.
	Removed map[string]int `json:"removed"`
}

type GetAttributesRequest struct {
	Node string `json:"node"`
}

type GetAttributesResponse struct {
	Attributes api.NodeAttributes `json:"attributes"`
}

type SetAttributeRequest struct {
	Node      string `json:"node"`
	Attribute string `json:"attribute"`
	Value     bool   `json:"value"`
}

type SetAttributeResponse struct{}

type SetForbidLegacyWritesRequest struct {
	Value bool `json:"value"`
}

type SetForbidLegacyWritesResponse struct{}

type ListNodesRequest struct {
	// Only nodes on this host, if set.
	Host string `json:"host,omitempty"`
}

type ListNodesResponse struct {
	Nodes []api.NodeAttributes `json:"nodes"`
}

type CreateHostRequest struct {
	Host string `json:"host"`
}

type CreateHostResponse struct{}

type RemoveHostRequest struct {
	Host string `json:"host"`
}

type RemoveHostResponse struct{}

type SetHostRequest struct {
	Node string `json:"node"`

	// Empty to take the node off any host.
	Host string `json:"host"`
}

type SetHostResponse struct {
	Previous string `json:"previous"`
}

type RemoveNodeRequest struct {
	Node string `json:"node"`
}

type RemoveNodeResponse struct {
	// Kind name to number of requests destroyed with the node.
	Removed map[string]int `json:"removed"`
}
