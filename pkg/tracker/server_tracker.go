package tracker

import (
	"context"

	"github.com/adammck/maint/pkg/api"
	"github.com/adammck/maint/pkg/rpc"
	"google.golang.org/grpc"
)

type trackerServer struct {
	t *Tracker
}

// Register adds the maintenance service to a gRPC server.
func (t *Tracker) Register(srv grpc.ServiceRegistrar) {
	rpc.RegisterMaintenanceServer(srv, &trackerServer{t: t})
}

func target(typ, id string) (api.Target, error) {
	tt, err := api.ParseTargetType(typ)
	if err != nil {
		return api.Target{}, err
	}

	if id == "" {
		return api.Target{}, api.InvalidArgument("missing: target_id")
	}

	return api.Target{Type: tt, ID: id}, nil
}

func filter(req *rpc.RemoveMaintenanceRequest) (api.Filter, error) {
	f := api.Filter{
		All:  req.All,
		Mine: req.Mine,
	}

	ids := req.IDs
	if req.ID != "" {
		ids = append([]string{req.ID}, ids...)
	}

	for _, s := range ids {
		id, err := api.ParseRequestID(s)
		if err != nil {
			return api.Filter{}, err
		}
		f.IDs = append(f.IDs, id)
	}

	return f, nil
}

func (ts *trackerServer) AddMaintenance(ctx context.Context, req *rpc.AddMaintenanceRequest) (*rpc.AddMaintenanceResponse, error) {
	tgt, err := target(req.TargetType, req.TargetID)
	if err != nil {
		return nil, toStatus(err)
	}

	k, err := api.ParseKind(req.Kind)
	if err != nil {
		return nil, toStatus(err)
	}

	id, err := ts.t.AddMaintenance(ctx, tgt, k, req.Comment, rpc.UserFromContext(ctx))
	if err != nil {
		return nil, toStatus(err)
	}

	return &rpc.AddMaintenanceResponse{ID: id.String()}, nil
}

func (ts *trackerServer) RemoveMaintenance(ctx context.Context, req *rpc.RemoveMaintenanceRequest) (*rpc.RemoveMaintenanceResponse, error) {
	tgt, err := target(req.TargetType, req.TargetID)
	if err != nil {
		return nil, toStatus(err)
	}

	f, err := filter(req)
	if err != nil {
		return nil, toStatus(err)
	}

	c, err := ts.t.RemoveMaintenance(ctx, tgt, f, rpc.UserFromContext(ctx))
	if err != nil {
		return nil, toStatus(err)
	}

	return &rpc.RemoveMaintenanceResponse{Removed: c.ByName()}, nil
}

func (ts *trackerServer) GetAttributes(ctx context.Context, req *rpc.GetAttributesRequest) (*rpc.GetAttributesResponse, error) {
	if req.Node == "" {
		return nil, toStatus(api.InvalidArgument("missing: node"))
	}

	attrs, err := ts.t.Attributes(api.NodeID(req.Node))
	if err != nil {
		return nil, toStatus(err)
	}

	return &rpc.GetAttributesResponse{Attributes: attrs}, nil
}

func (ts *trackerServer) SetAttribute(ctx context.Context, req *rpc.SetAttributeRequest) (*rpc.SetAttributeResponse, error) {
	err := ts.t.SetAttribute(ctx, api.NodeID(req.Node), req.Attribute, req.Value, rpc.UserFromContext(ctx))
	if err != nil {
		return nil, toStatus(err)
	}

	return &rpc.SetAttributeResponse{}, nil
}

func (ts *trackerServer) SetForbidLegacyWrites(ctx context.Context, req *rpc.SetForbidLegacyWritesRequest) (*rpc.SetForbidLegacyWritesResponse, error) {
	if err := ts.t.SetForbidLegacyWrites(req.Value, rpc.UserFromContext(ctx)); err != nil {
		return nil, toStatus(err)
	}

	return &rpc.SetForbidLegacyWritesResponse{}, nil
}

func (ts *trackerServer) ListNodes(ctx context.Context, req *rpc.ListNodesRequest) (*rpc.ListNodesResponse, error) {
	nodes, err := ts.t.ListAttributes(req.Host)
	if err != nil {
		return nil, toStatus(err)
	}

	return &rpc.ListNodesResponse{Nodes: nodes}, nil
}

func (ts *trackerServer) CreateHost(ctx context.Context, req *rpc.CreateHostRequest) (*rpc.CreateHostResponse, error) {
	if err := ts.t.CreateHost(req.Host, rpc.UserFromContext(ctx)); err != nil {
		return nil, toStatus(err)
	}

	return &rpc.CreateHostResponse{}, nil
}

func (ts *trackerServer) RemoveHost(ctx context.Context, req *rpc.RemoveHostRequest) (*rpc.RemoveHostResponse, error) {
	if req.Host == "" {
		return nil, toStatus(api.InvalidArgument("missing: host"))
	}

	if err := ts.t.RemoveHost(req.Host, rpc.UserFromContext(ctx)); err != nil {
		return nil, toStatus(err)
	}

	return &rpc.RemoveHostResponse{}, nil
}

func (ts *trackerServer) SetHost(ctx context.Context, req *rpc.SetHostRequest) (*rpc.SetHostResponse, error) {
	if req.Node == "" {
		return nil, toStatus(api.InvalidArgument("missing: node"))
	}

	prev, err := ts.t.SetHost(api.NodeID(req.Node), req.Host, rpc.UserFromContext(ctx))
	if err != nil {
		return nil, toStatus(err)
	}

	return &rpc.SetHostResponse{Previous: prev}, nil
}

func (ts *trackerServer) RemoveNode(ctx context.Context, req *rpc.RemoveNodeRequest) (*rpc.RemoveNodeResponse, error) {
	if req.Node == "" {
		return nil, toStatus(api.InvalidArgument("missing: node"))
	}

	c, err := ts.t.RemoveNode(api.NodeID(req.Node), rpc.UserFromContext(ctx))
	if err != nil {
		return nil, toStatus(err)
	}

	return &rpc.RemoveNodeResponse{Removed: c.ByName()}, nil
}
