package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "maint.Maintenance"

// MaintenanceServer is the server API for the maintenance service.
type MaintenanceServer interface {
	AddMaintenance(context.Context, *AddMaintenanceRequest) (*AddMaintenanceResponse, error)
	RemoveMaintenance(context.Context, *RemoveMaintenanceRequest) (*RemoveMaintenanceResponse, error)
	GetAttributes(context.Context, *GetAttributesRequest) (*GetAttributesResponse, error)
	SetAttribute(context.Context, *SetAttributeRequest) (*SetAttributeResponse, error)
	SetForbidLegacyWrites(context.Context, *SetForbidLegacyWritesRequest) (*SetForbidLegacyWritesResponse, error)
	ListNodes(context.Context, *ListNodesRequest) (*ListNodesResponse, error)
	CreateHost(context.Context, *CreateHostRequest) (*CreateHostResponse, error)
	RemoveHost(context.Context, *RemoveHostRequest) (*RemoveHostResponse, error)
	SetHost(context.Context, *SetHostRequest) (*SetHostResponse, error)
	RemoveNode(context.Context, *RemoveNodeRequest) (*RemoveNodeResponse, error)
}

func RegisterMaintenanceServer(s grpc.ServiceRegistrar, srv MaintenanceServer) {
	s.RegisterService(&serviceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func unary[Req, Res any](name string, call func(MaintenanceServer, context.Context, *Req) (*Res, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}

			if interceptor == nil {
				return call(srv.(MaintenanceServer), ctx, in)
			}

			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}

			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(MaintenanceServer), ctx, req.(*Req))
			}

			return interceptor(ctx, in, info, handler)
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MaintenanceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("AddMaintenance", MaintenanceServer.AddMaintenance),
		unary("RemoveMaintenance", MaintenanceServer.RemoveMaintenance),
		unary("GetAttributes", MaintenanceServer.GetAttributes),
		unary("SetAttribute", MaintenanceServer.SetAttribute),
		unary("SetForbidLegacyWrites", MaintenanceServer.SetForbidLegacyWrites),
		unary("ListNodes", MaintenanceServer.ListNodes),
		unary("CreateHost", MaintenanceServer.CreateHost),
		unary("RemoveHost", MaintenanceServer.RemoveHost),
		unary("SetHost", MaintenanceServer.SetHost),
		unary("RemoveNode", MaintenanceServer.RemoveNode),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "maint",
}

// Client calls the maintenance service over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Res any](ctx context.Context, c *Client, name string, in interface{}, opts []grpc.CallOption) (*Res, error) {
	out := new(Res)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, fullMethod(name), in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) AddMaintenance(ctx context.Context, in *AddMaintenanceRequest, opts ...grpc.CallOption) (*AddMaintenanceResponse, error) {
	return invoke[AddMaintenanceResponse](ctx, c, "AddMaintenance", in, opts)
}

func (c *Client) RemoveMaintenance(ctx context.Context, in *RemoveMaintenanceRequest, opts ...grpc.CallOption) (*RemoveMaintenanceResponse, error) {
	return invoke[RemoveMaintenanceResponse](ctx, c, "RemoveMaintenance", in, opts)
}

func (c *Client) GetAttributes(ctx context.Context, in *GetAttributesRequest, opts ...grpc.CallOption) (*GetAttributesResponse, error) {
	return invoke[GetAttributesResponse](ctx, c, "GetAttributes", in, opts)
}

func (c *Client) SetAttribute(ctx context.Context, in *SetAttributeRequest, opts ...grpc.CallOption) (*SetAttributeResponse, error) {
	return invoke[SetAttributeResponse](ctx, c, "SetAttribute", in, opts)
}

func (c *Client) SetForbidLegacyWrites(ctx context.Context, in *SetForbidLegacyWritesRequest, opts ...grpc.CallOption) (*SetForbidLegacyWritesResponse, error) {
	return invoke[SetForbidLegacyWritesResponse](ctx, c, "SetForbidLegacyWrites", in, opts)
}

func (c *Client) ListNodes(ctx context.Context, in *ListNodesRequest, opts ...grpc.CallOption) (*ListNodesResponse, error) {
	return invoke[ListNodesResponse](ctx, c, "ListNodes", in, opts)
}

func (c *Client) CreateHost(ctx context.Context, in *CreateHostRequest, opts ...grpc.CallOption) (*CreateHostResponse, error) {
	return invoke[CreateHostResponse](ctx, c, "CreateHost", in, opts)
}

func (c *Client) RemoveHost(ctx context.Context, in *RemoveHostRequest, opts ...grpc.CallOption) (*RemoveHostResponse, error) {
	return invoke[RemoveHostResponse](ctx, c, "RemoveHost", in, opts)
}

func (c *Client) SetHost(ctx context.Context, in *SetHostRequest, opts ...grpc.CallOption) (*SetHostResponse, error) {
	return invoke[SetHostResponse](ctx, c, "SetHost", in, opts)
}

func (c *Client) RemoveNode(ctx context.Context, in *RemoveNodeRequest, opts ...grpc.CallOption) (*RemoveNodeResponse, error) {
	return invoke[RemoveNodeResponse](ctx, c, "RemoveNode", in, opts)
}
