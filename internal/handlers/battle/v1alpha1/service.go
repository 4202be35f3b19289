package v1alpha1

import (
	"context"

	"google.golang.org/grpc"

	"github.com/KirkDiggler/rpg-battle/internal/stream"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "rpgbattle.v1alpha1.BattleService"

// Full method names
const (
	StartBattleMethod  = "/" + ServiceName + "/StartBattle"
	GetBattleMethod    = "/" + ServiceName + "/GetBattle"
	PlaceUnitMethod    = "/" + ServiceName + "/PlaceUnit"
	EndTurnMethod      = "/" + ServiceName + "/EndTurn"
	GetFootprintMethod = "/" + ServiceName + "/GetFootprint"
	DeleteBattleMethod = "/" + ServiceName + "/DeleteBattle"
	WatchBattleMethod  = "/" + ServiceName + "/WatchBattle"
)

// BattleServiceServer is the server API for the battle service
type BattleServiceServer interface {
	StartBattle(context.Context, *StartBattleRequest) (*StartBattleResponse, error)
	GetBattle(context.Context, *GetBattleRequest) (*GetBattleResponse, error)
	PlaceUnit(context.Context, *PlaceUnitRequest) (*PlaceUnitResponse, error)
	EndTurn(context.Context, *EndTurnRequest) (*EndTurnResponse, error)
	GetFootprint(context.Context, *GetFootprintRequest) (*GetFootprintResponse, error)
	DeleteBattle(context.Context, *DeleteBattleRequest) (*DeleteBattleResponse, error)
	WatchBattle(*WatchBattleRequest, BattleService_WatchBattleServer) error
}

// BattleService_WatchBattleServer is the server side of the event stream
type BattleService_WatchBattleServer interface {
	Send(*stream.Event) error
	grpc.ServerStream
}

type watchBattleServer struct {
	grpc.ServerStream
}

func (x *watchBattleServer) Send(ev *stream.Event) error {
	return x.ServerStream.SendMsg(ev)
}

// RegisterBattleServiceServer registers the battle service on a gRPC server
func RegisterBattleServiceServer(s grpc.ServiceRegistrar, srv BattleServiceServer) {
	s.RegisterService(&BattleService_ServiceDesc, srv)
}

// unary builds a method handler that decodes Req and calls call
func unary[Req any, Resp any](
	fullMethod string,
	call func(BattleServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BattleServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BattleServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func watchBattleHandler(srv any, s grpc.ServerStream) error {
	in := new(WatchBattleRequest)
	if err := s.RecvMsg(in); err != nil {
		return err
	}
	return srv.(BattleServiceServer).WatchBattle(in, &watchBattleServer{s})
}

// BattleService_ServiceDesc describes the battle service to grpc.Server
var BattleService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BattleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "StartBattle", Handler: unary(StartBattleMethod, BattleServiceServer.StartBattle)},
		{MethodName: "GetBattle", Handler: unary(GetBattleMethod, BattleServiceServer.GetBattle)},
		{MethodName: "PlaceUnit", Handler: unary(PlaceUnitMethod, BattleServiceServer.PlaceUnit)},
		{MethodName: "EndTurn", Handler: unary(EndTurnMethod, BattleServiceServer.EndTurn)},
		{MethodName: "GetFootprint", Handler: unary(GetFootprintMethod, BattleServiceServer.GetFootprint)},
		{MethodName: "DeleteBattle", Handler: unary(DeleteBattleMethod, BattleServiceServer.DeleteBattle)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchBattle",
			Handler:       watchBattleHandler,
			ServerStreams: true,
		},
	},
}

// BattleServiceClient is the client API for the battle service. Every call
// uses the JSON codec.
type BattleServiceClient interface {
	StartBattle(ctx context.Context, in *StartBattleRequest, opts ...grpc.CallOption) (*StartBattleResponse, error)
	GetBattle(ctx context.Context, in *GetBattleRequest, opts ...grpc.CallOption) (*GetBattleResponse, error)
	PlaceUnit(ctx context.Context, in *PlaceUnitRequest, opts ...grpc.CallOption) (*PlaceUnitResponse, error)
	EndTurn(ctx context.Context, in *EndTurnRequest, opts ...grpc.CallOption) (*EndTurnResponse, error)
	GetFootprint(ctx context.Context, in *GetFootprintRequest, opts ...grpc.CallOption) (*GetFootprintResponse, error)
	DeleteBattle(ctx context.Context, in *DeleteBattleRequest, opts ...grpc.CallOption) (*DeleteBattleResponse, error)
	WatchBattle(ctx context.Context, in *WatchBattleRequest, opts ...grpc.CallOption) (BattleService_WatchBattleClient, error)
}

// BattleService_WatchBattleClient is the client side of the event stream
type BattleService_WatchBattleClient interface {
	Recv() (*stream.Event, error)
	grpc.ClientStream
}

type battleServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewBattleServiceClient creates a client on a connection
func NewBattleServiceClient(cc grpc.ClientConnInterface) BattleServiceClient {
	return &battleServiceClient{cc: cc}
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *battleServiceClient) StartBattle(ctx context.Context, in *StartBattleRequest, opts ...grpc.CallOption) (*StartBattleResponse, error) {
	return invoke[StartBattleResponse](ctx, c.cc, StartBattleMethod, in, opts)
}

func (c *battleServiceClient) GetBattle(ctx context.Context, in *GetBattleRequest, opts ...grpc.CallOption) (*GetBattleResponse, error) {
	return invoke[GetBattleResponse](ctx, c.cc, GetBattleMethod, in, opts)
}

func (c *battleServiceClient) PlaceUnit(ctx context.Context, in *PlaceUnitRequest, opts ...grpc.CallOption) (*PlaceUnitResponse, error) {
	return invoke[PlaceUnitResponse](ctx, c.cc, PlaceUnitMethod, in, opts)
}

func (c *battleServiceClient) EndTurn(ctx context.Context, in *EndTurnRequest, opts ...grpc.CallOption) (*EndTurnResponse, error) {
	return invoke[EndTurnResponse](ctx, c.cc, EndTurnMethod, in, opts)
}

func (c *battleServiceClient) GetFootprint(ctx context.Context, in *GetFootprintRequest, opts ...grpc.CallOption) (*GetFootprintResponse, error) {
	return invoke[GetFootprintResponse](ctx, c.cc, GetFootprintMethod, in, opts)
}

func (c *battleServiceClient) DeleteBattle(ctx context.Context, in *DeleteBattleRequest, opts ...grpc.CallOption) (*DeleteBattleResponse, error) {
	return invoke[DeleteBattleResponse](ctx, c.cc, DeleteBattleMethod, in, opts)
}

func (c *battleServiceClient) WatchBattle(ctx context.Context, in *WatchBattleRequest, opts ...grpc.CallOption) (BattleService_WatchBattleClient, error) {
	s, err := c.cc.NewStream(ctx, &BattleService_ServiceDesc.Streams[0], WatchBattleMethod, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &watchBattleClient{s}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type watchBattleClient struct {
	grpc.ClientStream
}

func (x *watchBattleClient) Recv() (*stream.Event, error) {
	m := new(stream.Event)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
