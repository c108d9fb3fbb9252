package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "funko.economy.v1alpha1.EconomyService"

// Full method names
const (
	EconomyService_GetOrCreateAccount_FullMethodName = "/" + ServiceName + "/GetOrCreateAccount"
	EconomyService_GetAccount_FullMethodName         = "/" + ServiceName + "/GetAccount"
	EconomyService_ListCollectibles_FullMethodName   = "/" + ServiceName + "/ListCollectibles"
	EconomyService_OpenBox_FullMethodName            = "/" + ServiceName + "/OpenBox"
	EconomyService_StartBattle_FullMethodName        = "/" + ServiceName + "/StartBattle"
	EconomyService_GetBattle_FullMethodName          = "/" + ServiceName + "/GetBattle"
	EconomyService_Exchange_FullMethodName           = "/" + ServiceName + "/Exchange"
	EconomyService_GetExchangeRates_FullMethodName   = "/" + ServiceName + "/GetExchangeRates"
)

// EconomyServiceServer is the server API for the economy service
type EconomyServiceServer interface {
	GetOrCreateAccount(context.Context, *GetOrCreateAccountRequest) (*GetOrCreateAccountResponse, error)
	GetAccount(context.Context, *GetAccountRequest) (*GetAccountResponse, error)
	ListCollectibles(context.Context, *ListCollectiblesRequest) (*ListCollectiblesResponse, error)
	OpenBox(context.Context, *OpenBoxRequest) (*OpenBoxResponse, error)
	StartBattle(context.Context, *StartBattleRequest) (*StartBattleResponse, error)
	GetBattle(context.Context, *GetBattleRequest) (*GetBattleResponse, error)
	Exchange(context.Context, *ExchangeRequest) (*ExchangeResponse, error)
	GetExchangeRates(context.Context, *GetExchangeRatesRequest) (*GetExchangeRatesResponse, error)
}

// RegisterEconomyServiceServer registers srv on s
func RegisterEconomyServiceServer(s grpc.ServiceRegistrar, srv EconomyServiceServer) {
	s.RegisterService(&EconomyService_ServiceDesc, srv)
}

// unaryHandler adapts a typed method to the grpc.MethodDesc handler shape
func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(srv EconomyServiceServer, ctx context.Context, req *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(EconomyServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(EconomyServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// EconomyService_ServiceDesc is the grpc.ServiceDesc for the economy service
var EconomyService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EconomyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetOrCreateAccount",
			Handler: unaryHandler(EconomyService_GetOrCreateAccount_FullMethodName,
				EconomyServiceServer.GetOrCreateAccount),
		},
		{
			MethodName: "GetAccount",
			Handler:    unaryHandler(EconomyService_GetAccount_FullMethodName, EconomyServiceServer.GetAccount),
		},
		{
			MethodName: "ListCollectibles",
			Handler: unaryHandler(EconomyService_ListCollectibles_FullMethodName,
				EconomyServiceServer.ListCollectibles),
		},
		{
			MethodName: "OpenBox",
			Handler:    unaryHandler(EconomyService_OpenBox_FullMethodName, EconomyServiceServer.OpenBox),
		},
		{
			MethodName: "StartBattle",
			Handler:    unaryHandler(EconomyService_StartBattle_FullMethodName, EconomyServiceServer.StartBattle),
		},
		{
			MethodName: "GetBattle",
			Handler:    unaryHandler(EconomyService_GetBattle_FullMethodName, EconomyServiceServer.GetBattle),
		},
		{
			MethodName: "Exchange",
			Handler:    unaryHandler(EconomyService_Exchange_FullMethodName, EconomyServiceServer.Exchange),
		},
		{
			MethodName: "GetExchangeRates",
			Handler: unaryHandler(EconomyService_GetExchangeRates_FullMethodName,
				EconomyServiceServer.GetExchangeRates),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "funko/economy/v1alpha1/economy.go",
}

// EconomyServiceClient is the client API for the economy service
type EconomyServiceClient interface {
	GetOrCreateAccount(ctx context.Context, in *GetOrCreateAccountRequest, opts ...grpc.CallOption) (*GetOrCreateAccountResponse, error)
	GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*GetAccountResponse, error)
	ListCollectibles(ctx context.Context, in *ListCollectiblesRequest, opts ...grpc.CallOption) (*ListCollectiblesResponse, error)
	OpenBox(ctx context.Context, in *OpenBoxRequest, opts ...grpc.CallOption) (*OpenBoxResponse, error)
	StartBattle(ctx context.Context, in *StartBattleRequest, opts ...grpc.CallOption) (*StartBattleResponse, error)
	GetBattle(ctx context.Context, in *GetBattleRequest, opts ...grpc.CallOption) (*GetBattleResponse, error)
	Exchange(ctx context.Context, in *ExchangeRequest, opts ...grpc.CallOption) (*ExchangeResponse, error)
	GetExchangeRates(ctx context.Context, in *GetExchangeRatesRequest, opts ...grpc.CallOption) (*GetExchangeRatesResponse, error)
}

type economyServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewEconomyServiceClient returns a client that sends every call with the
// JSON content-subtype
func NewEconomyServiceClient(cc grpc.ClientConnInterface) EconomyServiceClient {
	return &economyServiceClient{cc: cc}
}

func invoke[Resp any](
	ctx context.Context,
	cc grpc.ClientConnInterface,
	method string,
	in any,
	opts []grpc.CallOption,
) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *economyServiceClient) GetOrCreateAccount(
	ctx context.Context,
	in *GetOrCreateAccountRequest,
	opts ...grpc.CallOption,
) (*GetOrCreateAccountResponse, error) {
	return invoke[GetOrCreateAccountResponse](ctx, c.cc, EconomyService_GetOrCreateAccount_FullMethodName, in, opts)
}

func (c *economyServiceClient) GetAccount(
	ctx context.Context,
	in *GetAccountRequest,
	opts ...grpc.CallOption,
) (*GetAccountResponse, error) {
	return invoke[GetAccountResponse](ctx, c.cc, EconomyService_GetAccount_FullMethodName, in, opts)
}

func (c *economyServiceClient) ListCollectibles(
	ctx context.Context,
	in *ListCollectiblesRequest,
	opts ...grpc.CallOption,
) (*ListCollectiblesResponse, error) {
	return invoke[ListCollectiblesResponse](ctx, c.cc, EconomyService_ListCollectibles_FullMethodName, in, opts)
}

func (c *economyServiceClient) OpenBox(
	ctx context.Context,
	in *OpenBoxRequest,
	opts ...grpc.CallOption,
) (*OpenBoxResponse, error) {
	return invoke[OpenBoxResponse](ctx, c.cc, EconomyService_OpenBox_FullMethodName, in, opts)
}

func (c *economyServiceClient) StartBattle(
	ctx context.Context,
	in *StartBattleRequest,
	opts ...grpc.CallOption,
) (*StartBattleResponse, error) {
	return invoke[StartBattleResponse](ctx, c.cc, EconomyService_StartBattle_FullMethodName, in, opts)
}

func (c *economyServiceClient) GetBattle(
	ctx context.Context,
	in *GetBattleRequest,
	opts ...grpc.CallOption,
) (*GetBattleResponse, error) {
	return invoke[GetBattleResponse](ctx, c.cc, EconomyService_GetBattle_FullMethodName, in, opts)
}

func (c *economyServiceClient) Exchange(
	ctx context.Context,
	in *ExchangeRequest,
	opts ...grpc.CallOption,
) (*ExchangeResponse, error) {
	return invoke[ExchangeResponse](ctx, c.cc, EconomyService_Exchange_FullMethodName, in, opts)
}

func (c *economyServiceClient) GetExchangeRates(
	ctx context.Context,
	in *GetExchangeRatesRequest,
	opts ...grpc.CallOption,
) (*GetExchangeRatesResponse, error) {
	return invoke[GetExchangeRatesResponse](ctx, c.cc, EconomyService_GetExchangeRates_FullMethodName, in, opts)
}
