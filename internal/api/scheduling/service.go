package scheduling

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "scheduling.v1.SchedulingService"

// SchedulingServiceServer: серверная сторона сервиса расписания.
type SchedulingServiceServer interface {
	GenerateSlots(context.Context, *GenerateSlotsRequest) (*GenerateSlotsResponse, error)
	ListAvailableSlots(context.Context, *ListAvailableSlotsRequest) (*ListAvailableSlotsResponse, error)
	CreateTemplate(context.Context, *CreateTemplateRequest) (*TemplateResponse, error)
	DeactivateTemplate(context.Context, *DeactivateTemplateRequest) (*DeactivateTemplateResponse, error)
	ListTemplates(context.Context, *ListTemplatesRequest) (*ListTemplatesResponse, error)

	CreateOrder(context.Context, *CreateOrderRequest) (*OrderResponse, error)
	Approve(context.Context, *TransitionRequest) (*OrderResponse, error)
	Decline(context.Context, *TransitionRequest) (*OrderResponse, error)
	Cancel(context.Context, *TransitionRequest) (*OrderResponse, error)
	Complete(context.Context, *TransitionRequest) (*OrderResponse, error)
	MarkNoShow(context.Context, *TransitionRequest) (*OrderResponse, error)
	Reschedule(context.Context, *RescheduleRequest) (*OrderResponse, error)
	GetOrder(context.Context, *GetOrderRequest) (*OrderResponse, error)
	ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error)
	GetHistory(context.Context, *GetHistoryRequest) (*GetHistoryResponse, error)

	SavePreOrderData(context.Context, *SavePreOrderDataRequest) (*PreOrderDataResponse, error)
	CompletePreOrderData(context.Context, *PreOrderDataRequest) (*PreOrderDataResponse, error)
	GetPreOrderData(context.Context, *PreOrderDataRequest) (*PreOrderDataResponse, error)
	ListDomainConfigurations(context.Context, *ListDomainConfigurationsRequest) (*ListDomainConfigurationsResponse, error)
}

// UnimplementedSchedulingServiceServer встраивается в реализации, чтобы новые методы не ломали сборку.
type UnimplementedSchedulingServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedSchedulingServiceServer) GenerateSlots(context.Context, *GenerateSlotsRequest) (*GenerateSlotsResponse, error) {
	return nil, unimplemented("GenerateSlots")
}
func (UnimplementedSchedulingServiceServer) ListAvailableSlots(context.Context, *ListAvailableSlotsRequest) (*ListAvailableSlotsResponse, error) {
	return nil, unimplemented("ListAvailableSlots")
}
func (UnimplementedSchedulingServiceServer) CreateTemplate(context.Context, *CreateTemplateRequest) (*TemplateResponse, error) {
	return nil, unimplemented("CreateTemplate")
}
func (UnimplementedSchedulingServiceServer) DeactivateTemplate(context.Context, *DeactivateTemplateRequest) (*DeactivateTemplateResponse, error) {
	return nil, unimplemented("DeactivateTemplate")
}
func (UnimplementedSchedulingServiceServer) ListTemplates(context.Context, *ListTemplatesRequest) (*ListTemplatesResponse, error) {
	return nil, unimplemented("ListTemplates")
}
func (UnimplementedSchedulingServiceServer) CreateOrder(context.Context, *CreateOrderRequest) (*OrderResponse, error) {
	return nil, unimplemented("CreateOrder")
}
func (UnimplementedSchedulingServiceServer) Approve(context.Context, *TransitionRequest) (*OrderResponse, error) {
	return nil, unimplemented("Approve")
}
func (UnimplementedSchedulingServiceServer) Decline(context.Context, *TransitionRequest) (*OrderResponse, error) {
	return nil, unimplemented("Decline")
}
func (UnimplementedSchedulingServiceServer) Cancel(context.Context, *TransitionRequest) (*OrderResponse, error) {
	return nil, unimplemented("Cancel")
}
func (UnimplementedSchedulingServiceServer) Complete(context.Context, *TransitionRequest) (*OrderResponse, error) {
	return nil, unimplemented("Complete")
}
func (UnimplementedSchedulingServiceServer) MarkNoShow(context.Context, *TransitionRequest) (*OrderResponse, error) {
	return nil, unimplemented("MarkNoShow")
}
func (UnimplementedSchedulingServiceServer) Reschedule(context.Context, *RescheduleRequest) (*OrderResponse, error) {
	return nil, unimplemented("Reschedule")
}
func (UnimplementedSchedulingServiceServer) GetOrder(context.Context, *GetOrderRequest) (*OrderResponse, error) {
	return nil, unimplemented("GetOrder")
}
func (UnimplementedSchedulingServiceServer) ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error) {
	return nil, unimplemented("ListOrders")
}
func (UnimplementedSchedulingServiceServer) GetHistory(context.Context, *GetHistoryRequest) (*GetHistoryResponse, error) {
	return nil, unimplemented("GetHistory")
}
func (UnimplementedSchedulingServiceServer) SavePreOrderData(context.Context, *SavePreOrderDataRequest) (*PreOrderDataResponse, error) {
	return nil, unimplemented("SavePreOrderData")
}
func (UnimplementedSchedulingServiceServer) CompletePreOrderData(context.Context, *PreOrderDataRequest) (*PreOrderDataResponse, error) {
	return nil, unimplemented("CompletePreOrderData")
}
func (UnimplementedSchedulingServiceServer) GetPreOrderData(context.Context, *PreOrderDataRequest) (*PreOrderDataResponse, error) {
	return nil, unimplemented("GetPreOrderData")
}
func (UnimplementedSchedulingServiceServer) ListDomainConfigurations(context.Context, *ListDomainConfigurationsRequest) (*ListDomainConfigurationsResponse, error) {
	return nil, unimplemented("ListDomainConfigurations")
}

// unary строит обработчик метода поверх типизированного вызова сервера.
func unary[Req, Resp any](method string, call func(SchedulingServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			impl := srv.(SchedulingServiceServer)
			if interceptor == nil {
				return call(impl, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(impl, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SchedulingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GenerateSlots", SchedulingServiceServer.GenerateSlots),
		unary("ListAvailableSlots", SchedulingServiceServer.ListAvailableSlots),
		unary("CreateTemplate", SchedulingServiceServer.CreateTemplate),
		unary("DeactivateTemplate", SchedulingServiceServer.DeactivateTemplate),
		unary("ListTemplates", SchedulingServiceServer.ListTemplates),
		unary("CreateOrder", SchedulingServiceServer.CreateOrder),
		unary("Approve", SchedulingServiceServer.Approve),
		unary("Decline", SchedulingServiceServer.Decline),
		unary("Cancel", SchedulingServiceServer.Cancel),
		unary("Complete", SchedulingServiceServer.Complete),
		unary("MarkNoShow", SchedulingServiceServer.MarkNoShow),
		unary("Reschedule", SchedulingServiceServer.Reschedule),
		unary("GetOrder", SchedulingServiceServer.GetOrder),
		unary("ListOrders", SchedulingServiceServer.ListOrders),
		unary("GetHistory", SchedulingServiceServer.GetHistory),
		unary("SavePreOrderData", SchedulingServiceServer.SavePreOrderData),
		unary("CompletePreOrderData", SchedulingServiceServer.CompletePreOrderData),
		unary("GetPreOrderData", SchedulingServiceServer.GetPreOrderData),
		unary("ListDomainConfigurations", SchedulingServiceServer.ListDomainConfigurations),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "scheduling/v1/scheduling.proto",
}

func RegisterSchedulingServiceServer(s grpc.ServiceRegistrar, srv SchedulingServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client: клиент сервиса; все вызовы идут с JSON-кодеком.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GenerateSlots(ctx context.Context, in *GenerateSlotsRequest, opts ...grpc.CallOption) (*GenerateSlotsResponse, error) {
	return invoke[GenerateSlotsRequest, GenerateSlotsResponse](ctx, c.cc, "GenerateSlots", in, opts)
}

func (c *Client) ListAvailableSlots(ctx context.Context, in *ListAvailableSlotsRequest, opts ...grpc.CallOption) (*ListAvailableSlotsResponse, error) {
	return invoke[ListAvailableSlotsRequest, ListAvailableSlotsResponse](ctx, c.cc, "ListAvailableSlots", in, opts)
}

func (c *Client) CreateTemplate(ctx context.Context, in *CreateTemplateRequest, opts ...grpc.CallOption) (*TemplateResponse, error) {
	return invoke[CreateTemplateRequest, TemplateResponse](ctx, c.cc, "CreateTemplate", in, opts)
}

func (c *Client) DeactivateTemplate(ctx context.Context, in *DeactivateTemplateRequest, opts ...grpc.CallOption) (*DeactivateTemplateResponse, error) {
	return invoke[DeactivateTemplateRequest, DeactivateTemplateResponse](ctx, c.cc, "DeactivateTemplate", in, opts)
}

func (c *Client) ListTemplates(ctx context.Context, in *ListTemplatesRequest, opts ...grpc.CallOption) (*ListTemplatesResponse, error) {
	return invoke[ListTemplatesRequest, ListTemplatesResponse](ctx, c.cc, "ListTemplates", in, opts)
}

func (c *Client) CreateOrder(ctx context.Context, in *CreateOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[CreateOrderRequest, OrderResponse](ctx, c.cc, "CreateOrder", in, opts)
}

func (c *Client) Approve(ctx context.Context, in *TransitionRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[TransitionRequest, OrderResponse](ctx, c.cc, "Approve", in, opts)
}

func (c *Client) Decline(ctx context.Context, in *TransitionRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[TransitionRequest, OrderResponse](ctx, c.cc, "Decline", in, opts)
}

func (c *Client) Cancel(ctx context.Context, in *TransitionRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[TransitionRequest, OrderResponse](ctx, c.cc, "Cancel", in, opts)
}

func (c *Client) Complete(ctx context.Context, in *TransitionRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[TransitionRequest, OrderResponse](ctx, c.cc, "Complete", in, opts)
}

func (c *Client) MarkNoShow(ctx context.Context, in *TransitionRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[TransitionRequest, OrderResponse](ctx, c.cc, "MarkNoShow", in, opts)
}

func (c *Client) Reschedule(ctx context.Context, in *RescheduleRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[RescheduleRequest, OrderResponse](ctx, c.cc, "Reschedule", in, opts)
}

func (c *Client) GetOrder(ctx context.Context, in *GetOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[GetOrderRequest, OrderResponse](ctx, c.cc, "GetOrder", in, opts)
}

func (c *Client) ListOrders(ctx context.Context, in *ListOrdersRequest, opts ...grpc.CallOption) (*ListOrdersResponse, error) {
	return invoke[ListOrdersRequest, ListOrdersResponse](ctx, c.cc, "ListOrders", in, opts)
}

func (c *Client) GetHistory(ctx context.Context, in *GetHistoryRequest, opts ...grpc.CallOption) (*GetHistoryResponse, error) {
	return invoke[GetHistoryRequest, GetHistoryResponse](ctx, c.cc, "GetHistory", in, opts)
}

func (c *Client) SavePreOrderData(ctx context.Context, in *SavePreOrderDataRequest, opts ...grpc.CallOption) (*PreOrderDataResponse, error) {
	return invoke[SavePreOrderDataRequest, PreOrderDataResponse](ctx, c.cc, "SavePreOrderData", in, opts)
}

func (c *Client) CompletePreOrderData(ctx context.Context, in *PreOrderDataRequest, opts ...grpc.CallOption) (*PreOrderDataResponse, error) {
	return invoke[PreOrderDataRequest, PreOrderDataResponse](ctx, c.cc, "CompletePreOrderData", in, opts)
}

func (c *Client) GetPreOrderData(ctx context.Context, in *PreOrderDataRequest, opts ...grpc.CallOption) (*PreOrderDataResponse, error) {
	return invoke[PreOrderDataRequest, PreOrderDataResponse](ctx, c.cc, "GetPreOrderData", in, opts)
}

func (c *Client) ListDomainConfigurations(ctx context.Context, in *ListDomainConfigurationsRequest, opts ...grpc.CallOption) (*ListDomainConfigurationsResponse, error) {
	return invoke[ListDomainConfigurationsRequest, ListDomainConfigurationsResponse](ctx, c.cc, "ListDomainConfigurations", in, opts)
}
