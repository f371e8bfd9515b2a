package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "gophauth.v1.AuthService"

// Full method names, as seen by interceptors.
const (
	SignUpMethod  = "/" + ServiceName + "/SignUp"
	SignInMethod  = "/" + ServiceName + "/SignIn"
	RefreshMethod = "/" + ServiceName + "/Refresh"
	MeMethod      = "/" + ServiceName + "/Me"
	PingMethod    = "/" + ServiceName + "/Ping"
)

// AuthServiceServer is the server API for AuthService.
type AuthServiceServer interface {
	SignUp(context.Context, *SignUpRequest) (*TokenResponse, error)
	SignIn(context.Context, *SignInRequest) (*TokenResponse, error)
	Refresh(context.Context, *RefreshRequest) (*TokenResponse, error)
	Me(context.Context, *MeRequest) (*MeResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

// UnimplementedAuthServiceServer answers every method with codes.Unimplemented.
// Embed it to stay forward compatible.
type UnimplementedAuthServiceServer struct{}

func (UnimplementedAuthServiceServer) SignUp(context.Context, *SignUpRequest) (*TokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SignUp not implemented")
}
func (UnimplementedAuthServiceServer) SignIn(context.Context, *SignInRequest) (*TokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SignIn not implemented")
}
func (UnimplementedAuthServiceServer) Refresh(context.Context, *RefreshRequest) (*TokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Refresh not implemented")
}
func (UnimplementedAuthServiceServer) Me(context.Context, *MeRequest) (*MeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Me not implemented")
}
func (UnimplementedAuthServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

// unaryHandler adapts one typed AuthServiceServer method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](fullMethod string, call func(AuthServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AuthServiceDesc describes AuthService for grpc.ServiceRegistrar.
var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SignUp", Handler: unaryHandler(SignUpMethod, AuthServiceServer.SignUp)},
		{MethodName: "SignIn", Handler: unaryHandler(SignInMethod, AuthServiceServer.SignIn)},
		{MethodName: "Refresh", Handler: unaryHandler(RefreshMethod, AuthServiceServer.Refresh)},
		{MethodName: "Me", Handler: unaryHandler(MeMethod, AuthServiceServer.Me)},
		{MethodName: "Ping", Handler: unaryHandler(PingMethod, AuthServiceServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophauth/v1/auth.json",
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthServiceDesc, srv)
}
