// Package proto holds the wire contract of gophsession.v1.SessionService,
// shared by the gRPC server and the CLI client.
//
// Messages are google.protobuf.Struct values, so the service needs no
// generated stubs. Request and response fields:
//
//	Register   {name, email, password}  -> {id, name, email, created}
//	Signin     {email, password}        -> {token}
//	Logout     {}                       -> {message}
//	ListUsers  {created: asc|desc}      -> {users: [...]}
//
// Logout and ListUsers need "authorization: Bearer <token>" metadata.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "gophsession.v1.SessionService"

// Full method names, as seen by interceptors.
const (
	MethodRegister  = "/" + ServiceName + "/Register"
	MethodSignin    = "/" + ServiceName + "/Signin"
	MethodLogout    = "/" + ServiceName + "/Logout"
	MethodListUsers = "/" + ServiceName + "/ListUsers"
)

// SessionServiceServer is implemented by the server.
type SessionServiceServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Signin(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Logout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(SessionServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(SessionServiceServer)
		if interceptor == nil {
			return call(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(s, ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SessionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(MethodRegister, SessionServiceServer.Register)},
		{MethodName: "Signin", Handler: unaryHandler(MethodSignin, SessionServiceServer.Signin)},
		{MethodName: "Logout", Handler: unaryHandler(MethodLogout, SessionServiceServer.Logout)},
		{MethodName: "ListUsers", Handler: unaryHandler(MethodListUsers, SessionServiceServer.ListUsers)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophsession/v1/session.proto",
}

func RegisterSessionServiceServer(s grpc.ServiceRegistrar, srv SessionServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

// SessionServiceClient calls the session service over an existing
// connection.
type SessionServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSessionServiceClient(cc grpc.ClientConnInterface) *SessionServiceClient {
	return &SessionServiceClient{cc: cc}
}

func (c *SessionServiceClient) invoke(ctx context.Context, method string, in map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SessionServiceClient) Register(ctx context.Context, name, email, password string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodRegister, map[string]any{"name": name, "email": email, "password": password}, opts...)
}

// Signin returns the issued token.
func (c *SessionServiceClient) Signin(ctx context.Context, email, password string, opts ...grpc.CallOption) (string, error) {
	out, err := c.invoke(ctx, MethodSignin, map[string]any{"email": email, "password": password}, opts...)
	if err != nil {
		return "", err
	}
	return out.GetFields()["token"].GetStringValue(), nil
}

// Logout returns the server message. The token travels in the
// authorization metadata set by the caller.
func (c *SessionServiceClient) Logout(ctx context.Context, opts ...grpc.CallOption) (string, error) {
	out, err := c.invoke(ctx, MethodLogout, map[string]any{}, opts...)
	if err != nil {
		return "", err
	}
	return out.GetFields()["message"].GetStringValue(), nil
}

func (c *SessionServiceClient) ListUsers(ctx context.Context, created string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodListUsers, map[string]any{"created": created}, opts...)
}
