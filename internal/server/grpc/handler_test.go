package grpc

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/logging"
	pb "github.com/dmitrijs2005/gophsession/internal/proto"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/dmitrijs2005/gophsession/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func withToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AuthorizationHeaderName, common.BearerScheme+" "+token)
}

func requireCode(t *testing.T, err error, code codes.Code, msg string) {
	t.Helper()
	require.Error(t, err)
	st := status.Convert(err)
	assert.Equal(t, code, st.Code(), st.Message())
	if msg != "" {
		assert.Equal(t, msg, st.Message())
	}
}

func TestSessionLifecycle(t *testing.T) {
	c := startBufconn(t, newTestServer())
	ctx := context.Background()

	out, err := c.Register(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", out.GetFields()["email"].GetStringValue())
	assert.NotEmpty(t, out.GetFields()["id"].GetStringValue())
	_, hasHash := out.GetFields()["password_hash"]
	assert.False(t, hasHash)

	_, err = c.Register(ctx, "Alice", "a@x.com", "secret1")
	requireCode(t, err, codes.AlreadyExists, services.MsgUserExists)

	_, err = c.Signin(ctx, "a@x.com", "nope!!")
	requireCode(t, err, codes.InvalidArgument, services.MsgInvalidCredentials)

	token, err := c.Signin(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = c.Signin(ctx, "a@x.com", "secret1")
	requireCode(t, err, codes.AlreadyExists, services.MsgActiveSession)

	list, err := c.ListUsers(withToken(ctx, token), "asc")
	require.NoError(t, err)
	assert.Len(t, list.GetFields()["users"].GetListValue().GetValues(), 1)

	msg, err := c.Logout(withToken(ctx, token))
	require.NoError(t, err)
	assert.Equal(t, services.MsgSessionsTerminated, msg)

	_, err = c.Logout(withToken(ctx, token))
	requireCode(t, err, codes.PermissionDenied, services.MsgAlreadyLoggedOut)

	_, err = c.Signin(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
}

func TestProtectedMethods_RequireToken(t *testing.T) {
	c := startBufconn(t, newTestServer())
	ctx := context.Background()

	_, err := c.Logout(ctx)
	requireCode(t, err, codes.Unauthenticated, services.MsgNoToken)

	_, err = c.ListUsers(withToken(ctx, "garbage"), "asc")
	requireCode(t, err, codes.Unauthenticated, services.MsgInvalidToken)
}

func TestValidation_Details(t *testing.T) {
	c := startBufconn(t, newTestServer())

	_, err := c.Register(context.Background(), "Al", "bad", "123")
	requireCode(t, err, codes.InvalidArgument, MsgValidationFailed)

	var fields []string
	for _, d := range status.Convert(err).Details() {
		br, ok := d.(*errdetails.BadRequest)
		require.True(t, ok)
		for _, v := range br.GetFieldViolations() {
			fields = append(fields, v.GetField())
		}
	}
	assert.ElementsMatch(t, []string{"name", "email", "password"}, fields)
}

func TestCodeFor(t *testing.T) {
	cases := map[int]codes.Code{
		400: codes.InvalidArgument,
		401: codes.Unauthenticated,
		403: codes.PermissionDenied,
		404: codes.NotFound,
		409: codes.AlreadyExists,
		422: codes.InvalidArgument,
		500: codes.Internal,
	}
	for httpStatus, want := range cases {
		assert.Equal(t, want, codeFor(httpStatus), httpStatus)
	}
}

type stubAuth struct {
	user *models.User
	err  error
}

func (a stubAuth) Authenticate(context.Context, string) (*models.User, error) { return a.user, a.err }

func TestInterceptor_PublicMethodSkipsAuth(t *testing.T) {
	s := NewGRPCServer("", logging.Nop{}, nil, nil, stubAuth{err: errors.New("must not be called")}, nil)

	called := false
	_, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: pb.MethodSignin},
		func(ctx context.Context, req any) (any, error) {
			called = true
			return nil, nil
		})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestInterceptor_StoresUser(t *testing.T) {
	want := &models.User{ID: "u1"}
	s := NewGRPCServer("", logging.Nop{}, nil, nil, stubAuth{user: want}, nil)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AuthorizationHeaderName, "Bearer t"))
	_, err := s.accessTokenInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: pb.MethodLogout},
		func(ctx context.Context, req any) (any, error) {
			got, ok := userFromContext(ctx)
			require.True(t, ok)
			assert.Same(t, want, got)
			return nil, nil
		})
	require.NoError(t, err)
}

func TestInterceptor_InfrastructureFailure(t *testing.T) {
	s := NewGRPCServer("", logging.Nop{}, nil, nil, stubAuth{err: errors.New("db down")}, nil)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AuthorizationHeaderName, "Bearer t"))
	_, err := s.accessTokenInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: pb.MethodListUsers},
		func(ctx context.Context, req any) (any, error) {
			t.Fatal("handler should not run")
			return nil, nil
		})
	requireCode(t, err, codes.Internal, services.MsgInternal)
}

type failingSessions struct{}

func (failingSessions) Create(context.Context, string, string) (services.Result, error) {
	return services.Result{}, errors.New("db down")
}
func (failingSessions) Remove(context.Context, string) (services.Result, error) {
	return services.Result{}, errors.New("db down")
}

func TestSignin_InternalErrorIsGeneric(t *testing.T) {
	s := NewGRPCServer("", logging.Nop{}, failingSessions{}, nil, nil, nil)

	in, err := structpb.NewStruct(map[string]any{"email": "a@x.com", "password": "secret1"})
	require.NoError(t, err)

	_, err = s.Signin(context.Background(), in)
	requireCode(t, err, codes.Internal, services.MsgInternal)
}
