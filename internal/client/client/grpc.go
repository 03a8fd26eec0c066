package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/client/models"
	"github.com/dmitrijs2005/gophsession/internal/common"
	pb "github.com/dmitrijs2005/gophsession/internal/proto"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// GRPCClient implements Client on top of gophsession.v1.SessionService.
type GRPCClient struct {
	conn    *grpc.ClientConn
	client  *pb.SessionServiceClient
	health  healthpb.HealthClient
	timeout time.Duration
}

type tokenKey struct{}

// withAccessToken marks ctx so the interceptor attaches token to the call.
func withAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// accessTokenInterceptor moves the token from the context into the
// authorization metadata, replacing any value already there.
func accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token, _ := ctx.Value(tokenKey{}).(string); token != "" {
		md, _ := metadata.FromOutgoingContext(ctx)
		md = md.Copy()
		if md == nil {
			md = metadata.MD{}
		}
		md.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
		ctx = metadata.NewOutgoingContext(ctx, md)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient prepares a lazy connection to addr. Extra dial options are
// appended after the defaults, so tests can swap the dialer.
func NewGRPCClient(addr string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{
		conn:    conn,
		client:  pb.NewSessionServiceClient(conn),
		health:  healthpb.NewHealthClient(conn),
		timeout: timeout,
	}, nil
}

func (c *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// mapError turns a status into the same errors the HTTP transport returns.
func (c *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}

	apiErr := &APIError{Message: st.Message()}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.InvalidArgument:
		apiErr.Status = http.StatusBadRequest
		for _, d := range st.Details() {
			br, ok := d.(*errdetails.BadRequest)
			if !ok {
				continue
			}
			apiErr.Status = http.StatusUnprocessableEntity
			for _, v := range br.GetFieldViolations() {
				apiErr.Fields = append(apiErr.Fields, models.FieldError{Field: v.GetField(), Message: v.GetDescription()})
			}
		}
	case codes.Unauthenticated:
		apiErr.Status = http.StatusUnauthorized
	case codes.PermissionDenied:
		apiErr.Status = http.StatusForbidden
	case codes.NotFound:
		apiErr.Status = http.StatusNotFound
	case codes.AlreadyExists:
		apiErr.Status = http.StatusConflict
	case codes.ResourceExhausted:
		apiErr.Status = http.StatusTooManyRequests
	default:
		apiErr.Status = http.StatusInternalServerError
	}
	return apiErr
}

func userFromStruct(v *structpb.Struct) models.User {
	f := v.GetFields()
	u := models.User{
		ID:    f["id"].GetStringValue(),
		Name:  f["name"].GetStringValue(),
		Email: f["email"].GetStringValue(),
	}
	u.Created, _ = time.Parse(time.RFC3339Nano, f["created"].GetStringValue())
	return u
}

func (c *GRPCClient) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, err := c.client.Register(ctx, name, email, password)
	if err != nil {
		return nil, c.mapError(err)
	}
	u := userFromStruct(out)
	return &u, nil
}

func (c *GRPCClient) Signin(ctx context.Context, email, password string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	token, err := c.client.Signin(ctx, email, password)
	if err != nil {
		return "", c.mapError(err)
	}
	return token, nil
}

func (c *GRPCClient) Logout(ctx context.Context, token string) (string, error) {
	ctx, cancel := c.withTimeout(withAccessToken(ctx, token))
	defer cancel()

	msg, err := c.client.Logout(ctx)
	if err != nil {
		return "", c.mapError(err)
	}
	return msg, nil
}

func (c *GRPCClient) Users(ctx context.Context, token, order string) ([]models.User, error) {
	ctx, cancel := c.withTimeout(withAccessToken(ctx, token))
	defer cancel()

	out, err := c.client.ListUsers(ctx, order)
	if err != nil {
		return nil, c.mapError(err)
	}

	values := out.GetFields()["users"].GetListValue().GetValues()
	list := make([]models.User, 0, len(values))
	for _, v := range values {
		list = append(list, userFromStruct(v.GetStructValue()))
	}
	return list, nil
}

// Ping asks the standard health service about the session service.
func (c *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: pb.ServiceName})
	if err != nil {
		return c.mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}
