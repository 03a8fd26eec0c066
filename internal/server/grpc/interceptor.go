package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/common"
	pb "github.com/dmitrijs2005/gophsession/internal/proto"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/dmitrijs2005/gophsession/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userKey ctxKey = "user"

var protectedMethods = map[string]bool{
	pb.MethodLogout:    true,
	pb.MethodListUsers: true,
}

func userFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if !protectedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AuthorizationHeaderName); len(values) > 0 {
			header = values[0]
		}
	}

	user, err := s.auth.Authenticate(ctx, common.BearerToken(header))
	switch {
	case err == nil:
	case errors.Is(err, common.ErrNoToken):
		return nil, status.Error(codes.Unauthenticated, services.MsgNoToken)
	case errors.Is(err, common.ErrInvalidToken):
		return nil, status.Error(codes.Unauthenticated, services.MsgInvalidToken)
	default:
		s.logger.Error(ctx, "authentication failed", "error", err)
		return nil, status.Error(codes.Internal, services.MsgInternal)
	}

	return handler(context.WithValue(ctx, userKey, user), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Info(ctx, "grpc request",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}
