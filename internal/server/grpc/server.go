// Package grpc exposes the account and session operations over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophsession/internal/logging"
	pb "github.com/dmitrijs2005/gophsession/internal/proto"
	"github.com/dmitrijs2005/gophsession/internal/server/metrics"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type GRPCServer struct {
	address  string
	sessions SessionManager
	users    UserManager
	auth     Authenticator
	metrics  *metrics.Collectors
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, ss SessionManager, us UserManager, au Authenticator, m *metrics.Collectors) *GRPCServer {
	if l == nil {
		l = logging.Nop{}
	}
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		sessions: ss,
		users:    us,
		auth:     au,
		metrics:  m,
	}
}

// Server builds a grpc.Server with the service, the standard health
// service and the interceptors attached.
func (s *GRPCServer) Server(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	pb.RegisterSessionServiceServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.Server()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
