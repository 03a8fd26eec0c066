package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/logging"
	pb "github.com/dmitrijs2005/gophsession/internal/proto"
	"github.com/dmitrijs2005/gophsession/internal/server/auth"
	"github.com/dmitrijs2005/gophsession/internal/server/metrics"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophsession/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

func newTestServer() *GRPCServer {
	m := repomanager.NewMemoryRepositoryManager()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	codec := auth.NewJWTCodec([]byte("grpc-secret"), 0)

	return NewGRPCServer("127.0.0.1:0", logging.Nop{},
		services.NewSessionService(m.Users(), m.Sessions(), hasher, codec, nil, nil),
		services.NewUserService(m.Users(), hasher, nil),
		services.NewAuthenticator(m.Users(), m.Sessions(), codec),
		metrics.New(),
	)
}

// startBufconn serves s in memory and returns a connected client.
func startBufconn(t *testing.T, s *GRPCServer) *pb.SessionServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Serve(ctx, lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return pb.NewSessionServiceClient(conn)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := newTestServer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.Nop{}, nil, nil, nil, nil)
	require.Error(t, srv.Run(context.Background()))
}
