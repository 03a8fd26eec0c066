package rest

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestRun_StopsOnContextCancel(t *testing.T) {
	srv := NewServer("127.0.0.1:0", http.NotFoundHandler(), logging.Nop{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

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
		t.Fatal("server did not stop after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	srv := NewServer("127.0.0.1:99999", http.NotFoundHandler(), logging.Nop{})
	require.Error(t, srv.Run(context.Background()))
}
