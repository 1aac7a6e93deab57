package grpc_test

import (
	"context"
	"testing"
	"time"

	"github.com/aescanero/booking-api/internal/application/health"
	api "github.com/aescanero/booking-api/pkg/api/grpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

type fakeSource struct {
	last        *health.Status
	subscribers []func(*health.Status)
}

func (f *fakeSource) Last() *health.Status {
	if f.last == nil {
		return &health.Status{Database: health.DatabaseUnknown}
	}
	return f.last
}

func (f *fakeSource) Subscribe(fn func(*health.Status)) {
	f.subscribers = append(f.subscribers, fn)
}

func (f *fakeSource) publish(s *health.Status) {
	for _, fn := range f.subscribers {
		fn(s)
	}
}

func startServer(t *testing.T, source api.StatusSource) (*api.Server, healthpb.HealthClient, <-chan error) {
	t.Helper()

	s, err := api.NewServer(&api.Config{
		Addr:   "127.0.0.1:0",
		Source: source,
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	conn, err := grpc.NewClient(s.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return s, healthpb.NewHealthClient(conn), errCh
}

func check(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHealthServiceFollowsDatabase(t *testing.T) {
	source := &fakeSource{}
	s, client, errCh := startServer(t, source)
	require.Len(t, source.subscribers, 1)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_UNKNOWN, check(t, client, api.DatabaseService))

	source.publish(&health.Status{Database: health.DatabaseConnected, Healthy: true})
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, api.DatabaseService))

	source.publish(&health.Status{Database: health.DatabaseDisconnected})
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, api.DatabaseService))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ""), "liveness is independent of the database")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	assert.NoError(t, <-errCh)
}

func TestHealthServiceUnknownService(t *testing.T) {
	s, client, _ := startServer(t, nil)
	defer s.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: "booking.Unknown"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestNewServerInvalidAddress(t *testing.T) {
	_, err := api.NewServer(&api.Config{Addr: "127.0.0.1:bad", Logger: zap.NewNop()})
	assert.ErrorContains(t, err, "failed to create listener")
}

func TestHealthServiceSeededFromLastCheck(t *testing.T) {
	cases := []struct {
		desc   string
		last   *health.Status
		status healthpb.HealthCheckResponse_ServingStatus
	}{
		{
			desc:   "connected before start",
			last:   &health.Status{Database: health.DatabaseConnected, Healthy: true},
			status: healthpb.HealthCheckResponse_SERVING,
		},
		{
			desc:   "disconnected before start",
			last:   &health.Status{Database: health.DatabaseDisconnected},
			status: healthpb.HealthCheckResponse_NOT_SERVING,
		},
		{
			desc:   "not checked yet",
			last:   nil,
			status: healthpb.HealthCheckResponse_UNKNOWN,
		},
	}

	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			s, client, _ := startServer(t, &fakeSource{last: c.last})
			defer s.Shutdown(context.Background())

			assert.Equal(t, c.status, check(t, client, api.DatabaseService))
		})
	}
}
