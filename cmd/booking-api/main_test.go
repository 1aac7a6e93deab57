package main

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"os/exec"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitLogger(t *testing.T) {
	cases := []struct {
		level   string
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{level: "debug", enabled: zapcore.DebugLevel, muted: zapcore.DebugLevel - 1},
		{level: "info", enabled: zapcore.InfoLevel, muted: zapcore.DebugLevel},
		{level: "warn", enabled: zapcore.WarnLevel, muted: zapcore.InfoLevel},
		{level: "error", enabled: zapcore.ErrorLevel, muted: zapcore.WarnLevel},
		{level: "bogus", enabled: zapcore.InfoLevel, muted: zapcore.DebugLevel},
	}

	for _, c := range cases {
		t.Run(c.level, func(t *testing.T) {
			for _, development := range []bool{false, true} {
				logger := initLogger(c.level, development)
				core := logger.Core()

				assert.True(t, core.Enabled(c.enabled))
				assert.False(t, core.Enabled(c.muted))
			}
		})
	}
}

// TestHelperProcess runs main in a child process started by runMain
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		t.Skip("only runs as a child process")
	}
	main()
}

// runMain re-executes the test binary as the service with exactly environ
func runMain(t *testing.T, environ ...string) (int, string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=^TestHelperProcess$")
	cmd.Env = append([]string{"GO_WANT_HELPER_PROCESS=1"}, environ...)
	cmd.Dir = t.TempDir()

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	require.NoError(t, ctx.Err(), "service did not exit: %s", stderr.String())

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), stderr.String()
	}
	require.NoError(t, err)
	return 0, stderr.String()
}

func freePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port
}

func TestMainExitsOnMissingConfig(t *testing.T) {
	required := map[string]string{
		"MONGODB_URI":     "mongodb://127.0.0.1:1",
		"ENV":             "test",
		"MONGODB_DB_NAME": "booking_app",
	}

	for missing := range required {
		t.Run(missing, func(t *testing.T) {
			environ := []string{"HTTP_PORT=" + strconv.Itoa(freePort(t))}
			for key, value := range required {
				if key != missing {
					environ = append(environ, key+"="+value)
				}
			}

			code, stderr := runMain(t, environ...)

			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, "Failed to load config")
			assert.Contains(t, stderr, missing)
			assert.NotContains(t, stderr, "starting HTTP server")
		})
	}
}

func TestMainExitsWhenDatabaseRequired(t *testing.T) {
	code, stderr := runMain(t,
		"ENV=test",
		"MONGODB_URI=mongodb://127.0.0.1:1",
		"MONGODB_DB_NAME=booking_app",
		"MONGODB_REQUIRE_ON_STARTUP=true",
		"MONGODB_CONNECT_TIMEOUT=200ms",
		"MONGODB_SERVER_SELECTION_TIMEOUT=200ms",
		"HEALTH_CHECK_TIMEOUT=500ms",
		"HTTP_PORT="+strconv.Itoa(freePort(t)),
		"GRPC_PORT="+strconv.Itoa(freePort(t)),
	)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "MongoDB unreachable at startup")
	assert.NotContains(t, stderr, "starting HTTP server")
	assert.NotContains(t, stderr, "starting gRPC server")
}
