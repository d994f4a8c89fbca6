package testutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/joho/godotenv"

	"github.com/utkarshverma439/SiteCraft-AI/internal/mockapi"
)

// TestServer wraps a mock API instance listening on a real port.
type TestServer struct {
	API     *mockapi.Server
	BaseURL string
	TempDir string
}

// TestServerOption configures TestServer
type TestServerOption func(*testServerConfig)

type testServerConfig struct {
	envFile string
	delay   time.Duration
}

// WithEnvFile sets the .env file to load
func WithEnvFile(path string) TestServerOption {
	return func(c *testServerConfig) {
		c.envFile = path
	}
}

// WithGenerationDelay makes every generation take at least d.
func WithGenerationDelay(d time.Duration) TestServerOption {
	return func(c *testServerConfig) {
		c.delay = d
	}
}

// StartTestServer creates and starts a mock API on a free local port.
func StartTestServer(opts ...TestServerOption) (*TestServer, error) {
	cfg := &testServerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.envFile != "" {
		_ = godotenv.Load(cfg.envFile)
	} else {
		_ = godotenv.Load("../../.env")
		_ = godotenv.Load(".env")
	}

	tempDir, err := os.MkdirTemp("", "sitecraft-test-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	apiCfg := mockapi.DefaultConfig()
	apiCfg.Addr = ln.Addr().String()
	apiCfg.GenerationDelay = cfg.delay
	api := mockapi.New(apiCfg)

	go func() {
		_ = api.Serve(ln)
	}()

	baseURL := fmt.Sprintf("http://%s%s", ln.Addr(), apiCfg.Prefix)
	if err := waitForServer(baseURL, 10*time.Second); err != nil {
		_ = api.Shutdown(context.Background())
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("server failed to start: %w", err)
	}

	return &TestServer{
		API:     api,
		BaseURL: baseURL,
		TempDir: tempDir,
	}, nil
}

// Stop shuts down the test server and cleans up
func (ts *TestServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if ts.API != nil {
		if err := ts.API.Shutdown(ctx); err != nil {
			return err
		}
	}
	if ts.TempDir != "" {
		os.RemoveAll(ts.TempDir)
	}
	return nil
}

// waitForServer polls the health endpoint until it answers 200.
func waitForServer(baseURL string, timeout time.Duration) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	b.MaxElapsedTime = timeout

	httpClient := &http.Client{Timeout: time.Second}
	return backoff.Retry(func() error {
		resp, err := httpClient.Get(baseURL + "/health")
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return errors.New(resp.Status)
		}
		return nil
	}, b)
}
