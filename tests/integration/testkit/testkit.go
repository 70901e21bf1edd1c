package testkit

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/pflag"

	"github.com/sha1n/staffing-mcp/internal/app"
	"github.com/sha1n/staffing-mcp/internal/config"
)

// Property names published by StaffingService.Start
const (
	PropURL       = "url"
	PropStorePath = "store_path"
)

// Service represents a test service that can be started and stopped
type Service interface {
	Start() (map[string]any, error)
	Stop() error
	GetName() string
}

// TestEnvContext provides access to properties collected during environment startup
type TestEnvContext interface {
	GetProperties() map[string]any
	GetProperty(name string) (any, bool)
}

// TestEnv manages the lifecycle of test services
type TestEnv interface {
	Start() (map[string]any, error)
	Stop() error
	GetContext() TestEnvContext
}

type testEnvContextImpl struct {
	properties map[string]any
}

func (c *testEnvContextImpl) GetProperties() map[string]any {
	return c.properties
}

func (c *testEnvContextImpl) GetProperty(name string) (any, bool) {
	val, ok := c.properties[name]
	return val, ok
}

type testEnvImpl struct {
	services []Service
	context  *testEnvContextImpl
}

// NewTestEnv creates a new test environment with the given services
func NewTestEnv(services ...Service) TestEnv {
	return &testEnvImpl{
		services: services,
		context:  &testEnvContextImpl{properties: make(map[string]any)},
	}
}

func (e *testEnvImpl) Start() (map[string]any, error) {
	for _, s := range e.services {
		props, err := s.Start()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.GetName(), err)
		}
		for k, v := range props {
			e.context.properties[k] = v
		}
	}
	return e.context.properties, nil
}

func (e *testEnvImpl) Stop() error {
	var lastErr error
	// Stop in reverse order
	for i := len(e.services) - 1; i >= 0; i-- {
		if err := e.services[i].Stop(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (e *testEnvImpl) GetContext() TestEnvContext {
	return e.context
}

// GetFreePort returns a free port from the kernel
func GetFreePort() (int, error) {
	return getFreePortWithAddr("localhost:0")
}

// MustGetFreePort returns a free port or fails the test
func MustGetFreePort(t testing.TB) int {
	t.Helper()
	port, err := GetFreePort()
	if err != nil {
		t.Fatalf("Failed to get free port: %v", err)
	}
	return port
}

func getFreePortWithAddr(addrStr string) (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", addrStr)
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer func() { _ = l.Close() }()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// FlagOptions configures NewTestFlags
type FlagOptions struct {
	Port          int    // Uses free port if 0
	Transport     string // Defaults to "sse"
	Host          string // Defaults to "localhost"
	StorePath     string // Defaults to a file under t.TempDir()
	RecomputeMode string // Defaults to "sync"
}

// NewTestFlags creates a configured pflag.FlagSet for testing
func NewTestFlags(t testing.TB, opts *FlagOptions) *pflag.FlagSet {
	t.Helper()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	app.RegisterFlags(flags)

	o := FlagOptions{}
	if opts != nil {
		o = *opts
	}
	if o.Port == 0 {
		o.Port = MustGetFreePort(t)
	}
	if o.Transport == "" {
		o.Transport = "sse"
	}
	if o.Host == "" {
		o.Host = "localhost"
	}
	if o.StorePath == "" {
		o.StorePath = filepath.Join(t.TempDir(), "staffing.db")
	}
	if o.RecomputeMode == "" {
		o.RecomputeMode = config.RecomputeModeSync
	}

	_ = flags.Set("port", fmt.Sprintf("%d", o.Port))
	_ = flags.Set("transport", o.Transport)
	_ = flags.Set("host", o.Host)
	_ = flags.Set("store-path", o.StorePath)
	_ = flags.Set("keywords-recompute-mode", o.RecomputeMode)
	_ = flags.Set("log-level", "error")

	return flags
}

// StaffingService runs the full staffing server over SSE in-process.
// Start publishes PropURL and PropStorePath.
type StaffingService struct {
	T       testing.TB
	Options *FlagOptions

	srv  *http.Server
	done chan error
}

// GetName returns the service name
func (s *StaffingService) GetName() string {
	return "staffing-mcp"
}

// Start runs the server and blocks until its health endpoint answers
func (s *StaffingService) Start() (map[string]any, error) {
	flags := NewTestFlags(s.T, s.Options)
	host, _ := flags.GetString("host")
	port, _ := flags.GetInt("port")
	storePath, _ := flags.GetString("store-path")

	ready := make(chan *http.Server, 1)
	params := app.DefaultRunParams()
	params.StartSSEServer = func(server *mcp.Server, settings *config.Settings) error {
		srv := app.NewSSEServer(server, settings)
		ready <- srv
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	s.done = make(chan error, 1)
	go func() {
		s.done <- app.RunWithDeps(context.Background(), params, flags, "test")
	}()

	select {
	case s.srv = <-ready:
	case err := <-s.done:
		return nil, fmt.Errorf("server exited before listening: %w", err)
	case <-time.After(10 * time.Second):
		return nil, errors.New("timed out waiting for server")
	}

	url := fmt.Sprintf("http://%s:%d", host, port)
	if err := waitHealthy(url+"/health", 5*time.Second); err != nil {
		return nil, err
	}

	return map[string]any{
		PropURL:       url,
		PropStorePath: storePath,
	}, nil
}

// Stop shuts the server down and waits for the run loop to release the store
func (s *StaffingService) Stop() error {
	if s.srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	srv := s.srv
	s.srv = nil

	// Open SSE streams never turn idle, so a graceful shutdown may time out
	err := srv.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		err = srv.Close()
	}

	select {
	case runErr := <-s.done:
		if err == nil {
			err = runErr
		}
	case <-time.After(5 * time.Second):
		if err == nil {
			err = errors.New("timed out waiting for server to exit")
		}
	}
	return err
}

func waitHealthy(url string, timeout time.Duration) error {
	client := &http.Client{Timeout: time.Second}
	deadline := time.Now().Add(timeout)
	for {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("server at %s not healthy after %v", url, timeout)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
