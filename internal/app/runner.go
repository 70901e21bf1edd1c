package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/pflag"

	"github.com/sha1n/staffing-mcp/internal/config"
	mcputil "github.com/sha1n/staffing-mcp/internal/mcp"
	"github.com/sha1n/staffing-mcp/internal/staffing"
	"github.com/sha1n/staffing-mcp/internal/storage/sqlite"
)

// ServerName is the MCP implementation name announced to clients
const ServerName = "staffing-mcp"

// RunParams contains dependencies for the run function
type RunParams struct {
	LoadSettings      func(*pflag.FlagSet) (*config.Settings, error)
	ValidSettings     func(*config.Settings) error
	StartSSEServer    func(*mcp.Server, *config.Settings) error
	CreateServer      func(*config.Settings, string) (*mcp.Server, func(), error)
	CustomIOTransport mcp.Transport // Optional: for testing with custom IO
}

// DefaultRunParams returns production dependencies
func DefaultRunParams() RunParams {
	return RunParams{
		LoadSettings:   config.LoadSettingsWithFlags,
		ValidSettings:  config.ValidateSettings,
		StartSSEServer: StartSSEServer,
		CreateServer:   CreateMCPServer,
	}
}

// RunWithDeps executes the server with the provided dependencies
func RunWithDeps(ctx context.Context, params RunParams, flags *pflag.FlagSet, version string) error {
	// Load settings
	settings, err := params.LoadSettings(flags)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// Validate settings for conflicting configurations
	if err := params.ValidSettings(settings); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Configure logging - always use stderr, stdout carries the stdio transport
	logger, err := config.NewLogger(os.Stderr, settings.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	slog.SetDefault(logger)

	slog.Info("Starting staffing MCP server", "version", version)
	config.Log(settings)

	mcpServer, cleanup, err := params.CreateServer(settings, version)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	// Start server
	if settings.Transport == "stdio" {
		// Use custom transport if provided (for testing), otherwise use stdio
		transport := params.CustomIOTransport
		if transport == nil {
			transport = &mcp.StdioTransport{}
		}
		return mcpServer.Run(ctx, transport)
	}

	slog.Info("Starting SSE server", "host", settings.Host, "port", settings.Port)
	return params.StartSSEServer(mcpServer, settings)
}

// CreateMCPServer opens the record store, builds the staffing services on
// top of it and registers their tools. The returned cleanup function drains
// pending keyword recomputations and closes the store.
func CreateMCPServer(settings *config.Settings, version string) (*mcp.Server, func(), error) {
	store, err := sqlite.NewStore(settings.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close store", "error", err)
		}
	}

	schemaVersion, err := store.SchemaVersion(context.Background())
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("failed to read store schema version: %w", err)
	}
	slog.Info("Opened record store", "path", store.Path(), "schema_version", schemaVersion)

	mode, err := staffing.ParseRecomputeMode(settings.Keywords.RecomputeMode)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	recomputer, err := staffing.NewRecomputer(store,
		staffing.WithRecomputeMode(mode),
		staffing.WithRecomputeWorkers(settings.Keywords.RecomputeWorkers),
		staffing.WithRecomputeTimeout(settings.Keywords.RecomputeTimeout),
		staffing.WithRecomputeRetries(uint64(max(settings.Keywords.RecomputeRetries, 0))),
		staffing.WithRecomputeLogger(slog.Default()),
	)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("failed to create keyword recomputer: %w", err)
	}

	records, err := staffing.NewRecordService(store, recomputer, slog.Default())
	if err != nil {
		recomputer.Close()
		closeStore()
		return nil, nil, fmt.Errorf("failed to create record service: %w", err)
	}

	search, err := staffing.NewSearchService(store,
		staffing.WithMaxLimit(settings.Search.MaxLimit),
		staffing.WithPositionWorkers(settings.Search.PositionWorkers),
		staffing.WithSearchLogger(slog.Default()),
	)
	if err != nil {
		recomputer.Close()
		closeStore()
		return nil, nil, fmt.Errorf("failed to create search service: %w", err)
	}

	server := mcputil.CreateServer(mcputil.ServerConfig{
		Name:         ServerName,
		Version:      version,
		Search:       search,
		DefaultLimit: settings.Search.DefaultLimit,
		Records:      records,
	})

	cleanup := func() {
		search.Close()
		recomputer.Close()
		closeStore()
	}

	return server, cleanup, nil
}
