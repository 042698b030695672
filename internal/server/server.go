package server

import (
	"fmt"
	"net/http"

	"github.com/joeblew999/plat-textsnap/internal/config"
	"github.com/joeblew999/plat-textsnap/internal/errorx"
	"github.com/joeblew999/plat-textsnap/internal/handler"
	"github.com/joeblew999/plat-textsnap/internal/svc"
	"github.com/joeblew999/plat-textsnap/internal/ui"
	"github.com/joeblew999/plat-textsnap/pkg/maintenance"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/proc"
	"github.com/zeromicro/go-zero/core/prometheus"
	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/mcp"
	"github.com/zeromicro/go-zero/rest"
)

// Server wraps the MCP server, the web UI, the REST API and the background
// maintenance workers.
type Server struct {
	config config.Config
	group  *service.ServiceGroup
}

// New creates a new server instance.
func New(c config.Config) (*Server, error) {
	// Register global error handler for proper HTTP status codes
	errorx.RegisterErrorHandler()

	// Enable go-zero prometheus metrics (required for metric.CounterVec/HistogramVec/GaugeVec to record)
	prometheus.Enable()

	svcCtx, err := svc.NewServiceContext(c)
	if err != nil {
		return nil, err
	}

	// Create MCP server
	mcpServer := mcp.NewMcpServer(c.McpConf)
	RegisterMCPTools(mcpServer, svcCtx)

	engine := maintenance.NewEngine(svcCtx.Queue, svcCtx.Outputs, svcCtx.Fonts, maintenance.Config{
		Workers:      c.Maintenance.Workers,
		RetryBackoff: c.Maintenance.RetryBackoff,
		MaxBackoff:   c.Maintenance.MaxBackoff,
		JobTimeout:   c.Maintenance.JobTimeout,
	})

	// Create UI rest server (Datastar web UI) with CORS
	uiServer, err := rest.NewServer(c.UI.RestConf, rest.WithCors("*"))
	if err != nil {
		svcCtx.Close()
		return nil, fmt.Errorf("failed to create UI server: %w", err)
	}

	uiHandlers := ui.NewHandlers(svcCtx)
	uiServer.AddRoutes(uiHandlers.Routes())
	uiServer.AddRoutes(uiHandlers.SSERoutes(), rest.WithSSE())

	// Create API rest server (goctl-generated JSON REST API) with CORS
	apiServer, err := rest.NewServer(c.API.RestConf, rest.WithCors("*"))
	if err != nil {
		svcCtx.Close()
		return nil, fmt.Errorf("failed to create API server: %w", err)
	}

	handler.RegisterHandlers(apiServer, svcCtx)

	// Expose Prometheus metrics endpoint
	apiServer.AddRoute(rest.Route{
		Method:  http.MethodGet,
		Path:    "/metrics",
		Handler: promhttp.Handler().ServeHTTP,
	})

	// Register cleanup via proc shutdown listeners
	proc.AddShutdownListener(func() {
		logx.Info("Flushing render events and closing database")
		svcCtx.Close()
	})

	// Build service group: workers + UI + API + MCP (stopped in reverse order)
	group := service.NewServiceGroup()
	group.Add(engine)
	group.Add(newSweepService(svcCtx.Outputs, c.Output.Retention, c.Output.SweepInterval))
	group.Add(uiServer)
	group.Add(apiServer)
	group.Add(mcpServer)

	logx.Infow("plat-textsnap server configured",
		logx.Field("mcp", fmt.Sprintf("http://%s:%d/sse", c.Host, c.Port)),
		logx.Field("ui", fmt.Sprintf("http://%s:%d", c.UI.Host, c.UI.Port)),
		logx.Field("api", fmt.Sprintf("http://%s:%d/api/v1", c.API.Host, c.API.Port)),
		logx.Field("fonts", c.Fonts.Dir),
		logx.Field("output", c.Output.Dir),
		logx.Field("database", c.Database.Path),
	)
	logx.Infof("To add to Claude: claude mcp add plat-textsnap -- npx -y mcp-remote http://localhost:%d/sse", c.Port)

	return &Server{config: c, group: group}, nil
}

// Start starts all services. Blocks until shutdown signal.
func (s *Server) Start() {
	s.group.Start()
}

// Stop stops all services.
func (s *Server) Stop() {
	s.group.Stop()
}
