// Package http 注册表 HTTP 网关
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weisyn/mintregistry/internal/api/http/handlers"
	"github.com/weisyn/mintregistry/internal/api/http/middleware"
	"github.com/weisyn/mintregistry/internal/api/websocket"
	apiconfig "github.com/weisyn/mintregistry/internal/config/api"
	"github.com/weisyn/mintregistry/internal/core/registry/host"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/writegate"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

// Deps 服务器依赖，EventBus/Registerer/Gatherer/WriteGate 可为 nil
type Deps struct {
	Registry   registry.Registry
	Addresses  crypto.AddressManager
	EventBus   event.EventBus
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	WriteGate  writegate.WriteGate
	Logger     log.Logger
}

// Server HTTP服务器
type Server struct {
	router     *gin.Engine  // Gin路由引擎
	httpServer *http.Server // 标准HTTP服务器
	options    apiconfig.HTTPConfig
	logger     log.Logger
	events     *websocket.SubscriptionManager

	// addr 实际监听地址，端口为0时由系统分配
	addr string
}

// New 创建HTTP服务器并注册路由，不开始监听
func New(options apiconfig.HTTPConfig, deps Deps) (*Server, error) {
	if deps.Registry == nil || deps.Addresses == nil || deps.Logger == nil {
		return nil, errors.New("http server requires registry, address manager and logger")
	}

	s := &Server{
		router:  gin.New(),
		options: options,
		logger:  deps.Logger,
	}
	if err := s.setupRoutes(deps); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler 返回路由引擎，测试中直接配合 httptest 使用
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes 设置中间件和路由
func (s *Server) setupRoutes(deps Deps) error {
	zl := s.logger.GetZapLogger()

	s.router.Use(
		gin.Recovery(),
		middleware.NewRequestID().Middleware(),
		middleware.NewLogger(s.logger).Middleware(),
		middleware.NewMetrics(zl, deps.Registerer).Middleware(),
		middleware.NewRateLimit(zl, s.options.ReadRateLimit, s.options.WriteRateLimit).Middleware(),
		middleware.NewRequestGuard(zl, s.options.MaxRequestSize).Middleware(),
		middleware.ErrorHandler(zl),
	)

	health := handlers.NewHealthHandler(deps.Registry, deps.WriteGate)
	s.router.GET("/health", health.Health)

	group := s.router.Group("/api/v1/registry")
	handlers.NewRegistryHandlers(deps.Registry, deps.Addresses, s.logger).RegisterRoutes(group)

	if s.options.EnableWebSocket && deps.EventBus != nil {
		manager, err := websocket.NewSubscriptionManager(s.logger, deps.EventBus, host.AllEventTypes)
		if err != nil {
			return fmt.Errorf("创建事件推送失败: %w", err)
		}
		s.events = manager
		websocket.NewServer(s.logger, manager).RegisterRoutes(group)
	}

	if s.options.EnableMetrics && deps.Gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	s.logger.Debugf("HTTP路由注册完成，共 %d 条", len(s.router.Routes()))
	return nil
}

// Start 开始监听，监听失败同步返回
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.options.Host, fmt.Sprintf("%d", s.options.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("监听 %s 失败: %w", addr, err)
	}
	s.addr = listener.Addr().String()

	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.options.ReadTimeout,
		WriteTimeout: s.options.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		// 正常关闭时返回 http.ErrServerClosed
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("HTTP服务器运行失败: %v", err)
		}
	}()

	s.logger.Infof("HTTP服务器启动成功，监听地址: %s", s.addr)
	s.logger.Infof("API端点: http://%s/api/v1/registry/", s.addr)
	return nil
}

// Addr 实际监听地址，Start 之前为空
func (s *Server) Addr() string {
	return s.addr
}

// Stop 优雅关闭，等待进行中的请求完成
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("正在关闭HTTP服务器")

	timeout := s.options.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	stopCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(stopCtx); err != nil {
		s.logger.Errorf("HTTP服务器关闭出错: %v", err)
		return err
	}

	s.logger.Info("HTTP服务器已关闭")
	return nil
}
