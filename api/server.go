package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/qtraffics/qtmon/ex"
	"github.com/qtraffics/qtmon/log"
	"github.com/qtraffics/qtmon/sys/sysmetrics"
	"github.com/qtraffics/qtmon/threads"
	"github.com/qtraffics/qtmon/values"

	"github.com/dgraph-io/ristretto"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	defaultCollectTimeout = 5 * time.Second
	defaultStreamQueue    = 4
	shutdownTimeout       = 5 * time.Second
	snapshotCacheKey      = "snapshot"
)

// Stream hands out live snapshots. *sysmetrics.Watcher implements it.
type Stream interface {
	Subscribe(queue int) threads.Subscriber[*sysmetrics.Snapshot]
	Latest() *sysmetrics.Snapshot
}

type Options struct {
	Listen         string
	CacheTTL       time.Duration
	CollectTimeout time.Duration
	StreamQueue    int
	Logger         log.Logger
}

// Server exposes snapshots over HTTP:
//
//	GET /api/monitor     one snapshot, cached for CacheTTL
//	GET /api/monitor/ws  a websocket receiving every snapshot the stream publishes
//	GET /health
type Server struct {
	logger  log.Logger
	source  sysmetrics.Source
	stream  Stream
	options Options

	cache     *ristretto.Cache
	closeOnce sync.Once
	engine    *gin.Engine
	upgrader  websocket.Upgrader

	access   sync.Mutex
	http     *http.Server
	listener net.Listener
	served   chan struct{}
}

func NewServer(source sysmetrics.Source, stream Stream, options Options) (*Server, error) {
	options.CollectTimeout = values.UseDefault(options.CollectTimeout, defaultCollectTimeout)
	options.StreamQueue = values.UseDefault(options.StreamQueue, defaultStreamQueue)
	logger := values.UseDefaultNil(options.Logger, log.Default())

	s := &Server{
		logger:  log.With(logger, log.NewMetadata("component", "api")),
		source:  source,
		stream:  stream,
		options: options,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	if options.CacheTTL > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters:        100,
			MaxCost:            16,
			BufferItems:        64,
			IgnoreInternalCost: true,
		})
		if err != nil {
			return nil, ex.Cause(err, "snapshot cache")
		}
		s.cache = cache
	}

	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), requestLogger(s.logger))
	s.engine.GET("/health", s.handleHealth)
	monitor := s.engine.Group("/api/monitor")
	{
		monitor.GET("", s.handleSnapshot)
		if stream != nil {
			monitor.GET("/ws", s.handleStream)
		}
	}
	return s, nil
}

func (s *Server) Type() string {
	return "api"
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Start(ctx context.Context) error {
	s.access.Lock()
	defer s.access.Unlock()
	if s.http != nil {
		return nil
	}

	listener, err := net.Listen("tcp", s.options.Listen)
	if err != nil {
		return ex.Cause(err, "listen")
	}
	s.listener = listener
	s.served = make(chan struct{})
	s.http = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	go func() {
		defer close(s.served)
		err := s.http.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server quit unexpected", log.AttrError(err))
		}
	}()
	s.logger.Info("serving monitor api", slog.String("listen", listener.Addr().String()))
	return nil
}

// Addr is the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.access.Lock()
	defer s.access.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) Close() error {
	s.access.Lock()
	server, served := s.http, s.served
	s.http, s.listener = nil, nil
	s.access.Unlock()

	var errs ex.JoinError
	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		errs.NewError(ex.Cause(server.Shutdown(ctx), "shutdown"))
		<-served
	}
	s.closeOnce.Do(func() {
		if s.cache != nil {
			s.cache.Close()
		}
	})
	return errs.Err()
}

func requestLogger(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request served",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			log.AttrDuration(time.Since(start)))
	}
}
