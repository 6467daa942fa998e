package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/qtraffics/qtmon/log"
	"github.com/qtraffics/qtmon/sys/sysmetrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSnapshot(c *gin.Context) {
	if snap, ok := s.cached(); ok {
		c.JSON(http.StatusOK, snap)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.options.CollectTimeout)
	defer cancel()
	snap := s.source.Collect(ctx)
	// an aborted or partial collection is served once but never shared
	if ctx.Err() == nil && !snap.Degraded() {
		s.store(snap)
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) cached() (*sysmetrics.Snapshot, bool) {
	if s.cache == nil {
		return nil, false
	}
	v, ok := s.cache.Get(snapshotCacheKey)
	if !ok {
		return nil, false
	}
	snap, ok := v.(*sysmetrics.Snapshot)
	return snap, ok
}

func (s *Server) store(snap *sysmetrics.Snapshot) {
	if s.cache == nil {
		return
	}
	s.cache.SetWithTTL(snapshotCacheKey, snap, 1, s.options.CacheTTL)
	s.cache.Wait()
}

func (s *Server) handleStream(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", log.AttrError(err))
		return
	}
	defer conn.Close()

	logger := log.With(s.logger, slog.String("stream", uuid.NewString()))
	sub := s.stream.Subscribe(s.options.StreamQueue)
	defer sub.Unsubscribe()
	logger.Debug("stream opened", slog.String("remote", c.Request.RemoteAddr))

	// the client only sends control frames; reading surfaces its close
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongTimeout))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	if latest := s.stream.Latest(); latest != nil {
		if err = s.write(conn, latest); err != nil {
			logger.Debug("stream write failed", log.AttrError(err))
			return
		}
	}

	ping := time.NewTicker(pongTimeout / 2)
	defer ping.Stop()
	for {
		select {
		case <-gone:
			logger.Debug("stream closed by client")
			return
		case <-ping.C:
			if err = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		case snap, ok := <-sub.Channel():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeTimeout))
				return
			}
			if err = s.write(conn, snap); err != nil {
				logger.Debug("stream write failed", log.AttrError(err))
				return
			}
		}
	}
}

func (s *Server) write(conn *websocket.Conn, snap *sysmetrics.Snapshot) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(snap)
}
