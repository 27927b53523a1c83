// Package apiserver is the optional status server: while an engine's main
// loop runs, it reports depth/power, induction-frame size, and the last
// witness over a small read-only gin JSON API. A verifier has no replicas
// to coordinate, so this carries no message-dispatch routes (see
// DESIGN.md).
package apiserver

import (
	goctx "context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hornkernel/chck/engine/core"
	"github.com/hornkernel/chck/log"
	"github.com/hornkernel/chck/types"
	"github.com/hornkernel/chck/util"
)

// DefaultAddr is the default address of the APIServer.
const DefaultAddr = "0.0.0.0:7074"

// APIServer runs a read-only HTTP status endpoint over a running or
// completed verification.
type APIServer struct {
	router *gin.Engine
	server *http.Server
	addr   string

	progress *core.Progress

	resultMu sync.RWMutex
	result   *core.VerificationResult

	requestID *util.Counter

	*types.BaseService
}

// NewAPIServer instantiates an APIServer reporting progress from p (which
// may be nil if the selected engine was not given a Progress tracker) under
// logger, listening on addr.
func NewAPIServer(addr string, p *core.Progress, logger *log.Logger) *APIServer {
	srv := &APIServer{
		addr:        addr,
		progress:    p,
		requestID:   util.NewCounter(),
		BaseService: types.NewBaseService("APIServer", logger),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(srv.logMiddleware)
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/status")
	})
	router.GET("/status", srv.handleStatus)
	router.GET("/result", srv.handleResult)

	srv.router = router
	srv.server = &http.Server{
		Addr:    addr,
		Handler: router,
	}
	return srv
}

// SetResult records the final VerificationResult once the engine's Solve
// call returns, so /result stops reporting "running" and starts reporting
// the verdict.
func (a *APIServer) SetResult(r *core.VerificationResult) {
	a.resultMu.Lock()
	defer a.resultMu.Unlock()
	a.result = r
}

func (a *APIServer) logMiddleware(c *gin.Context) {
	start := time.Now()
	reqPath := c.Request.URL.Path
	raw := c.Request.URL.RawQuery
	reqID := a.requestID.Next()

	c.Next()

	end := time.Now()
	if raw != "" {
		reqPath = reqPath + "?" + raw
	}
	a.Logger.With(log.LogParams{
		"request_id":  reqID,
		"timestamp":   end,
		"latency":     end.Sub(start).String(),
		"client_ip":   c.ClientIP(),
		"method":      c.Request.Method,
		"status_code": c.Writer.Status(),
		"path":        reqPath,
	}).Debug("Handled request")
}

// Start starts the APIServer and implements types.Service.
func (a *APIServer) Start() error {
	a.StartRunning()
	go func() {
		a.Logger.With(log.LogParams{"addr": a.addr}).Info("status server starting")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.With(log.LogParams{"addr": a.addr, "err": err}).Error("status server closed unexpectedly")
		}
	}()
	return nil
}

// Stop stops the APIServer and implements types.Service.
func (a *APIServer) Stop() error {
	a.StopRunning()
	ctx, cancel := goctx.WithTimeout(goctx.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		a.Logger.Error("status server forcefully shut down")
		return err
	}
	a.Logger.Info("status server stopped")
	return nil
}
