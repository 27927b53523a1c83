package apiserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleStatus is the handler for GET /status: a point-in-time snapshot of
// the running engine's progress counters, or zero values if no Progress
// tracker was wired in.
func (a *APIServer) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, a.progress.Snapshot())
}

// handleResult is the handler for GET /result: the final verdict once the
// engine's Solve call has returned, or "running": true while it hasn't.
func (a *APIServer) handleResult(c *gin.Context) {
	a.resultMu.RLock()
	result := a.result
	a.resultMu.RUnlock()

	if result == nil {
		c.JSON(http.StatusOK, gin.H{"running": true})
		return
	}

	body := gin.H{
		"running": false,
		"verdict": result.Verdict.String(),
	}
	if result.Depth >= 0 {
		body["depth"] = result.Depth
	}
	if result.Invariant != nil {
		body["invariant"] = result.Invariant.String()
	}
	c.JSON(http.StatusOK, body)
}
