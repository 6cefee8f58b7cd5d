package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Names of the SSE events sent by GET /run/events. Engine events use
// their kind ("cell", "finished"); the stream always ends with "result".
const sseResult = "result"

// RunController starts, cancels and streams search runs.
type RunController struct {
	session *Session
	baseURL string
}

// NewRunController wires a session. baseURL prefixes the events link
// returned by POST /run.
func NewRunController(s *Session, baseURL string) *RunController {
	return &RunController{session: s, baseURL: baseURL}
}

// Register mounts the routes on route.
func (rc *RunController) Register(route *gin.RouterGroup) {
	run := route.Group("/run")
	{
		run.POST("", rc.start)
		run.DELETE("", rc.cancel)
		run.GET("/events", rc.events)
	}
}

func (rc *RunController) start(ctx *gin.Context) {
	id, err := rc.session.StartRun()
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusAccepted, RunResponse{ID: id.String(), Events: rc.baseURL + "/run/events"})
}

func (rc *RunController) cancel(ctx *gin.Context) {
	res, ok := rc.session.CancelRun()
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no run"})
		return
	}
	ctx.JSON(http.StatusOK, res)
}

// events replays the latest run from its first event and follows it until
// it ends or the client goes away.
func (rc *RunController) events(ctx *gin.Context) {
	run := rc.session.currentRun()
	if run == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no run"})
		return
	}
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("X-Run-ID", run.id.String())

	next := 0
	ctx.Stream(func(io.Writer) bool {
		evs, done, changed := run.since(next)
		for _, e := range evs {
			ctx.SSEvent(e.Kind.String(), e)
		}
		next += len(evs)
		if len(evs) > 0 {
			return true
		}
		if done {
			_, _, res := run.snapshot()
			ctx.SSEvent(sseResult, res)
			return false
		}
		select {
		case <-changed:
			return true
		case <-ctx.Request.Context().Done():
			return false
		}
	})
}
