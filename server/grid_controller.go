package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/katalvlaran/astarviz/grid"
	"github.com/katalvlaran/astarviz/maze"
	"github.com/katalvlaran/astarviz/store"
)

// maxMazeBody bounds PUT /maze uploads.
const maxMazeBody = 16 << 20

// GridController serves grid editing and maze import/export.
type GridController struct {
	session *Session
	store   store.Store
}

// NewGridController wires a session and a maze store. st may be nil, in
// which case the /mazes routes are not registered.
func NewGridController(s *Session, st store.Store) *GridController {
	return &GridController{session: s, store: st}
}

// Register mounts the routes on route.
func (gc *GridController) Register(route *gin.RouterGroup) {
	g := route.Group("/grid")
	{
		g.GET("", gc.snapshot)
		g.POST("", gc.create)
		g.POST("/random", gc.randomize)
		g.PUT("/walls", gc.setWalls)
		g.DELETE("/walls", gc.clearWalls)
	}
	route.GET("/maze", gc.exportMaze)
	route.PUT("/maze", gc.importMaze)
	if gc.store != nil {
		route.GET("/mazes", gc.listMazes)
		route.GET("/mazes/:name", gc.loadMaze)
		route.PUT("/mazes/:name", gc.saveMaze)
		route.DELETE("/mazes/:name", gc.deleteMaze)
	}
}

func (gc *GridController) snapshot(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gc.session.Snapshot())
}

func (gc *GridController) create(ctx *gin.Context) {
	var req NewGridRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := gc.session.Resize(req.Rows, req.Cols, req.Density, req.Seed); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gc.session.Snapshot())
}

func (gc *GridController) randomize(ctx *gin.Context) {
	var req RandomizeRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if err := gc.session.Randomize(req.Density, req.Seed); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gc.session.Snapshot())
}

func (gc *GridController) setWalls(ctx *gin.Context) {
	var req WallsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := gc.session.SetWalls(req.Cells, req.Wall); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (gc *GridController) clearWalls(ctx *gin.Context) {
	if err := gc.session.ClearWalls(); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (gc *GridController) exportMaze(ctx *gin.Context) {
	var text string
	gc.session.WithGrid(func(g *grid.Grid, _ bool) { text = maze.Marshal(g) })
	ctx.String(http.StatusOK, text)
}

func (gc *GridController) importMaze(ctx *gin.Context) {
	g, err := maze.Decode(io.LimitReader(ctx.Request.Body, maxMazeBody))
	if err != nil {
		writeError(ctx, err)
		return
	}
	gc.session.Replace(g)
	ctx.JSON(http.StatusOK, gc.session.Snapshot())
}

func (gc *GridController) listMazes(ctx *gin.Context) {
	names, err := gc.store.List(ctx.Request.Context())
	if err != nil {
		writeError(ctx, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	ctx.JSON(http.StatusOK, gin.H{"mazes": names})
}

// loadMaze replaces the session grid with a stored maze.
func (gc *GridController) loadMaze(ctx *gin.Context) {
	g, err := gc.store.Load(ctx.Request.Context(), ctx.Param("name"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	gc.session.Replace(g)
	ctx.JSON(http.StatusOK, gc.session.Snapshot())
}

// saveMaze stores the session grid. Only walls and roles are copied, so a
// run in progress does not block it.
func (gc *GridController) saveMaze(ctx *gin.Context) {
	var (
		layout *grid.Grid
		err    error
	)
	gc.session.WithGrid(func(g *grid.Grid, _ bool) {
		layout, err = maze.Unmarshal(maze.Marshal(g))
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	if err = gc.store.Save(ctx.Request.Context(), ctx.Param("name"), layout); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (gc *GridController) deleteMaze(ctx *gin.Context) {
	if err := gc.store.Delete(ctx.Request.Context(), ctx.Param("name")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// writeError maps domain errors onto HTTP status codes.
func writeError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrRunActive), errors.Is(err, grid.ErrGridBusy):
		status = http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrInvalidName),
		errors.Is(err, maze.ErrMalformedMaze),
		errors.Is(err, maze.ErrEmptyMaze),
		errors.Is(err, grid.ErrOutOfBounds),
		errors.Is(err, grid.ErrEmptyGrid),
		errors.Is(err, grid.ErrGridTooLarge),
		errors.Is(err, grid.ErrSameEndpoints),
		errors.Is(err, grid.ErrBadDensity):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		_ = ctx.Error(err)
		ctx.JSON(status, gin.H{"error": "internal error"})
		return
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
