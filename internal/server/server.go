// Package server exposes sessions over a JSON HTTP API for web clients.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wireworld/internal/core"
	"wireworld/internal/level"
	"wireworld/internal/session"
	"wireworld/internal/sims/wireworld"
)

// MaxTicksPerRequest bounds POST /sessions/:id/tick.
const MaxTicksPerRequest = 10000

// Options configures a Server.
type Options struct {
	Catalog  *level.Catalog
	Load     level.Loader
	Logger   *slog.Logger
	Interval time.Duration
	Metrics  bool
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type entry struct {
	mu sync.Mutex
	s  *session.Session
}

// Server owns the live sessions. Each session is serialized by its own
// mutex; requests for different sessions run in parallel.
type Server struct {
	opts   Options
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*entry
}

// New constructs a Server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Catalog == nil {
		opts.Catalog = &level.Catalog{}
	}
	return &Server{opts: opts, logger: logger, sessions: map[string]*entry{}}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/levels", s.handleLevels)
	if s.opts.Metrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	g := r.Group("/sessions")
	g.POST("", s.handleCreate)
	g.GET("/:id", s.withSession(s.handleStatus))
	g.DELETE("/:id", s.handleDelete)
	g.GET("/:id/grid", s.withSession(s.handleGrid))
	g.POST("/:id/tick", s.withSession(s.handleTick))
	g.POST("/:id/edit", s.withSession(s.handleEdit))
	g.POST("/:id/play", s.withSession(s.handlePlay))
	g.POST("/:id/pause", s.withSession(func(c *gin.Context, ss *session.Session) {
		ss.Pause()
		c.JSON(http.StatusOK, ss.Status())
	}))
	g.POST("/:id/resume", s.withSession(func(c *gin.Context, ss *session.Session) {
		ss.Resume()
		c.JSON(http.StatusOK, ss.Status())
	}))
	g.POST("/:id/restart", s.withSession(func(c *gin.Context, ss *session.Session) {
		ss.Restart()
		c.JSON(http.StatusOK, ss.Status())
	}))
	g.POST("/:id/reload", s.withSession(s.handleReload))
	return r
}

// Len reports the number of live sessions.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Server) withSession(h func(*gin.Context, *session.Session)) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.RLock()
		e, ok := s.sessions[c.Param("id")]
		s.mu.RUnlock()
		if !ok {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found", Code: "NOT_FOUND"})
			return
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		h(c, e.s)
	}
}

func (s *Server) handleLevels(c *gin.Context) {
	c.JSON(http.StatusOK, s.opts.Catalog)
}

// CreateRequest starts a session from a catalog file or inline level text.
type CreateRequest struct {
	File  string `json:"file"`
	Level string `json:"level"`
}

func (s *Server) handleCreate(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}

	var desc *level.Descriptor
	var err error
	switch {
	case req.Level != "":
		desc, err = level.Parse(req.Level)
	case req.File != "" && s.opts.Load != nil:
		if _, ok := s.opts.Catalog.Find(req.File); !ok {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "level not in catalog", Code: "UNKNOWN_LEVEL"})
			return
		}
		desc, err = s.opts.Load(req.File)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file or level required", Code: "INVALID_REQUEST"})
		return
	}
	if err != nil {
		code := "LOAD_FAILED"
		status := http.StatusInternalServerError
		if errors.Is(err, level.ErrMalformedLevel) {
			code = "MALFORMED_LEVEL"
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}

	ss, err := session.New(desc, session.WithLogger(s.logger), session.WithInterval(s.opts.Interval))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "SESSION_FAILED"})
		return
	}
	id := ss.ID().String()
	s.mu.Lock()
	s.sessions[id] = &entry{s: ss}
	s.mu.Unlock()
	s.logger.Info("session created", "session", id, "level", desc.Name)
	c.JSON(http.StatusCreated, ss.Status())
}

func (s *Server) handleDelete(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found", Code: "NOT_FOUND"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleStatus(c *gin.Context, ss *session.Session) {
	c.JSON(http.StatusOK, ss.Status())
}

// GridResponse lists the grid rows in level file syntax.
type GridResponse struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Rows   []string `json:"rows"`
}

func (s *Server) handleGrid(c *gin.Context, ss *session.Session) {
	size := ss.Size()
	c.JSON(http.StatusOK, GridResponse{Width: size.W, Height: size.H, Rows: level.FormatRows(ss.World().Cells(), size)})
}

// TickRequest asks for Count ticks; zero means one.
type TickRequest struct {
	Count int `json:"count"`
}

// TickReport summarizes one tick.
type TickReport struct {
	Tick     int             `json:"tick"`
	Exercise int             `json:"exercise"`
	Outcome  session.Outcome `json:"outcome"`
	Changes  int             `json:"changes"`
}

// TickResponse is returned by POST /sessions/:id/tick.
type TickResponse struct {
	Reports []TickReport   `json:"reports"`
	Status  session.Status `json:"status"`
}

func (s *Server) handleTick(c *gin.Context, ss *session.Session) {
	var req TickRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
			return
		}
	}
	if req.Count <= 0 {
		req.Count = 1
	}
	if req.Count > MaxTicksPerRequest {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "count too large", Code: "INVALID_REQUEST"})
		return
	}
	resp := TickResponse{Reports: make([]TickReport, 0, req.Count)}
	for i := 0; i < req.Count; i++ {
		r := ss.Tick()
		resp.Reports = append(resp.Reports, TickReport{Tick: r.Tick, Exercise: r.Exercise, Outcome: r.Outcome, Changes: len(r.Changes)})
		// Stop where a front-end would: the clock pauses on these outcomes.
		if r.Outcome == session.OutcomeFailed || r.Outcome == session.OutcomeLevelComplete {
			break
		}
	}
	resp.Status = ss.Status()
	c.JSON(http.StatusOK, resp)
}

// EditRequest paints one cell.
type EditRequest struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Kind string `json:"kind" binding:"required"`
}

// EditResponse reports the accepted change.
type EditResponse struct {
	Pos core.Point `json:"pos"`
	Old string     `json:"old"`
	New string     `json:"new"`
}

func (s *Server) handleEdit(c *gin.Context, ss *session.Session) {
	var req EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}
	kind, err := wireworld.ParseKind(req.Kind)
	if err != nil || kind == wireworld.KindTail {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "kind must be empty, wire or electron", Code: "INVALID_KIND"})
		return
	}
	ch, err := ss.Edit(core.Point{X: req.X, Y: req.Y}, kind)
	if err != nil {
		status, code := http.StatusConflict, "REJECTED"
		switch {
		case errors.Is(err, session.ErrOutOfBounds):
			status, code = http.StatusBadRequest, "OUT_OF_BOUNDS"
		case errors.Is(err, session.ErrLocked):
			code = "LOCKED"
		case errors.Is(err, session.ErrFixedCell):
			code = "FIXED_CELL"
		case errors.Is(err, session.ErrElectronUnavailable):
			code = "ELECTRON_UNAVAILABLE"
		}
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}
	c.JSON(http.StatusOK, EditResponse{Pos: ch.Pos, Old: ch.Old.String(), New: ch.New.String()})
}

// PlayRequest starts playback; zero seconds keeps the current interval.
type PlayRequest struct {
	IntervalSeconds float64 `json:"interval_seconds" binding:"gte=0"`
}

func (s *Server) handlePlay(c *gin.Context, ss *session.Session) {
	var req PlayRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
			return
		}
	}
	d := ss.Speed()
	if req.IntervalSeconds > 0 {
		d = time.Duration(req.IntervalSeconds * float64(time.Second))
	}
	ss.Play(d)
	c.JSON(http.StatusOK, ss.Status())
}

func (s *Server) handleReload(c *gin.Context, ss *session.Session) {
	if err := ss.Reload(); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "RELOAD_FAILED"})
		return
	}
	c.JSON(http.StatusOK, ss.Status())
}
