package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nvasko/loom/internal/domain"
	"github.com/nvasko/loom/internal/repository"
	"github.com/nvasko/loom/internal/service"
)

// Server exposes the chain pipeline as an async job API: POST a run, poll
// its status. Jobs live in the run repository, so status survives restarts.
type Server struct {
	svc  *service.PipelineService
	repo repository.RunRepository
}

func New(svc *service.PipelineService, repo repository.RunRepository) *Server {
	return &Server{svc: svc, repo: repo}
}

type runRequest struct {
	Chain string            `json:"chain"`
	Input map[string]string `json:"input" binding:"required"`
}

// Router builds the gin engine with CORS open for local frontends.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	router.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/runs", s.createRun)
		api.GET("/runs/:id", s.getRun)
	}

	return router
}

// Listen serves the API on the given port until ctx is done.
func (s *Server) Listen(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	slog.Info("serving run API", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) createRun(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Chain == "" {
		req.Chain = "profile"
	}

	// The chain executes in the background; the caller polls by run ID.
	// Validation failures that would make the run unrecordable (missing
	// name, unknown chain) are reported synchronously.
	runID, err := s.svc.RunAsync(req.Chain, req.Input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"run_id": runID.String(), "status": "processing"})
}

func (s *Server) getRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	run, err := s.repo.GetRunByID(c.Request.Context(), id)
	if err != nil {
		if domain.IsNoRunError(err) {
			c.JSON(http.StatusNotFound, gin.H{"status": "not_found"})
			return
		}
		slog.Error("failed to load run", "run", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := gin.H{
		"run_id":     run.ID.String(),
		"chain":      run.ChainName,
		"status":     run.Status,
		"output_dir": run.OutputDir,
	}
	if run.Error != "" {
		resp["error"] = run.Error
	}
	steps := make([]gin.H, 0, len(run.Steps))
	for _, step := range run.Steps {
		steps = append(steps, gin.H{
			"name":        step.StepName,
			"status":      step.Status,
			"duration_ms": step.DurationMS,
		})
	}
	resp["steps"] = steps

	c.JSON(http.StatusOK, resp)
}
