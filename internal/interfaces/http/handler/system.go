package handler

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/aidat/backend/internal/infrastructure/scheduler"
	"github.com/aidat/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Checker reports whether a dependency is reachable
type Checker func(ctx context.Context) error

// JobScheduler reports and triggers background jobs
type JobScheduler interface {
	Status() []scheduler.RunInfo
	RunNow(ctx context.Context, name string) error
}

// SystemHandler serves the public health endpoint and the job admin endpoints
type SystemHandler struct {
	BaseHandler
	version   string
	startTime time.Time
	checks    map[string]Checker
	timeout   time.Duration
	jobs      JobScheduler
}

// NewSystemHandler creates a new SystemHandler. Checks are keyed by dependency name.
func NewSystemHandler(version string, checks map[string]Checker) *SystemHandler {
	if checks == nil {
		checks = map[string]Checker{}
	}
	return &SystemHandler{
		version:   version,
		startTime: time.Now(),
		checks:    checks,
		timeout:   2 * time.Second,
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	GoVersion string            `json:"go_version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks"`
}

// Health godoc
// @Summary      Health check
// @Description  Reports every dependency check. Any failing check turns the answer into a 503.
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "ok",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    make(map[string]string, len(h.checks)),
	}
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	c.JSON(status, dto.NewSuccessResponse(resp))
}

// SetScheduler sets the scheduler for job status and manual runs
func (h *SystemHandler) SetScheduler(jobs JobScheduler) {
	h.jobs = jobs
}

// ListJobs godoc
// @Summary      List background jobs
// @Description  Returns the schedule and latest run of every background job
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=[]scheduler.RunInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /system/jobs [get]
func (h *SystemHandler) ListJobs(c *gin.Context) {
	if h.jobs == nil {
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Scheduler not configured")
		return
	}
	h.Success(c, h.jobs.Status())
}

// RunJob godoc
// @Summary      Run a background job now
// @Description  Runs the named job immediately and waits for it to finish
// @Tags         system
// @Produce      json
// @Param        name path string true "Job name" Enums(late-fees, monthly-reminder)
// @Success      200 {object} dto.Response{data=scheduler.RunInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /system/jobs/{name}/run [post]
func (h *SystemHandler) RunJob(c *gin.Context) {
	if h.jobs == nil {
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Scheduler not configured")
		return
	}
	name := c.Param("name")
	err := h.jobs.RunNow(c.Request.Context(), name)
	switch {
	case errors.Is(err, scheduler.ErrJobNotFound):
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Unknown job: "+name)
		return
	case errors.Is(err, scheduler.ErrJobAlreadyRunning):
		h.Error(c, http.StatusConflict, dto.ErrCodeConcurrencyConflict, "Job is already running")
		return
	case err != nil:
		h.HandleError(c, err)
		return
	}
	for _, info := range h.jobs.Status() {
		if info.Name == name {
			h.Success(c, info)
			return
		}
	}
	h.Success(c, scheduler.RunInfo{Name: name})
}
