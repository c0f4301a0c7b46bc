// Package server exposes the optimization core over HTTP. Objectives
// are chosen by name from the benchmark registry since closures
// cannot cross the wire; each submission becomes a job that runs in
// its own goroutine and is polled for status.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/optimalab/descent/internal/config"
	"github.com/optimalab/descent/internal/logging"
	"github.com/optimalab/descent/internal/optimize"
	"github.com/optimalab/descent/internal/optimize/testfunc"
)

// Job statuses. A job is pending only for the moment between
// submission and goroutine startup; the solvers themselves are
// synchronous and run to completion once started.
const (
	statusPending   = "pending"
	statusRunning   = "running"
	statusCompleted = "completed"
	statusFailed    = "failed"
	statusCancelled = "cancelled"
)

// job tracks one optimization run.
type job struct {
	ID          string         `json:"id"`
	Status      string         `json:"status"`
	Solver      string         `json:"solver"`
	Function    string         `json:"function"`
	SubmittedAt time.Time      `json:"submitted_at"`
	FinishedAt  *time.Time     `json:"finished_at,omitempty"`
	Error       string         `json:"error,omitempty"`
	Result      *resultPayload `json:"result,omitempty"`
}

// resultPayload is the wire form of optimize.Result.
type resultPayload struct {
	X             []float64 `json:"x"`
	Fun           float64   `json:"fun"`
	Gradient      []float64 `json:"gradient,omitempty"`
	Iterations    int       `json:"iterations"`
	FunctionCalls int       `json:"function_calls"`
	GradientCalls int       `json:"gradient_calls"`
	Converged     bool      `json:"converged"`
	Message       string    `json:"message"`
}

// optimizeRequest is the body of POST /api/v1/optimize. Zero-valued
// tolerance fields fall back to the core defaults; X0 falls back to
// the benchmark's customary starting point.
type optimizeRequest struct {
	Function      string    `json:"function"`
	Solver        string    `json:"solver,omitempty"`
	X0            []float64 `json:"x0,omitempty"`
	UseGradient   *bool     `json:"use_gradient,omitempty"`
	GradTol       float64   `json:"grad_tol,omitempty"`
	StepTol       float64   `json:"step_tol,omitempty"`
	FuncTol       float64   `json:"func_tol,omitempty"`
	MaxIterations int       `json:"max_iterations,omitempty"`
	Memory        int       `json:"memory,omitempty"`
}

// Server is the HTTP front end of the optimization core.
type Server struct {
	cfg    *config.Config
	logger *logging.Logger

	mu     sync.RWMutex
	jobs   map[string]*job
	nextID atomic.Int64
}

// New creates a Server.
func New(cfg *config.Config, logger *logging.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		jobs:   make(map[string]*job),
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/optimize", s.handleOptimize)
		r.Get("/jobs/{id}", s.handleJobStatus)
		r.Delete("/jobs/{id}", s.handleJobCancel)
		r.Get("/functions", s.handleFunctions)
	})
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	tf, err := testfunc.Lookup(req.Function)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	solver := req.Solver
	if solver == "" {
		solver = s.cfg.Solver.Default
	}

	if req.MaxIterations > s.cfg.Solver.MaxIterationsCap {
		s.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("max_iterations %d exceeds cap %d", req.MaxIterations, s.cfg.Solver.MaxIterationsCap))
		return
	}

	x0 := req.X0
	if len(x0) == 0 {
		x0 = tf.Start
	}
	if len(x0) != tf.Dim {
		s.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("x0 has %d components, %s needs %d", len(x0), tf.Name, tf.Dim))
		return
	}

	j := &job{
		ID:          fmt.Sprintf("job_%d_%d", time.Now().Unix(), s.nextID.Add(1)),
		Status:      statusPending,
		Solver:      solver,
		Function:    tf.Name,
		SubmittedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.jobs[j.ID] = j
	s.mu.Unlock()

	go s.run(j, tf, x0, req)

	s.logger.Info("job submitted", map[string]interface{}{
		"job_id":   j.ID,
		"solver":   solver,
		"function": tf.Name,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"job_id": j.ID, "status": j.Status})
}

// run executes one job to completion.
func (s *Server) run(j *job, tf testfunc.Func, x0 []float64, req optimizeRequest) {
	s.mu.Lock()
	if j.Status != statusPending {
		// Cancelled before it started.
		s.mu.Unlock()
		return
	}
	j.Status = statusRunning
	s.mu.Unlock()

	var grad optimize.GradientFunc
	if req.UseGradient == nil || *req.UseGradient {
		grad = tf.Grad
	}

	opts := requestOptions(req, s.cfg)

	start := time.Now()
	result, err := optimize.Minimize(j.Solver, tf.F, x0, grad, opts...)
	elapsed := time.Since(start)

	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()

	j.FinishedAt = &now
	if err != nil {
		j.Status = statusFailed
		j.Error = err.Error()
		jobsTotal.WithLabelValues(j.Solver, statusFailed).Inc()
		s.logger.Error("job failed", map[string]interface{}{"job_id": j.ID, "error": err.Error()})
		return
	}

	j.Status = statusCompleted
	j.Result = &resultPayload{
		X:             result.X,
		Fun:           result.Fun,
		Gradient:      result.Gradient,
		Iterations:    result.Iterations,
		FunctionCalls: result.FunctionCalls,
		GradientCalls: result.GradientCalls,
		Converged:     result.Converged,
		Message:       result.Message,
	}
	jobsTotal.WithLabelValues(j.Solver, statusCompleted).Inc()
	jobIterations.WithLabelValues(j.Solver).Observe(float64(result.Iterations))
	jobDuration.WithLabelValues(j.Solver).Observe(elapsed.Seconds())

	s.logger.Info("job completed", map[string]interface{}{
		"job_id":     j.ID,
		"converged":  result.Converged,
		"iterations": result.Iterations,
		"fun":        result.Fun,
	})
}

// requestOptions translates request fields into core options,
// leaving core defaults in place for zero values.
func requestOptions(req optimizeRequest, cfg *config.Config) []optimize.Option {
	var opts []optimize.Option
	if req.GradTol > 0 {
		opts = append(opts, optimize.WithGradTol(req.GradTol))
	}
	if req.StepTol > 0 {
		opts = append(opts, optimize.WithStepTol(req.StepTol))
	}
	if req.FuncTol > 0 {
		opts = append(opts, optimize.WithFuncTol(req.FuncTol))
	}
	if req.MaxIterations > 0 {
		opts = append(opts, optimize.WithMaxIterations(req.MaxIterations))
	}
	switch {
	case req.Memory > 0:
		opts = append(opts, optimize.WithMemory(req.Memory))
	case cfg.Solver.LBFGSMemory > 0:
		opts = append(opts, optimize.WithMemory(cfg.Solver.LBFGSMemory))
	}
	return opts
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.RLock()
	j, ok := s.jobs[id]
	var snapshot job
	if ok {
		snapshot = *j
	}
	s.mu.RUnlock()

	if !ok {
		s.respondError(w, http.StatusNotFound, "job not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snapshot)
}

func (s *Server) handleJobCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	j, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		s.respondError(w, http.StatusNotFound, "job not found")
		return
	}

	// Solvers are synchronous and run to completion; only a job that
	// has not started can be cancelled.
	if j.Status != statusPending {
		status := j.Status
		s.mu.Unlock()
		s.respondError(w, http.StatusConflict, fmt.Sprintf("cannot cancel job with status %q", status))
		return
	}

	j.Status = statusCancelled
	now := time.Now().UTC()
	j.FinishedAt = &now
	s.mu.Unlock()

	jobsTotal.WithLabelValues(j.Solver, statusCancelled).Inc()
	s.logger.Info("job cancelled", map[string]interface{}{"job_id": id})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": statusCancelled})
}

func (s *Server) handleFunctions(w http.ResponseWriter, r *http.Request) {
	type functionInfo struct {
		Name         string    `json:"name"`
		Dim          int       `json:"dim"`
		MinimumAt    []float64 `json:"minimum_at"`
		MinimumValue float64   `json:"minimum_value"`
		Start        []float64 `json:"start"`
	}

	funcs := testfunc.All()
	infos := make([]functionInfo, len(funcs))
	for i, tf := range funcs {
		infos[i] = functionInfo{
			Name:         tf.Name,
			Dim:          tf.Dim,
			MinimumAt:    tf.MinimumAt,
			MinimumValue: tf.MinimumValue,
			Start:        tf.Start,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"functions": infos,
		"solvers":   optimize.Solvers(),
	})
}

func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
