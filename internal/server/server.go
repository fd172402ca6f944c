// Package server exposes validation, classification, batch processing,
// reference lookups and code review over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezonia/fiscal-validator/internal/classifier"
	"github.com/rezonia/fiscal-validator/internal/cnpj"
	"github.com/rezonia/fiscal-validator/internal/llm"
	"github.com/rezonia/fiscal-validator/internal/metrics"
	"github.com/rezonia/fiscal-validator/internal/model"
	"github.com/rezonia/fiscal-validator/internal/processor"
	"github.com/rezonia/fiscal-validator/internal/reference"
	"github.com/rezonia/fiscal-validator/internal/validator"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool

	// Validation
	ValidatorOptions []validator.Option
	Workers          int

	// Code review; disabled without an API key
	APIKey       string
	LLMBaseURL   string
	LLMModel     string
	CacheDir     string
	CacheTTL     time.Duration
	CacheEnabled bool

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *processor.Pipeline
	reviewer *llm.Reviewer
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := config.Metrics
	if m == nil {
		m = metrics.New()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), observe(m, logger))
	if config.Debug {
		router.Use(gin.Logger())
	}

	sink := validator.MultiSink{m.Sink(), validator.NewSlogSink(logger)}
	opts := append([]validator.Option{}, config.ValidatorOptions...)
	opts = append(opts, validator.WithSink(sink))

	pipeline := processor.NewPipeline(
		processor.WithValidator(validator.New(opts...)),
		processor.WithClassification(true),
		processor.WithWorkers(config.Workers),
		processor.WithObserver(m),
	)

	s := &Server{
		config:   config,
		router:   router,
		pipeline: pipeline,
		metrics:  m,
		logger:   logger,
	}
	if config.APIKey != "" {
		s.reviewer = newReviewer(config, m, logger)
	}

	s.setupRoutes()
	return s
}

func newReviewer(config *Config, m *metrics.Metrics, logger *slog.Logger) *llm.Reviewer {
	client := llm.NewClient(config.APIKey,
		llm.WithBaseURL(config.LLMBaseURL),
		llm.WithDefaultModel(config.LLMModel),
	)

	opts := []llm.ReviewerOption{llm.WithCacheObserver(m.ObserveCache)}
	if config.CacheEnabled && config.CacheDir != "" {
		cache, err := llm.NewCache(config.CacheDir, config.CacheTTL)
		if err != nil {
			logger.Warn("review cache disabled", "dir", config.CacheDir, "error", err)
		} else {
			if removed, err := cache.ClearExpired(); err != nil {
				logger.Warn("clearing expired review cache", "error", err)
			} else if removed > 0 {
				logger.Info("cleared expired review cache entries", "removed", removed)
			}
			opts = append(opts, llm.WithCache(cache))
		}
	}
	return llm.NewReviewer(client, opts...)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/validate", s.handleValidate)
		v1.POST("/classify", s.handleClassify)
		v1.POST("/process", s.handleProcess)
		v1.POST("/review", s.handleReview)

		// Reference lookups
		v1.GET("/cnpj/:cnpj", s.handleCNPJ)
		v1.GET("/cfop/:code", s.handleCFOP)
		v1.GET("/ncm/:code", s.handleNCM)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.logger.Info("listening", "addr", s.config.Address, "review", s.reviewer != nil)
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
		"review": s.reviewer != nil,
	})
}

// readBody returns the request body, answering 400 when it is missing
func readBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return nil, false
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return nil, false
	}
	return body, true
}

func (s *Server) handleValidate(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	result := s.pipeline.Validator().ValidateJSON(body)
	s.metrics.ObserveValidation(result.Status)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleClassify(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	result := s.pipeline.Classifier().ClassifyJSON(body)
	s.metrics.ObserveClassification(result.Tipo)
	s.metrics.ObserveValidation(result.Validacao.Status)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleProcess(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	results, err := s.pipeline.Process(ctx, body)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, ErrorResponse{Error: "batch processing failed", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, BatchResponse{
		Summary: processor.Summarize(results),
		Format:  processor.DetectFormat(body).String(),
		Results: results,
	})
}

func (s *Server) handleReview(c *gin.Context) {
	if s.reviewer == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "code review unavailable",
			Details: "no LLM API key configured",
		})
		return
	}

	body, ok := readBody(c)
	if !ok {
		return
	}

	req, err := reviewRequest(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid review request", Details: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 90*time.Second)
	defer cancel()

	review, err := s.reviewer.Review(ctx, req)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, llm.ErrEmptyRequest) {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Error: "code review failed", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ReviewResponse{Request: req, Review: review})
}

// reviewRequest accepts either explicit codes or a whole document. A body
// with items or a tax block is read as a document.
func reviewRequest(body []byte) (llm.CodeReviewRequest, error) {
	doc, err := model.DecodeDocument(body)
	if err != nil {
		return llm.CodeReviewRequest{}, err
	}
	if len(doc.Itens) > 0 || !doc.Impostos.IsEmpty() {
		return llm.RequestFromDocument(doc), nil
	}

	var codes struct {
		CFOP      model.Text `json:"cfop"`
		CSTICMS   model.Text `json:"cst_icms"`
		CSTPIS    model.Text `json:"cst_pis"`
		CSTCOFINS model.Text `json:"cst_cofins"`
		NCM       model.Text `json:"ncm"`
	}
	if err := json.Unmarshal(body, &codes); err != nil {
		return llm.CodeReviewRequest{}, err
	}
	return llm.CodeReviewRequest{
		CFOP:      codes.CFOP.String(),
		CSTICMS:   codes.CSTICMS.String(),
		CSTPIS:    codes.CSTPIS.String(),
		CSTCOFINS: codes.CSTCOFINS.String(),
		NCM:       codes.NCM.String(),
	}, nil
}

func (s *Server) handleCNPJ(c *gin.Context) {
	input := c.Param("cnpj")
	verdict := s.pipeline.Validator().CNPJ().Validate(input)

	c.JSON(http.StatusOK, CNPJResponse{
		Input:      input,
		Digits:     verdict.Digits,
		Formatted:  verdict.Formatted,
		Kind:       cnpj.Kind(verdict.Digits),
		Valid:      verdict.Valid,
		Overridden: verdict.Overridden,
		Reason:     verdict.Reason,
	})
}

func (s *Server) handleCFOP(c *gin.Context) {
	code := c.Param("code")
	row, ok := reference.LookupCFOP(code)
	if !ok {
		err := model.NewValidationError("cfop", code, "known_code", "CFOP não reconhecido")
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Message, Details: err.Error()})
		return
	}

	doc := &model.FiscalDocument{CFOP: model.Text(row.Code)}
	c.JSON(http.StatusOK, CFOPResponse{
		Code:        row.Code,
		Description: row.Description,
		Category:    string(row.Category),
		Tipo:        string(classifier.Tipo(doc)),
	})
}

func (s *Server) handleNCM(c *gin.Context) {
	code := c.Param("code")
	if !reference.ValidNCMFormat(code) {
		err := model.NewValidationError("ncm", code, "format", "NCM deve ter 8 dígitos")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Message, Details: err.Error()})
		return
	}

	ncm, ok := reference.LookupNCM(code)
	if !ok {
		err := model.NewValidationError("ncm", code, "chapter", "NCM não reconhecido")
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Message, Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, ncm)
}
