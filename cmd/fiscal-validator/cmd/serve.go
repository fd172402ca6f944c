package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/fiscal-validator/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for validating fiscal documents.

The API provides endpoints for:
  - POST /api/v1/validate       - Validate one document
  - POST /api/v1/classify       - Validate and classify one document
  - POST /api/v1/process        - Batch (array or JSON lines)
  - POST /api/v1/review         - LLM review of fiscal codes
  - GET  /api/v1/cnpj/:cnpj     - CNPJ/CPF check
  - GET  /api/v1/cfop/:code     - CFOP lookup
  - GET  /api/v1/ncm/:code      - NCM lookup
  - GET  /health                - Health check
  - GET  /metrics               - Prometheus metrics

Examples:
  # Start server on the configured address
  fiscal-validator serve

  # Start on custom port with code review enabled
  fiscal-validator serve --address :9090 --api-key <key>

  # Start in debug mode
  fiscal-validator serve --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", "", "Server listen address (env: FISCAL_ADDR)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 0, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 0, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serverAddr != "" {
		cfg.Server.Address = serverAddr
	}
	if serverDebug {
		cfg.Server.Debug = true
	}
	if readTimeout > 0 {
		cfg.Server.ReadTimeout = readTimeout
	}
	if writeTimeout > 0 {
		cfg.Server.WriteTimeout = writeTimeout
	}

	config := &server.Config{
		Address:          cfg.Server.Address,
		ReadTimeout:      cfg.Server.ReadTimeout,
		WriteTimeout:     cfg.Server.WriteTimeout,
		Debug:            cfg.Server.Debug,
		ValidatorOptions: cfg.Validation.ValidatorOptions(),
		Workers:          cfg.Validation.Workers,
		APIKey:           cfg.LLM.APIKey,
		LLMBaseURL:       cfg.LLM.BaseURL,
		LLMModel:         cfg.LLM.Model,
		CacheDir:         cfg.LLM.CacheDir,
		CacheTTL:         cfg.LLM.CacheTTL,
		CacheEnabled:     cfg.LLM.CacheEnabled,
		Logger:           logger,
	}

	srv := server.NewServer(config)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s\n", config.Address)
	if config.APIKey != "" {
		fmt.Println("Code review enabled")
	} else {
		fmt.Println("Code review disabled (no API key)")
	}

	return srv.Run()
}
