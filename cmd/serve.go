package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sgrishin/recruit-pilot/internal/ai"
	"github.com/sgrishin/recruit-pilot/internal/ai/gemini"
	"github.com/sgrishin/recruit-pilot/internal/analysis"
	"github.com/sgrishin/recruit-pilot/internal/api"
	"github.com/sgrishin/recruit-pilot/internal/crm"
	"github.com/sgrishin/recruit-pilot/internal/interview"
	"github.com/sgrishin/recruit-pilot/internal/jobsearch"
	"github.com/sgrishin/recruit-pilot/internal/logger"
	"github.com/sgrishin/recruit-pilot/internal/secrets"
	"github.com/sgrishin/recruit-pilot/internal/sweep"
	"github.com/sgrishin/recruit-pilot/internal/workflow"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultListen        = ":8000"
	defaultSessionTTL    = 60 * time.Minute
	defaultSweepInterval = 5 * time.Minute
	shutdownTimeout      = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the recruit-pilot HTTP server",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// serve wires the service together and runs it until interrupted.
func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local development keeps secrets file paths in a .env file.
	_ = godotenv.Load()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the recruit-pilot", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}
	if config.CRM == nil || config.CRM.APIURL == "" {
		logger.Fatal("crm api url is required under crm.api-url")
	}
	if config.JobSearch == nil || config.JobSearch.APIURL == "" {
		logger.Fatal("job search api url is required under job-search.api-url")
	}

	completer, err := newCompleter(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai completer", zap.Error(err))
	}

	crmToken, err := resolveCRMToken(config)
	if err != nil {
		logger.Fatal(
			"loading crm token",
			zap.Error(err),
			zap.String("hint", "set CRM_TOKEN_FILE environment variable or the 'crm.token-file' key in the configuration file"),
		)
	}

	records := crm.New(logger, config.CRM.APIURL, crmToken)
	jobs := jobsearch.New(logger, config.JobSearch.APIURL, jobSearchDefaults(config.JobSearch))

	ttl, interval := sessionTimings(config.Sessions)
	workflowStore := workflow.NewStore(ttl, logger)
	interviewStore := interview.NewStore(ttl, logger)

	workflows := workflow.NewOrchestrator(
		records,
		analysis.NewAnalyzer(completer, logger),
		analysis.NewFitAssessor(completer, logger),
		analysis.NewAdvisor(completer, logger),
		analysis.NewScorer(completer, logger),
		jobs,
		workflowStore,
		logger,
	)
	interviews := interview.NewOrchestrator(
		records,
		interview.NewGenerator(completer, logger),
		records,
		interviewStore,
		logger,
	)

	handler := api.NewHandler(
		records,
		analysis.NewAnalyzer(completer, logger),
		analysis.NewFitAssessor(completer, logger),
		analysis.NewQuestionGenerator(completer, logger),
		jobs,
		workflows,
		interviews,
		logger,
	)

	worker := sweep.NewWorker(interval, logger)
	worker.Register("workflows", workflowStore)
	worker.Register("interviews", interviewStore)
	go worker.Run(ctx)

	listen := defaultListen
	if config.Server != nil && config.Server.Listen != "" {
		listen = config.Server.Listen
	}

	srv := &http.Server{
		Addr:              listen,
		Handler:           api.NewRouter(handler, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}
}

func newCompleter(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Completer, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required under ai.gemini")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	return gemini.NewCompleter(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, cfg.Gemini.MaxLogLength, logger)
}

func resolveCRMToken(config *Config) (string, error) {
	tokenFile := strings.TrimSpace(config.CRM.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("crm.token-file"))
	}

	if tokenFile == "" {
		return "", errors.New("crm token file is not configured")
	}

	return secrets.Load(secrets.Source{
		Name: "crm token",
		File: tokenFile,
	})
}

func jobSearchDefaults(cfg *JobSearchConfig) jobsearch.SearchParams {
	params := jobsearch.SearchParams{
		Sites:         cfg.Sites,
		ResultsWanted: cfg.ResultsWanted,
		HoursOld:      cfg.HoursOld,
		Location:      cfg.Location,
		Country:       cfg.Country,
	}
	if len(params.Sites) == 0 {
		params.Sites = []string{"indeed", "linkedin"}
	}
	if params.ResultsWanted <= 0 {
		params.ResultsWanted = 20
	}
	if params.HoursOld <= 0 {
		params.HoursOld = 72
	}
	if params.Country == "" {
		params.Country = "USA"
	}
	return params
}

func sessionTimings(cfg *SessionsConfig) (time.Duration, time.Duration) {
	ttl := defaultSessionTTL
	interval := defaultSweepInterval
	if cfg != nil && cfg.TTLMinutes > 0 {
		ttl = time.Duration(cfg.TTLMinutes) * time.Minute
	}
	if cfg != nil && cfg.SweepIntervalMinutes > 0 {
		interval = time.Duration(cfg.SweepIntervalMinutes) * time.Minute
	}
	return ttl, interval
}
