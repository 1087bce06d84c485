package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"licenseflow/internal/batch"
	"licenseflow/internal/config"
	"licenseflow/internal/license"
	"licenseflow/internal/llm"
	"licenseflow/internal/results"
	"licenseflow/internal/rewrite"
	"licenseflow/internal/runstore"
	"licenseflow/internal/safety"
	"licenseflow/internal/sigscan"
	"licenseflow/internal/solve"
)

func main() {
	cfg := config.Load()

	provider := flag.String("provider", cfg.Provider, "LLM provider: anthropic, openai, gemini, fake")
	dataDir := flag.String("data-dir", cfg.DataDir, "directory containing source files to process")
	outputDir := flag.String("output-dir", cfg.OutputDir, "directory to save results to")
	maxWorkers := flag.Int("max-workers", cfg.MaxInFlight, "maximum number of files processed concurrently")
	targetLang := flag.String("target-lang", cfg.TargetLang, "rewrite target language")
	flag.Parse()

	cfg.Provider = *provider
	cfg.DataDir = *dataDir
	cfg.OutputDir = *outputDir
	cfg.MaxInFlight = *maxWorkers
	cfg.TargetLang = *targetLang

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli, err := buildClient(ctx, cfg)
	if err != nil {
		log.Fatalf("provider %s: %v", cfg.Provider, err)
	}
	if cli != nil {
		cli = llm.Wrap(cli,
			llm.Retry(cfg.MaxRetries, 300*time.Millisecond),
			llm.RateLimit(cfg.RateRPS, cfg.RateBurst),
			llm.WithLogging(nil),
		)
		defer func() { _ = cli.Close() }()
		log.Printf("using provider %s", cli.Name())
	} else {
		log.Printf("no provider configured; heuristic classification only")
	}

	solver := solve.New(
		license.NewClassifier(cli),
		solve.ExtractorFunc(sigscan.Extract),
		rewrite.New(cli),
		cfg.TargetLang,
	).WithScreener(safety.NewScreener(cli))

	orch := batch.New(solver, cfg.MaxInFlight)
	rs, runErr := orch.Run(ctx, cfg.DataDir)
	var discErr *batch.DiscoveryError
	if errors.As(runErr, &discErr) {
		log.Fatalf("discovery: %v", discErr)
	}
	if runErr != nil {
		log.Printf("batch interrupted: %v (returning %d partial results)", runErr, len(rs))
	}

	written, err := results.NewWriter(cfg.OutputDir).Write(rs)
	if err != nil {
		log.Fatalf("write results: %v", err)
	}

	runID := uuid.NewString()
	finalize(cfg, runID, rs, written)

	errCount := 0
	for _, r := range rs {
		if r.Err != nil {
			errCount++
		}
	}
	log.Printf("run %s: processed %d files (%d with errors), wrote %d artifacts to %s",
		runID, len(rs), errCount, len(written), cfg.OutputDir)
}

// finalize handles best-effort post-run persistence: Postgres run history
// and S3 artifact upload. Failures here are logged, never fatal; the batch
// already completed.
func finalize(cfg *config.Config, runID string, rs []solve.TaskResult, written []string) {
	// Use a fresh context so a Ctrl-C that canceled the batch does not
	// also discard the records of what finished.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := runstore.Open(cfg.RunstoreDSN)
	if err != nil {
		log.Printf("runstore: %v", err)
	} else if store != nil {
		defer func() { _ = store.Close() }()
		if err := store.RecordRun(ctx, runID, cfg.DataDir, cfg.Provider, rs); err != nil {
			log.Printf("runstore: record run: %v", err)
		}
	}

	if cfg.Artifact.Enabled {
		s3, err := results.NewS3Store(results.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err != nil {
			log.Printf("artifact store: %v", err)
			return
		}
		if err := s3.UploadRun(ctx, runID, cfg.OutputDir, written); err != nil {
			log.Printf("artifact upload: %v", err)
		}
	}
}

func buildClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return llm.NewAnthropicClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens), nil
	case config.ProviderOpenAI:
		return llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.MaxTokens), nil
	case config.ProviderGemini:
		return llm.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	case config.ProviderFake:
		return llm.NewFakeClient(), nil
	default:
		// Validate rejects unknown providers before we get here.
		return nil, nil
	}
}
