package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	photoscreener "github.com/menta2k/photo-screener"
	"github.com/menta2k/photo-screener/pkg/client"
	"github.com/menta2k/photo-screener/pkg/config"
	"github.com/menta2k/photo-screener/pkg/grok"
	"github.com/menta2k/photo-screener/pkg/loader"
	"github.com/menta2k/photo-screener/pkg/ollama"
	"github.com/menta2k/photo-screener/pkg/openai"
	"github.com/menta2k/photo-screener/pkg/types"
)

func main() {
	var photosDir, criterion, model, provider, output, auxText, urlOverride string
	var testSession, sessionsDir string
	var aesthetic bool
	var sendSize, sendQ int

	flag.StringVar(&photosDir, "photos-dir", "", "path to photos directory (should contain a person/ subfolder)")
	flag.StringVar(&criterion, "criterion", "", "criterion to evaluate against (default varies by provider)")
	flag.StringVar(&provider, "provider", config.ProviderOpenAI, "provider to use: openai, grok or ollama")
	flag.StringVar(&model, "model", "", "model name (default varies by provider)")
	flag.StringVar(&output, "output", "", "path to save the analysis results (JSON)")
	flag.StringVar(&auxText, "text", "", "auxiliary text scraped from the profile")
	flag.StringVar(&urlOverride, "url", "", "base URL override for the provider endpoint")
	flag.BoolVar(&aesthetic, "aesthetic", false, "aesthetic mode: suppress verbose output")

	flag.StringVar(&testSession, "test-session", "", "test mode: analyze an existing session by ID (e.g. session_2025-09-11_14-51-22)")
	flag.StringVar(&sessionsDir, "sessions-dir", defaultSessionsDir(), "base directory holding captured sessions (test mode)")

	flag.IntVar(&sendSize, "sendsize", 0, "max long side sent to the provider (px), 0=original")
	flag.IntVar(&sendQ, "sendq", 85, "JPEG quality for re-encoded photos (1-100)")

	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	if aesthetic {
		logger = logger.Level(zerolog.Disabled)
	}

	cfg, err := config.ForProvider(provider)
	if err != nil {
		fatalf("%v", err)
	}
	if urlOverride != "" {
		cfg.BaseURL = urlOverride
	}
	if criterion == "" {
		criterion = cfg.DefaultCriterion()
	}
	if model == "" {
		model = cfg.DefaultModel
	}

	visionProvider, err := newProvider(cfg, logger)
	if err != nil {
		fatalf("failed to create %s client: %v", provider, err)
	}

	photoLoader := loader.NewWithOptions(logger, loader.Options{MaxDim: sendSize, Quality: sendQ})
	screener := photoscreener.NewWithLoader(visionProvider, photoLoader, logger)
	ctx := context.Background()

	// Test mode: re-analyze a previously captured session
	if testSession != "" {
		result, err := screener.RunTestSession(ctx, photoscreener.TestSessionOptions{
			SessionsDir: sessionsDir,
			SessionID:   testSession,
			Criterion:   criterion,
			AuxText:     auxText,
			Model:       model,
		})
		if err != nil {
			fatalf("test failed: %v", err)
		}
		printResult(result, aesthetic)
		return
	}

	// Regular mode requires the photos directory and an output path
	if photosDir == "" || output == "" {
		fmt.Fprintf(os.Stderr, "usage: %s -photos-dir DIR -output FILE [-provider openai|grok|ollama] [-criterion TEXT] [-model NAME] [-text TEXT] [-aesthetic] (or -test-session ID for test mode)\n",
			filepath.Base(os.Args[0]))
		os.Exit(1)
	}

	result, err := screener.Run(ctx, photoscreener.RunOptions{
		PhotosDir:  photosDir,
		Criterion:  criterion,
		AuxText:    auxText,
		Model:      model,
		OutputPath: output,
	})
	if err != nil {
		fatalf("%v", err)
	}
	printResult(result, aesthetic)
}

func newProvider(cfg config.ProviderConfig, logger zerolog.Logger) (client.VisionProvider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.NewClient(cfg, logger)
	case config.ProviderGrok:
		return grok.NewClient(cfg, logger)
	case config.ProviderOllama:
		return ollama.NewClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

func printResult(result *types.RunResult, aesthetic bool) {
	if aesthetic {
		return
	}
	fmt.Println("\nAnalysis Result:")
	fmt.Printf("   Decision: %s\n", result.Decision)
	fmt.Printf("   Reasoning: %s\n", result.Reasoning)
	fmt.Printf("   Photos analyzed: %d\n", result.PhotoCount)
	if result.Confidence != nil {
		fmt.Printf("   Confidence: %.2f\n", *result.Confidence)
	}
}

func defaultSessionsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./sessions"
	}
	return filepath.Join(home, "Documents", "ScreenerSessions")
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
