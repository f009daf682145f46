// Package photoscreener screens directories of profile photos with
// multimodal vision-model APIs and produces structured accept/reject
// decision records.
//
// A run loads every qualifying photo from the person subdirectory of the
// input directory, submits them to one of the interchangeable vision
// providers (OpenAI, xAI Grok, or a local Ollama server) together with an
// evaluation criterion, normalizes the model's free-form answer into a
// canonical decision record, and persists the decision with the full run
// metadata as a single JSON document.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"os"
//
//		"github.com/rs/zerolog"
//
//		photoscreener "github.com/menta2k/photo-screener"
//		"github.com/menta2k/photo-screener/pkg/config"
//		"github.com/menta2k/photo-screener/pkg/grok"
//	)
//
//	func main() {
//		log := zerolog.New(os.Stderr).With().Timestamp().Logger()
//
//		cfg, err := config.ForProvider(config.ProviderGrok)
//		if err != nil {
//			panic(err)
//		}
//		provider, err := grok.NewClient(cfg, log)
//		if err != nil {
//			panic(err)
//		}
//
//		screener := photoscreener.New(provider, log)
//		result, err := screener.Run(context.Background(), photoscreener.RunOptions{
//			PhotosDir:  "/path/to/session/photos",
//			Criterion:  cfg.DefaultCriterion(),
//			Model:      cfg.DefaultModel,
//			OutputPath: "/path/to/analysis.json",
//		})
//		if err != nil {
//			panic(err)
//		}
//
//		fmt.Printf("decision=%s photos=%d\n", result.Decision, result.PhotoCount)
//	}
//
// Every code path yields a well-formed result: an empty photo directory is a
// NO decision with a zero count, a transport failure is an ERROR decision
// with the detail preserved, and malformed model output falls back to a
// substring heuristic. A failure to persist the output file is logged and
// the in-memory result is still returned.
package photoscreener

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/menta2k/photo-screener/internal/utils"
	"github.com/menta2k/photo-screener/pkg/client"
	"github.com/menta2k/photo-screener/pkg/loader"
	"github.com/menta2k/photo-screener/pkg/results"
	"github.com/menta2k/photo-screener/pkg/screening"
	"github.com/menta2k/photo-screener/pkg/types"
)

// Version of the photo screener library
const Version = "1.0.0"

// Screener runs the screening pipeline: load photos, call the provider,
// normalize the response, assemble and persist the run result.
type Screener struct {
	loader   *loader.Loader
	provider client.VisionProvider
	log      zerolog.Logger
}

// New creates a Screener that submits photos unmodified.
func New(provider client.VisionProvider, log zerolog.Logger) *Screener {
	return NewWithLoader(provider, loader.New(log), log)
}

// NewWithLoader creates a Screener with a custom-configured loader, e.g. one
// that downscales oversized photos before submission.
func NewWithLoader(provider client.VisionProvider, l *loader.Loader, log zerolog.Logger) *Screener {
	return &Screener{
		loader:   l,
		provider: provider,
		log:      log,
	}
}

// RunOptions are the inputs for a single pipeline invocation.
type RunOptions struct {
	PhotosDir  string
	Criterion  string
	AuxText    string
	Model      string
	OutputPath string // empty skips persistence
}

// Run executes the whole pipeline once: at most one network call, at most
// one output file. The returned result is valid on every path; the error is
// reserved for programming mistakes such as a nil provider.
func (s *Screener) Run(ctx context.Context, opts RunOptions) (*types.RunResult, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("no provider configured")
	}

	photos := s.loader.LoadPhotos(opts.PhotosDir)
	prompt := screening.BuildPrompt(opts.Criterion, opts.AuxText)

	raw := s.provider.Analyze(ctx, types.AnalysisRequest{
		Photos:    photos,
		Criterion: opts.Criterion,
		AuxText:   opts.AuxText,
		Prompt:    prompt,
		Model:     opts.Model,
	})

	decision := screening.Normalize(raw, len(photos))

	result := results.Assemble(decision, results.Meta{
		Criterion: opts.Criterion,
		Prompt:    prompt,
		Model:     opts.Model,
		Provider:  s.provider.Name(),
		InputDir:  opts.PhotosDir,
		Photos:    photos,
		Timestamp: time.Now(),
	})

	if opts.OutputPath != "" {
		if err := results.Save(result, opts.OutputPath); err != nil {
			s.log.Error().Err(err).Str("path", opts.OutputPath).Msg("failed to save results")
		} else {
			s.log.Info().Str("path", opts.OutputPath).Msg("analysis results saved")
		}
	}

	return result, nil
}

// TestSessionOptions identify a previously captured session to re-analyze.
type TestSessionOptions struct {
	SessionsDir string
	SessionID   string
	Criterion   string
	AuxText     string
	Model       string
}

// RunTestSession re-analyzes the photos of an existing session. It creates a
// timestamped subdirectory inside the session directory and writes both the
// analysis result and a test-info summary into it.
func (s *Screener) RunTestSession(ctx context.Context, opts TestSessionOptions) (*types.RunResult, error) {
	sessionDir := filepath.Join(opts.SessionsDir, opts.SessionID)
	photosDir := filepath.Join(sessionDir, "photos")

	if !utils.DirExists(sessionDir) {
		return nil, fmt.Errorf("session directory not found: %s", sessionDir)
	}
	if !utils.DirExists(photosDir) {
		return nil, fmt.Errorf("photos directory not found: %s", photosDir)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	testDir := filepath.Join(sessionDir, "NOT_LIVE_MODEL_CALL_"+timestamp)
	if err := utils.EnsureDir(testDir); err != nil {
		return nil, fmt.Errorf("failed to create test output directory: %w", err)
	}

	outputPath := filepath.Join(testDir, s.provider.Name()+"_analysis.json")
	s.log.Info().
		Str("session", opts.SessionID).
		Str("output", outputPath).
		Msg("running test analysis of existing session")

	result, err := s.Run(ctx, RunOptions{
		PhotosDir:  photosDir,
		Criterion:  opts.Criterion,
		AuxText:    opts.AuxText,
		Model:      opts.Model,
		OutputPath: outputPath,
	})
	if err != nil {
		return nil, err
	}

	info := &results.TestInfo{
		TestTimestamp:     timestamp,
		OriginalSessionID: opts.SessionID,
		PhotosAnalyzed:    result.PhotoCount,
		Decision:          result.Decision,
		CriterionUsed:     opts.Criterion,
		ModelUsed:         opts.Model,
		APIProvider:       s.provider.Name(),
		TestMode:          true,
		Notes:             "Analysis of a previously captured session, not live data",
	}
	infoPath := filepath.Join(testDir, "test_info.json")
	if err := results.SaveTestInfo(info, infoPath); err != nil {
		s.log.Error().Err(err).Str("path", infoPath).Msg("failed to save test info")
	} else {
		s.log.Info().Str("path", infoPath).Msg("test info saved")
	}

	return result, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
