// Package app wires the parser, transport, merger and writer into the single
// fetch-and-merge run the CLI exposes.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/quantmind-br/composefetch-go/internal/cache"
	"github.com/quantmind-br/composefetch-go/internal/compose"
	"github.com/quantmind-br/composefetch-go/internal/config"
	"github.com/quantmind-br/composefetch-go/internal/domain"
	"github.com/quantmind-br/composefetch-go/internal/fetcher"
	"github.com/quantmind-br/composefetch-go/internal/git"
	"github.com/quantmind-br/composefetch-go/internal/merge"
	"github.com/quantmind-br/composefetch-go/internal/output"
	"github.com/quantmind-br/composefetch-go/internal/spec"
	"github.com/quantmind-br/composefetch-go/internal/utils"
)

// Orchestrator coordinates the fetch-and-merge process
type Orchestrator struct {
	config       *config.Config
	logger       *utils.Logger
	parser       *spec.Parser
	fetcher      domain.FileFetcher
	contentCache domain.Cache
	strict       bool
	dryRun       bool
	noProgress   bool
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	Config       *config.Config
	Verbose      bool
	DryRun       bool
	Strict       bool
	NoProgress   bool
	RefreshCache bool

	// Fetcher overrides transport construction, for testing
	Fetcher domain.FileFetcher
	// Logger overrides logger construction, for testing
	Logger *utils.Logger
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			Verbose: opts.Verbose,
		})
	}
	logger = logger.WithComponent("orchestrator")

	var contentCache domain.Cache
	fileFetcher := opts.Fetcher
	if fileFetcher == nil {
		var err error
		if cfg.Cache.Enabled {
			contentCache, err = cache.NewBadgerCache(cache.Options{
				Directory: utils.ExpandPath(cfg.Cache.Directory),
			})
			if err != nil {
				logger.Warn().Err(err).Msg("Cache unavailable, fetching without it")
				contentCache = nil
			}
		}

		fileFetcher, err = buildFetcher(cfg, contentCache, opts.RefreshCache)
		if err != nil {
			if contentCache != nil {
				_ = contentCache.Close()
			}
			return nil, err
		}
	}

	return &Orchestrator{
		config:       cfg,
		logger:       logger,
		parser:       spec.NewParser(cfg.Fetch.DefaultBranch),
		fetcher:      fileFetcher,
		contentCache: contentCache,
		strict:       opts.Strict,
		dryRun:       opts.DryRun,
		noProgress:   opts.NoProgress,
	}, nil
}

// buildFetcher constructs the transport named by the configuration
func buildFetcher(cfg *config.Config, contentCache domain.Cache, refreshCache bool) (domain.FileFetcher, error) {
	switch cfg.Fetch.Transport {
	case config.TransportHTTP:
		client, err := fetcher.NewClient(fetcher.ClientOptions{
			Timeout:      cfg.Fetch.Timeout,
			MaxRetries:   cfg.Fetch.MaxRetries,
			UserAgent:    cfg.Fetch.UserAgent,
			Cache:        contentCache,
			EnableCache:  contentCache != nil,
			CacheTTL:     cfg.Cache.TTL,
			RefreshCache: refreshCache,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.TransportArchive:
		return fetcher.NewArchiveFetcher(fetcher.ArchiveFetcherOptions{
			Timeout:      cfg.Fetch.Timeout,
			Cache:        contentCache,
			EnableCache:  contentCache != nil,
			CacheTTL:     cfg.Cache.TTL,
			RefreshCache: refreshCache,
		}), nil
	case config.TransportGit:
		return git.NewFetcher(nil), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTransport, cfg.Fetch.Transport)
	}
}

// fetchResult holds the decoded compose file for one spec, or the failure
type fetchResult struct {
	file *compose.File
	err  error
}

// Run fetches every spec, merges the requested services and writes the
// output file.
//
// Any invalid spec aborts the run before fetching. A failed fetch or decode
// skips that spec's services; the remaining specs still apply and the file
// is still written, unless strict mode is on, in which case the first
// failure aborts before writing. Results are applied in the order the specs
// were given, regardless of fetch completion order.
func (o *Orchestrator) Run(ctx context.Context, inputs []string) error {
	startTime := time.Now()

	specs, err := o.parser.ParseAll(inputs)
	if err != nil {
		return err
	}

	o.logger.WithTransport(o.fetcher.Name()).Info().
		Int("specs", len(specs)).
		Str("output", o.config.Output.Path).
		Int("concurrency", o.config.Concurrency.Workers).
		Msg("Starting fetch")

	results := o.fetchAll(ctx, specs)
	if ctx.Err() != nil {
		o.logger.Warn().Msg("Fetch cancelled")
		return ctx.Err()
	}

	merger := merge.NewMerger()
	failed := 0
	for i, s := range specs {
		if results[i].err != nil {
			failed++
			o.logger.WithSpec(s.Locator.String()).Error().
				Err(results[i].err).
				Msg("Spec failed")
			if o.strict {
				return fmt.Errorf("spec %s failed: %w", s.Locator.String(), results[i].err)
			}
			continue
		}
		merger.Add(results[i].file, s.Services)
	}

	existing, err := output.LoadExisting(o.config.Output.Path)
	if err != nil {
		return err
	}

	var existingFile *compose.File
	if existing != nil {
		existingFile = existing.File
	}

	merged, err := merger.Finalize(existingFile)
	if err != nil {
		return err
	}

	writer := output.NewWriter(output.WriterOptions{
		Path:   o.config.Output.Path,
		DryRun: o.dryRun,
	})
	if err := writer.Write(merged, existing); err != nil {
		return fmt.Errorf("failed to write %s: %w", o.config.Output.Path, err)
	}

	o.logger.Info().
		Dur("duration", time.Since(startTime)).
		Int("specs", len(specs)).
		Int("failed", failed).
		Int("services", len(merged.Services)).
		Str("version", merged.Version).
		Bool("dry_run", o.dryRun).
		Msg("Compose file written")

	return nil
}

// fetchAll runs the fetch-and-decode step for every spec in parallel. The
// returned slice is indexed by spec position.
func (o *Orchestrator) fetchAll(ctx context.Context, specs []domain.ServiceSpec) []fetchResult {
	results := make([]fetchResult, len(specs))

	var bar *progressbar.ProgressBar
	if !o.noProgress {
		bar = progressbar.NewOptions(len(specs),
			progressbar.OptionSetDescription("Fetching"),
			progressbar.OptionShowCount(),
		)
	}

	indexes := make([]int, len(specs))
	for i := range specs {
		indexes[i] = i
	}

	utils.ParallelForEach(ctx, indexes, o.config.Concurrency.Workers, func(ctx context.Context, idx int) error {
		if bar != nil {
			defer bar.Add(1)
		}

		s := specs[idx]
		o.logger.WithSpec(s.Locator.String()).Debug().
			Strs("services", s.Services).
			Msg("Fetching compose file")

		file, err := compose.Fetch(ctx, o.fetcher, s.Locator)
		results[idx] = fetchResult{file: file, err: err}
		return err
	})

	return results
}

// Close releases all resources held by the orchestrator
func (o *Orchestrator) Close() error {
	var firstErr error
	if o.fetcher != nil {
		firstErr = o.fetcher.Close()
	}
	if o.contentCache != nil {
		if err := o.contentCache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
