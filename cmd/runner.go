package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jazzx/internal/scrape"
	"github.com/desertthunder/jazzx/internal/services"
	"github.com/desertthunder/jazzx/internal/shared"
	"github.com/desertthunder/jazzx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	spotify    services.OAuthService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Spotify    services.OAuthService
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		spotify:    opts.Spotify,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, harvestCommand, citationsCommand, resolveCommand, runCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// scraper constructs a Scraper from the runner's source config.
func (r *Runner) scraper() *scrape.Scraper {
	return scrape.New(r.config.Source, scrape.Opts{
		Client: r.httpClient,
		Logger: r.logger,
	})
}

// catalog returns the Spotify catalog, authenticated from stored tokens.
func (r *Runner) catalog(ctx context.Context) (services.Catalog, error) {
	if r.spotify == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized, run 'jazzx auth login'", shared.ErrServiceUnavailable)
	}

	creds := r.config.Credentials.Spotify
	if creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: no stored tokens, run 'jazzx auth login'", shared.ErrNotAuthenticated)
	}

	if err := r.spotify.Authenticate(ctx, creds.Map()); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return r.spotify, nil
}

// progressWriter drains a progress channel onto the output writer.
func (r *Runner) progressWriter(progressCh <-chan tasks.ProgressUpdate) {
	for update := range progressCh {
		switch update.Phase {
		case tasks.HarvestIndex:
			r.writePlain("📥 %s\n", update.Message)
		case tasks.CreatePlaylist:
			r.writePlain("\n📝 %s\n", update.Message)
		case tasks.ExtractCitations:
			if update.Data != nil {
				r.writePlain("\n🎷 %s\n", update.Message)
			} else {
				r.writePlain("   %s\n", update.Message)
			}
		case tasks.ResolveCitation:
			r.writePlain("   🔍 %s\n", update.Message)
		case tasks.AppendTracks:
			r.writePlain("\n➕ %s\n", update.Message)
		case tasks.RecordRun:
			r.writePlain("💾 %s\n", update.Message)
		}
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
