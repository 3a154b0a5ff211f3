package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/jazzx/internal/shared"
	"github.com/desertthunder/jazzx/internal/tasks"
	tu "github.com/desertthunder/jazzx/internal/testing"
	"github.com/desertthunder/jazzx/internal/ui"
	"golang.org/x/oauth2"
)

// mockOAuth wraps the catalog double with the OAuth surface the runner expects.
type mockOAuth struct {
	tu.MockCatalog
}

func (m *mockOAuth) GetAuthURL(state string) string { return "https://example.com/auth?state=" + state }
func (m *mockOAuth) GetOAuthConfig() *oauth2.Config { return &oauth2.Config{} }

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			spotify := &mockOAuth{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Spotify:    spotify,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.spotify != spotify {
				t.Error("expected spotify to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			if runner := NewRunner(RunnerOpts{}); runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			if runner := NewRunner(RunnerOpts{}); runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			if runner := NewRunner(RunnerOpts{}); runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			if runner := NewRunner(RunnerOpts{}); runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		commands := NewRunner(RunnerOpts{}).register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		names := make(map[string]bool)
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"setup", "auth", "harvest", "citations", "resolve", "run", "history"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})

	t.Run("catalog", func(t *testing.T) {
		t.Run("requires an initialized service", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if _, err := runner.catalog(context.Background()); !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})

		t.Run("requires stored tokens", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Spotify: &mockOAuth{}})

			if _, err := runner.catalog(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("authenticates with stored tokens", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Spotify.AccessToken = "stored_token"

			spotify := &mockOAuth{}
			runner := NewRunner(RunnerOpts{Config: config, Spotify: spotify})

			catalog, err := runner.catalog(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if catalog == nil {
				t.Fatal("expected catalog to be returned")
			}
		})

		t.Run("surfaces authentication failure", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Spotify.AccessToken = "stored_token"

			spotify := &mockOAuth{MockCatalog: tu.MockCatalog{
				AuthenticateFunc: func(ctx context.Context, credentials map[string]string) error {
					return errors.New("bad token")
				},
			}}
			runner := NewRunner(RunnerOpts{Config: config, Spotify: spotify})

			if _, err := runner.catalog(context.Background()); !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})
	})

	t.Run("decider", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})

		if _, ok := runner.decider(true, false).(tasks.AutoDecider); !ok {
			t.Error("expected AutoDecider in batch mode")
		}
		if auto, ok := runner.decider(true, true).(tasks.AutoDecider); !ok || !auto.AcceptWeak {
			t.Error("expected AutoDecider with AcceptWeak set")
		}
		if _, ok := runner.decider(false, false).(ui.PromptDecider); !ok {
			t.Error("expected interactive prompt outside batch mode")
		}
	})

	t.Run("progressWriter", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		progressCh := make(chan tasks.ProgressUpdate, 10)
		progressCh <- tasks.ProgressUpdate{Phase: tasks.HarvestIndex, Message: "Found 100 standards"}
		progressCh <- tasks.ProgressUpdate{Phase: tasks.ResolveCitation, Message: "Accepted Autumn Leaves"}
		progressCh <- tasks.ProgressUpdate{Phase: tasks.AppendTracks, Message: "Added 50 tracks"}
		close(progressCh)

		runner.progressWriter(progressCh)

		result := output.String()
		for _, fragment := range []string{"Found 100 standards", "Accepted Autumn Leaves", "Added 50 tracks"} {
			if !strings.Contains(result, fragment) {
				t.Errorf("expected progress output to contain %q:\n%s", fragment, result)
			}
		}
	})

	t.Run("recorder", func(t *testing.T) {
		t.Run("disabled by flag", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			recorder, cleanup := runner.recorder(true)
			defer cleanup()
			if recorder != nil {
				t.Error("expected nil recorder when history is disabled")
			}
		})

		t.Run("disabled without a database path", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Database.Path = ""
			runner := NewRunner(RunnerOpts{Config: config})

			recorder, cleanup := runner.recorder(false)
			defer cleanup()
			if recorder != nil {
				t.Error("expected nil recorder without a database path")
			}
		})

		t.Run("opens and migrates the configured database", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Database.Path = ":memory:"
			runner := NewRunner(RunnerOpts{Config: config})

			recorder, cleanup := runner.recorder(false)
			defer cleanup()
			if recorder == nil {
				t.Error("expected recorder for a usable database")
			}
		})
	})
}
