package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/desertthunder/jazzx/internal/models"
	"github.com/desertthunder/jazzx/internal/shared"
	tu "github.com/desertthunder/jazzx/internal/testing"
	"github.com/urfave/cli/v3"
)

func htmlResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestRunCommand(t *testing.T) {
	index := `<html><body>
		<a href="compositions-0/song1.htm">Standard 1</a>
	</body></html>`
	detail := `<html><body>
		<p>The definitive version was recorded by Miles Davis (1959) for Columbia.</p>
	</body></html>`

	newRunner := func(output io.Writer) (*Runner, *mockOAuth) {
		config := shared.DefaultConfig()
		config.Credentials.Spotify.AccessToken = "stored_token"

		spotify := &mockOAuth{MockCatalog: tu.MockCatalog{
			SearchTracksFunc: func(ctx context.Context, query string, limit int) ([]models.Candidate, error) {
				return tu.Candidates([2]string{"Miles Davis", "Standard 1"}), nil
			},
		}}

		runner := NewRunner(RunnerOpts{
			Config:  config,
			Spotify: spotify,
			Output:  output,
			HTTPClient: &http.Client{Transport: &tu.RouteRoundTripper{
				Routes: map[string]*http.Response{
					"/compositions/index.htm":  htmlResponse(index),
					"compositions-0/song1.htm": htmlResponse(detail),
				},
			}},
		})

		return runner, spotify
	}

	t.Run("builds the playlist end to end", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner, spotify := newRunner(output)

		app := &cli.Command{Name: "jazzx", Commands: runner.register()}
		args := []string{"jazzx", "run", "--batch", "--no-history", "--name", "Test Playlist"}
		if err := app.Run(context.Background(), args); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(spotify.AddedBatches) != 1 || len(spotify.AddedBatches[0]) != 1 {
			t.Fatalf("expected one single-track batch, got %v", spotify.AddedBatches)
		}

		result := output.String()
		for _, fragment := range []string{"Test Playlist", "Tracks added: 1", "Automatic matches: 1"} {
			if !strings.Contains(result, fragment) {
				t.Errorf("expected output to contain %q:\n%s", fragment, result)
			}
		}
	})

	t.Run("drains all progress before the summary", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner, _ := newRunner(output)

		app := &cli.Command{Name: "jazzx", Commands: runner.register()}
		args := []string{"jazzx", "run", "--batch", "--no-history", "--name", "Test Playlist"}
		if err := app.Run(context.Background(), args); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		appendAt := strings.Index(result, "Appended 1 tracks")
		summaryAt := strings.Index(result, "Playlist Build Complete!")

		if appendAt == -1 {
			t.Fatalf("expected the append progress line in output:\n%s", result)
		}
		if summaryAt == -1 {
			t.Fatalf("expected the summary header in output:\n%s", result)
		}
		if appendAt > summaryAt {
			t.Errorf("append progress must be written before the summary:\n%s", result)
		}
	})
}
