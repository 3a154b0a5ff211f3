// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/jazzx/internal/models"
	"github.com/desertthunder/jazzx/internal/services"
)

// MockCatalog is a scriptable test double for [services.Catalog].
//
// Each hook defaults to a benign zero-value response so tests only wire the
// calls they care about.
type MockCatalog struct {
	AuthenticateFunc   func(ctx context.Context, credentials map[string]string) error
	CurrentUserFunc    func(ctx context.Context) (string, error)
	SearchTracksFunc   func(ctx context.Context, query string, limit int) ([]models.Candidate, error)
	CreatePlaylistFunc func(ctx context.Context, name, description string, public bool) (*services.Playlist, error)
	AddTracksFunc      func(ctx context.Context, playlistID string, ids []string) error

	// SearchQueries records every query passed to SearchTracks.
	SearchQueries []string
	// AddedBatches records each batch of ids passed to AddTracks.
	AddedBatches [][]string
}

func (m *MockCatalog) Authenticate(ctx context.Context, credentials map[string]string) error {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, credentials)
	}
	return nil
}

func (m *MockCatalog) CurrentUser(ctx context.Context) (string, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx)
	}
	return "mock_user", nil
}

func (m *MockCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]models.Candidate, error) {
	m.SearchQueries = append(m.SearchQueries, query)
	if m.SearchTracksFunc != nil {
		return m.SearchTracksFunc(ctx, query, limit)
	}
	return nil, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, name, description string, public bool) (*services.Playlist, error) {
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, name, description, public)
	}
	return &services.Playlist{ID: "mock_playlist", Name: name, Description: description, Public: public}, nil
}

func (m *MockCatalog) AddTracks(ctx context.Context, playlistID string, ids []string) error {
	batch := make([]string, len(ids))
	copy(batch, ids)
	m.AddedBatches = append(m.AddedBatches, batch)
	if m.AddTracksFunc != nil {
		return m.AddTracksFunc(ctx, playlistID, ids)
	}
	return nil
}

func (m *MockCatalog) Name() string { return "mock" }

// Candidates builds a one-artist candidate list for search stubs.
func Candidates(tracks ...[2]string) []models.Candidate {
	var out []models.Candidate
	for i, pair := range tracks {
		out = append(out, models.Candidate{
			TrackID:     fmt.Sprintf("spotify:track:%d", i),
			TrackName:   pair[1],
			ArtistNames: []string{pair[0]},
		})
	}
	return out
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// RouteRoundTripper maps request URL substrings to canned responses.
type RouteRoundTripper struct {
	Routes map[string]*http.Response
	Err    error
}

func (rt *RouteRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.Err != nil {
		return nil, rt.Err
	}
	for fragment, resp := range rt.Routes {
		if fragment != "" && strings.Contains(req.URL.String(), fragment) {
			return resp, nil
		}
	}
	return &http.Response{StatusCode: http.StatusNotFound, Body: http.NoBody}, nil
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}
