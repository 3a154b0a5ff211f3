package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/jazzx/internal/models"
)

// mockHarvester serves canned standards and citations.
type mockHarvester struct {
	standards []models.Standard
	citations map[string][]models.Citation
}

func (m *mockHarvester) Harvest(ctx context.Context) []models.Standard {
	return m.standards
}

func (m *mockHarvester) ExtractCitations(ctx context.Context, pageURL string) []models.Citation {
	return m.citations[pageURL]
}

// mockRecorder captures recorded runs.
type mockRecorder struct {
	run         *models.Run
	resolutions []*models.RunResolution
	err         error
}

func (m *mockRecorder) Record(run *models.Run, resolutions []*models.RunResolution) error {
	if m.err != nil {
		return m.err
	}
	m.run = run
	m.resolutions = resolutions
	return nil
}

func TestPipelineEngineRun(t *testing.T) {
	ctx := context.Background()

	newHarvester := func() *mockHarvester {
		return &mockHarvester{
			standards: []models.Standard{
				{Title: "Autumn Leaves", URL: "https://example.com/autumn.htm"},
				{Title: "Body and Soul", URL: "https://example.com/body.htm"},
			},
			citations: map[string][]models.Citation{
				"https://example.com/autumn.htm": {
					{Artist: "Cannonball Adderley", Info: "1958", DisplayText: "Cannonball Adderley - 1958"},
					{Artist: "Bill Evans", Info: "1959", DisplayText: "Bill Evans - 1959"},
				},
				"https://example.com/body.htm": {
					{Artist: "Coleman Hawkins", Info: "1939", DisplayText: "Coleman Hawkins - 1939"},
				},
			},
		}
	}

	t.Run("full run resolves citations and appends tracks", func(t *testing.T) {
		catalog := &mockCatalog{searchResults: map[string][]models.Candidate{
			"Cannonball Adderley Autumn Leaves": {
				candidate("spotify:track:1", "Autumn Leaves", "Cannonball Adderley"),
			},
			"Coleman Hawkins Body and Soul": {
				candidate("spotify:track:2", "Body and Soul", "Coleman Hawkins"),
			},
		}}
		recorder := &mockRecorder{}
		resolver := NewResolver(catalog, AutoDecider{}, nil)
		engine := NewPipelineEngine(newHarvester(), catalog, resolver, recorder, nil)

		progressCh := make(chan ProgressUpdate, 100)
		summary, err := engine.Run(ctx, progressCh, RunOpts{PlaylistName: "Jazz Standards"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if summary.Standards != 2 {
			t.Errorf("expected 2 standards, got %d", summary.Standards)
		}
		if summary.Citations != 3 {
			t.Errorf("expected 3 citations, got %d", summary.Citations)
		}
		if summary.AutoCount != 2 {
			t.Errorf("expected 2 auto matches, got %d", summary.AutoCount)
		}
		if summary.NoMatches != 1 {
			t.Errorf("expected 1 unmatched citation, got %d", summary.NoMatches)
		}
		if summary.Added != 2 {
			t.Errorf("expected 2 tracks added, got %d", summary.Added)
		}
		if summary.Playlist == nil || summary.Playlist.ID != "playlist123" {
			t.Errorf("unexpected playlist %+v", summary.Playlist)
		}

		if len(catalog.batches) != 1 || len(catalog.batches[0]) != 2 {
			t.Fatalf("expected one 2-id append, got %v", catalog.batches)
		}

		if recorder.run == nil {
			t.Fatal("expected run recorded")
		}
		if recorder.run.AutoCount != 2 || recorder.run.Added != 2 {
			t.Errorf("recorded run counters mismatch: %+v", recorder.run)
		}
		if len(recorder.resolutions) != 3 {
			t.Errorf("expected 3 recorded resolutions, got %d", len(recorder.resolutions))
		}
	})

	t.Run("empty harvest aborts before playlist creation", func(t *testing.T) {
		catalog := &mockCatalog{}
		resolver := NewResolver(catalog, AutoDecider{}, nil)
		engine := NewPipelineEngine(&mockHarvester{}, catalog, resolver, nil, nil)

		if _, err := engine.Run(ctx, nil, RunOpts{PlaylistName: "Jazz Standards"}); err == nil {
			t.Fatal("expected error for empty harvest")
		}
	})

	t.Run("playlist creation failure is fatal", func(t *testing.T) {
		catalog := &mockCatalog{createErr: errors.New("forbidden")}
		resolver := NewResolver(catalog, AutoDecider{}, nil)
		engine := NewPipelineEngine(newHarvester(), catalog, resolver, nil, nil)

		if _, err := engine.Run(ctx, nil, RunOpts{PlaylistName: "Jazz Standards"}); err == nil {
			t.Fatal("expected error when playlist creation fails")
		}
	})

	t.Run("duplicate resolutions add the track once", func(t *testing.T) {
		harvester := newHarvester()
		shared := candidate("spotify:track:1", "Autumn Leaves", "Cannonball Adderley", "Bill Evans")
		catalog := &mockCatalog{searchResults: map[string][]models.Candidate{
			"Cannonball Adderley Autumn Leaves": {shared},
			"Bill Evans Autumn Leaves":          {shared},
		}}
		resolver := NewResolver(catalog, AutoDecider{}, nil)
		engine := NewPipelineEngine(harvester, catalog, resolver, nil, nil)

		summary, err := engine.Run(ctx, nil, RunOpts{PlaylistName: "Jazz Standards"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.AutoCount != 2 {
			t.Errorf("expected both citations auto-matched, got %d", summary.AutoCount)
		}
		if summary.Added != 1 {
			t.Errorf("expected duplicate id added once, got %d", summary.Added)
		}
	})

	t.Run("recorder failure does not fail the run", func(t *testing.T) {
		catalog := &mockCatalog{searchResults: map[string][]models.Candidate{
			"Cannonball Adderley Autumn Leaves": {
				candidate("spotify:track:1", "Autumn Leaves", "Cannonball Adderley"),
			},
		}}
		recorder := &mockRecorder{err: errors.New("disk full")}
		resolver := NewResolver(catalog, AutoDecider{}, nil)
		engine := NewPipelineEngine(newHarvester(), catalog, resolver, recorder, nil)

		if _, err := engine.Run(ctx, nil, RunOpts{PlaylistName: "Jazz Standards"}); err != nil {
			t.Fatalf("recording errors must be soft, got %v", err)
		}
	})

	t.Run("progress updates never block a slow consumer", func(t *testing.T) {
		catalog := &mockCatalog{}
		resolver := NewResolver(catalog, AutoDecider{}, nil)
		engine := NewPipelineEngine(newHarvester(), catalog, resolver, nil, nil)

		// Unbuffered channel with no reader; sends must be dropped, not block.
		progressCh := make(chan ProgressUpdate)
		if _, err := engine.Run(ctx, progressCh, RunOpts{PlaylistName: "Jazz Standards"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestPhaseString(t *testing.T) {
	cases := []struct {
		phase Phase
		want  string
	}{
		{HarvestIndex, "harvest_index"},
		{CreatePlaylist, "create_playlist"},
		{ExtractCitations, "extract_citations"},
		{ResolveCitation, "resolve_citation"},
		{AppendTracks, "append_tracks"},
		{RecordRun, "record_run"},
		{Phase(99), ""},
	}

	for _, tc := range cases {
		if got := tc.phase.String(); got != tc.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tc.phase, got, tc.want)
		}
	}
}
