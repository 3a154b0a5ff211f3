package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	. "github.com/desertthunder/jazzx/internal/services"
	"github.com/desertthunder/jazzx/internal/shared"
	tu "github.com/desertthunder/jazzx/internal/testing"
	"golang.org/x/oauth2"
)

func testCredentials() map[string]string {
	return map[string]string{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
	}
}

// authedService builds a service whose HTTP traffic is answered by routes.
func authedService(t *testing.T, routes map[string]*http.Response) *SpotifyService {
	t.Helper()

	srv, err := NewSpotifyService(testCredentials())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	srv.SetToken(&oauth2.Token{AccessToken: "test_access_token"})
	srv.SetHTTPClient(&http.Client{Transport: &tu.RouteRoundTripper{Routes: routes}})
	return srv
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			srv, err := NewSpotifyService(testCredentials())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv == nil {
				t.Fatal("expected service to be created")
			}
			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			if _, err := NewSpotifyService(map[string]string{"client_secret": "s"}); err == nil {
				t.Error("expected error for missing client_id")
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			if _, err := NewSpotifyService(map[string]string{"client_id": "c"}); err == nil {
				t.Error("expected error for missing client_secret")
			}
		})

		t.Run("Default Redirect URI", func(t *testing.T) {
			srv, err := NewSpotifyService(testCredentials())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.RedirectURL() != "http://localhost:3000/callback" {
				t.Errorf("expected default redirect URI, got %s", srv.RedirectURL())
			}
		})
	})

	t.Run("GetAuthURL", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials())
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		authURL := srv.GetAuthURL("test_state")
		if !strings.Contains(authURL, "accounts.spotify.com") {
			t.Error("auth URL should contain Spotify domain")
		}
		if !strings.Contains(authURL, "test_client_id") {
			t.Error("auth URL should contain client_id")
		}
		if !strings.Contains(authURL, "test_state") {
			t.Error("auth URL should contain state")
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		t.Run("With Access Token", func(t *testing.T) {
			srv, err := NewSpotifyService(testCredentials())
			if err != nil {
				t.Fatalf("failed to create service: %v", err)
			}

			err = srv.Authenticate(context.Background(), map[string]string{
				"access_token": "test_access_token",
			})
			if err != nil {
				t.Errorf("expected no error with access token, got %v", err)
			}
			if srv.Token() == nil || srv.Token().AccessToken != "test_access_token" {
				t.Errorf("token not stored: %+v", srv.Token())
			}
		})

		t.Run("Missing Credentials", func(t *testing.T) {
			srv, err := NewSpotifyService(testCredentials())
			if err != nil {
				t.Fatalf("failed to create service: %v", err)
			}

			if err := srv.Authenticate(context.Background(), map[string]string{}); err == nil {
				t.Error("expected error without access_token or auth_code")
			}
		})
	})

	t.Run("Unauthenticated Requests", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials())
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		if _, err := srv.SearchTracks(context.Background(), "Autumn Leaves", 10); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("SearchTracks", func(t *testing.T) {
		t.Run("Maps Tracks To Candidates", func(t *testing.T) {
			body := `{
				"tracks": {
					"items": [
						{
							"id": "abc123",
							"name": "Autumn Leaves",
							"uri": "spotify:track:abc123",
							"artists": [{"name": "Cannonball Adderley"}, {"name": "Miles Davis"}],
							"album": {"name": "Somethin' Else"}
						}
					],
					"total": 1
				}
			}`
			srv := authedService(t, map[string]*http.Response{
				"/search": jsonResponse(http.StatusOK, body),
			})

			candidates, err := srv.SearchTracks(context.Background(), "Cannonball Adderley Autumn Leaves", 10)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(candidates) != 1 {
				t.Fatalf("expected 1 candidate, got %d", len(candidates))
			}

			got := candidates[0]
			if got.TrackID != "spotify:track:abc123" {
				t.Errorf("expected track URI as id, got %s", got.TrackID)
			}
			if got.TrackName != "Autumn Leaves" || got.AlbumName != "Somethin' Else" {
				t.Errorf("track fields not mapped: %+v", got)
			}
			if len(got.ArtistNames) != 2 || got.ArtistNames[0] != "Cannonball Adderley" {
				t.Errorf("artist names not mapped: %v", got.ArtistNames)
			}
		})

		t.Run("Clamps Limit", func(t *testing.T) {
			var requested *http.Request
			srv := authedService(t, nil)
			srv.SetHTTPClient(&http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
				requested = req
				return jsonResponse(http.StatusOK, `{"tracks": {"items": [], "total": 0}}`), nil
			})})

			if _, err := srv.SearchTracks(context.Background(), "Autumn Leaves", 500); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := requested.URL.Query().Get("limit"); got != "50" {
				t.Errorf("expected limit clamped to 50, got %s", got)
			}

			if _, err := srv.SearchTracks(context.Background(), "Autumn Leaves", 0); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := requested.URL.Query().Get("limit"); got != "10" {
				t.Errorf("expected default limit 10, got %s", got)
			}
		})

		t.Run("Decodes Error Envelope", func(t *testing.T) {
			srv := authedService(t, map[string]*http.Response{
				"/search": jsonResponse(http.StatusTooManyRequests, `{"error": {"status": 429, "message": "rate limited"}}`),
			})

			_, err := srv.SearchTracks(context.Background(), "Autumn Leaves", 10)
			if err == nil {
				t.Fatal("expected error for 429 response")
			}
			if !strings.Contains(err.Error(), "rate limited") {
				t.Errorf("expected API message in error, got %v", err)
			}
		})

		t.Run("Transport Failure", func(t *testing.T) {
			srv := authedService(t, nil)
			srv.SetHTTPClient(&http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))})

			if _, err := srv.SearchTracks(context.Background(), "Autumn Leaves", 10); err == nil {
				t.Error("expected error for transport failure")
			}
		})

		t.Run("Body Read Failure", func(t *testing.T) {
			srv := authedService(t, nil)
			srv.SetHTTPClient(&http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}}, nil
			})})

			_, err := srv.SearchTracks(context.Background(), "Autumn Leaves", 10)
			if err == nil {
				t.Fatal("expected error for unreadable response body")
			}
			if !strings.Contains(err.Error(), "failed to decode response") {
				t.Errorf("expected decode error, got %v", err)
			}
		})
	})

	t.Run("CreatePlaylist", func(t *testing.T) {
		srv := authedService(t, map[string]*http.Response{
			"/me": jsonResponse(http.StatusOK, `{"id": "jazzfan", "display_name": "Jazz Fan"}`),
			"/users/jazzfan/playlists": jsonResponse(http.StatusCreated, `{
				"id": "playlist123",
				"name": "Jazz Standards",
				"description": "Top recordings",
				"public": true,
				"external_urls": {"spotify": "https://open.spotify.com/playlist/playlist123"}
			}`),
		})

		playlist, err := srv.CreatePlaylist(context.Background(), "Jazz Standards", "Top recordings", true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.ID != "playlist123" {
			t.Errorf("expected playlist id playlist123, got %s", playlist.ID)
		}
		if playlist.WebURL != "https://open.spotify.com/playlist/playlist123" {
			t.Errorf("expected external URL mapped, got %s", playlist.WebURL)
		}
		if !playlist.Public {
			t.Error("expected public playlist")
		}
	})

	t.Run("CreatePlaylist User Resolution Failure", func(t *testing.T) {
		srv := authedService(t, map[string]*http.Response{
			"/me": jsonResponse(http.StatusUnauthorized, `{"error": {"status": 401, "message": "token expired"}}`),
		})

		if _, err := srv.CreatePlaylist(context.Background(), "Jazz Standards", "", false); err == nil {
			t.Error("expected error when current user cannot be resolved")
		}
	})

	t.Run("AddTracks", func(t *testing.T) {
		t.Run("Appends Within Ceiling", func(t *testing.T) {
			srv := authedService(t, map[string]*http.Response{
				"/playlists/playlist123/tracks": jsonResponse(http.StatusCreated, `{"snapshot_id": "snap1"}`),
			})

			ids := make([]string, MaxTracksPerAppend)
			for i := range ids {
				ids[i] = fmt.Sprintf("spotify:track:%d", i)
			}

			if err := srv.AddTracks(context.Background(), "playlist123", ids); err != nil {
				t.Errorf("expected no error for full batch, got %v", err)
			}
		})

		t.Run("Rejects Oversized Batch", func(t *testing.T) {
			srv := authedService(t, nil)

			ids := make([]string, MaxTracksPerAppend+1)
			for i := range ids {
				ids[i] = fmt.Sprintf("spotify:track:%d", i)
			}

			if err := srv.AddTracks(context.Background(), "playlist123", ids); !errors.Is(err, shared.ErrBatchTooLarge) {
				t.Errorf("expected ErrBatchTooLarge, got %v", err)
			}
		})

		t.Run("Rejects Empty Batch", func(t *testing.T) {
			srv := authedService(t, nil)

			if err := srv.AddTracks(context.Background(), "playlist123", nil); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})

	t.Run("CurrentUser", func(t *testing.T) {
		srv := authedService(t, map[string]*http.Response{
			"/me": jsonResponse(http.StatusOK, `{"id": "jazzfan"}`),
		})

		userID, err := srv.CurrentUser(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if userID != "jazzfan" {
			t.Errorf("expected user id jazzfan, got %s", userID)
		}
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
