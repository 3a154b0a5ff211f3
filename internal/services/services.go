// package services defines interface Catalog for interacting with the music catalog HTTP API
package services

import (
	"context"

	"github.com/desertthunder/jazzx/internal/models"
	"golang.org/x/oauth2"
)

// Catalog defines the interface for the music catalog consumed by the
// resolution pipeline: text search plus playlist creation and appends.
type Catalog interface {
	// Authenticate performs OAuth or token-based authentication with the service.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// CurrentUser returns the authenticated user's ID.
	CurrentUser(ctx context.Context) (string, error)

	// SearchTracks performs a text search for tracks and returns up to limit
	// candidates in the catalog's ranking order.
	SearchTracks(ctx context.Context, query string, limit int) ([]models.Candidate, error)

	// CreatePlaylist creates a playlist owned by the authenticated user.
	CreatePlaylist(ctx context.Context, name, description string, public bool) (*Playlist, error)

	// AddTracks appends track ids to a playlist. Callers must never submit
	// more than [MaxTracksPerAppend] ids per call.
	AddTracks(ctx context.Context, playlistID string, ids []string) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// OAuthService extends Catalog for providers using server-side OAuth flows.
type OAuthService interface {
	Catalog

	// GetAuthURL returns the OAuth2 authorization URL for user login.
	GetAuthURL(state string) string

	// GetOAuthConfig exposes the underlying OAuth2 config for callback handling.
	GetOAuthConfig() *oauth2.Config
}

// MaxTracksPerAppend is the ceiling on ids per AddTracks call.
const MaxTracksPerAppend = 50

// Playlist represents a playlist created on the catalog service.
type Playlist struct {
	ID          string
	Name        string
	Description string
	WebURL      string
	Public      bool
}
