// Package services defines the [Catalog] interface for the music catalog and implements it for Spotify.
//
// # Catalog Interface
//
// The resolver and assembler depend only on the abstraction: text search
// returning ranked candidates, playlist creation, and batched track appends.
//
// # Spotify Implementation
//
// [SpotifyService] uses OAuth2 for authentication with automatic token refresh.
//
// The [oauth2.Config] client automatically refreshes expired tokens using the refresh token.
// Write operations require the playlist-modify-public and playlist-modify-private scopes.
//
// # OAuth Service Extension
//
// The [OAuthService] interface extends Catalog for OAuth providers.
// [SpotifyService] implements this for the server-side OAuth flow used by the CLI.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrBatchTooLarge] : AddTracks called with more than 50 ids
//
// # API Mappings
//
// Search responses map [SpotifyTrack] → [models.Candidate]; the candidate's
// TrackID is the Spotify track URI, which is what playlist appends consume.
package services
