// Test hooks exposing unexported SpotifyService state to the external test
// package, which cannot live in package services because the shared
// internal/testing helpers it uses import services.
package services

import (
	"net/http"

	"golang.org/x/oauth2"
)

func (s *SpotifyService) SetToken(tok *oauth2.Token) { s.token = tok }

func (s *SpotifyService) Token() *oauth2.Token { return s.token }

func (s *SpotifyService) SetHTTPClient(c *http.Client) { s.httpClient = c }

func (s *SpotifyService) RedirectURL() string { return s.config.RedirectURL }
