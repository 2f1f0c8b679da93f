package invitesdk

import (
	"net/http"
	"strings"
	"time"
)

// Client talks to the invitation service. Public endpoints are methods on
// Client; authenticated ones live on Session.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Lang, when set, is sent as Accept-Language so error descriptions and
	// labels come back localized.
	Lang string
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Session is an authenticated view of the service using a bearer token.
type Session struct {
	client *Client
	token  string
}

// WithToken returns a Session that authenticates with accessToken.
func (c *Client) WithToken(accessToken string) *Session {
	return &Session{client: c, token: accessToken}
}

// AccessToken returns the bearer token the session uses.
func (s *Session) AccessToken() string { return s.token }
