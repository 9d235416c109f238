package msauth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
)

// ErrInteractionRequired signals that silent refresh failed and the user
// has to re-consent interactively. Callers treat this as recoverable:
// skip the action and surface an instruction, never crash the session.
var ErrInteractionRequired = errors.New("msauth: interactive re-consent required")

// TokenProvider acquires access tokens for the storage backend
type TokenProvider interface {
	AcquireToken(ctx context.Context, scopes []string) (string, error)
}

// Provider wraps an oauth2 config plus a stored refresh token and
// refreshes silently. Access tokens are cached until shortly before
// expiry so repeated calls within a conversation do not hit the
// identity endpoint.
type Provider struct {
	conf         *oauth2.Config
	refreshToken string
	tokens       *cache.Cache
}

func New(clientID, clientSecret, tenantID, redirectURL, refreshToken string) *Provider {
	base := "https://login.microsoftonline.com/" + tenantID
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  base + "/oauth2/v2.0/authorize",
			TokenURL: base + "/oauth2/v2.0/token",
		},
	}
	return &Provider{
		conf:         conf,
		refreshToken: refreshToken,
		tokens:       cache.New(45*time.Minute, 10*time.Minute),
	}
}

// AuthCodeURL builds the interactive consent URL for the given scopes
func (p *Provider) AuthCodeURL(state string, scopes []string) string {
	conf := *p.conf
	conf.Scopes = scopes
	return conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange swaps an authorization code for tokens and stores the
// refresh token for later silent acquisition
func (p *Provider) Exchange(ctx context.Context, code string) error {
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return err
	}
	if token.RefreshToken != "" {
		p.refreshToken = token.RefreshToken
	}
	return nil
}

// AcquireToken returns a valid access token for the scopes, refreshing
// silently when the cached one is gone. ErrInteractionRequired is
// returned when no refresh token is available or refresh is rejected.
func (p *Provider) AcquireToken(ctx context.Context, scopes []string) (string, error) {
	key := strings.Join(scopes, " ")
	if x, found := p.tokens.Get(key); found {
		return x.(string), nil
	}

	if p.refreshToken == "" {
		return "", ErrInteractionRequired
	}

	conf := *p.conf
	conf.Scopes = scopes
	src := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: p.refreshToken})
	token, err := src.Token()
	if err != nil {
		return "", ErrInteractionRequired
	}

	ttl := time.Until(token.Expiry) - 5*time.Minute
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	p.tokens.Set(key, token.AccessToken, ttl)

	if token.RefreshToken != "" {
		p.refreshToken = token.RefreshToken
	}
	return token.AccessToken, nil
}

// Static returns a TokenProvider that always yields the same token.
// Used by tests and by deployments that terminate auth upstream.
func Static(token string) TokenProvider {
	return staticProvider(token)
}

type staticProvider string

func (s staticProvider) AcquireToken(context.Context, []string) (string, error) {
	if s == "" {
		return "", ErrInteractionRequired
	}
	return string(s), nil
}
