package infra

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/rs/zerolog/log"
)

const jwksRefreshInterval = 15 * time.Minute

// ErrExternalTokenInvalid covers every external-token verification failure;
// callers only need to know the credential did not check out.
var ErrExternalTokenInvalid = errors.New("external token invalid")

// ExternalVerifier validates tokens issued by the third-party identity
// provider against its published JWKS. The key set is fetched at startup and
// refreshed in the background; verification itself never touches the network.
type ExternalVerifier struct {
	issuer   string
	audience string
	jwksURL  string

	mu   sync.RWMutex
	keys jwk.Set
}

// NewExternalVerifier fetches the JWKS once (failing fast on a bad URL) and
// starts the refresh goroutine, which stops when ctx is cancelled.
func NewExternalVerifier(ctx context.Context, issuer, audience, jwksURL string) (*ExternalVerifier, error) {
	set, err := jwk.Fetch(ctx, jwksURL)
	if err != nil {
		return nil, fmt.Errorf("fetch JWKS: %w", err)
	}

	v := &ExternalVerifier{
		issuer:   issuer,
		audience: audience,
		jwksURL:  jwksURL,
		keys:     set,
	}
	go v.refreshLoop(ctx)
	return v, nil
}

func (v *ExternalVerifier) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(jwksRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			set, err := jwk.Fetch(ctx, v.jwksURL)
			if err != nil {
				// Keep serving the last good set
				log.Warn().Err(err).Str("url", v.jwksURL).Msg("jwks refresh failed")
				continue
			}
			v.mu.Lock()
			v.keys = set
			v.mu.Unlock()
		}
	}
}

// Verify checks signature, issuer, audience, and time claims, and returns the
// token subject — the external id cross-referenced against the local role pivot.
func (v *ExternalVerifier) Verify(_ context.Context, token string) (string, error) {
	v.mu.RLock()
	set := v.keys
	v.mu.RUnlock()

	tok, err := jwt.Parse(
		[]byte(token),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrExternalTokenInvalid, err)
	}

	subject, ok := tok.Subject()
	if !ok || subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrExternalTokenInvalid)
	}
	return subject, nil
}
