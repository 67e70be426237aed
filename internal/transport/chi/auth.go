package chi

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/strindex/internal/logger"
)

// publicPaths never require a token.
var publicPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// keyring holds digests of the accepted API keys.
type keyring [][sha256.Size]byte

func newKeyring(apiKeys []string) keyring {
	var k keyring
	for _, key := range apiKeys {
		if key != "" {
			k = append(k, sha256.Sum256([]byte(key)))
		}
	}
	return k
}

// accepts compares every key so timing does not depend on which one matched.
func (k keyring) accepts(token string) bool {
	d := sha256.Sum256([]byte(token))
	ok := 0
	for i := range k {
		ok |= subtle.ConstantTimeCompare(k[i][:], d[:])
	}
	return ok == 1
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// BearerAuthMiddleware rejects requests without a valid API key.
// With no non-empty keys configured it is a no-op. Preflight requests and
// publicPaths are let through.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	keys := newKeyring(apiKeys)

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			var reason string
			switch token, ok := bearerToken(header); {
			case header == "":
				reason = "missing authorization header"
			case !ok:
				reason = "authorization header must use Bearer scheme"
			case !keys.accepts(token):
				reason = "invalid api key"
			default:
				next.ServeHTTP(w, r)
				return
			}

			logger.FromContext(r.Context()).Debug("request rejected", zap.String("reason", reason))
			w.Header().Set("WWW-Authenticate", `Bearer realm="strindex"`)
			writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, reason)
		})
	}
}
