package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/galaxybank/ledger-core/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

// BasicAuth guards the teller channel. When channelKeyHash is set the key is
// verified against the bcrypt hash, otherwise a constant-time plain compare
// is used.
func BasicAuth(channelID, channelKey, channelKeyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if channelID == "" || (channelKey == "" && channelKeyHash == "") {
				logger.Error("basic auth middleware missing server configuration", nil, logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "server auth configuration is missing", http.StatusInternalServerError)
				return
			}

			id, key, ok := r.BasicAuth()
			if !ok || !secureEqual(id, channelID) || !keyMatches(key, channelKey, channelKeyHash) {
				logger.Info("basic auth middleware unauthorized request", logger.Fields{
					"method":      r.Method,
					"path":        r.URL.Path,
					"credentials": "invalid_or_missing",
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func keyMatches(presented, plainKey, keyHash string) bool {
	if keyHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(presented)) == nil
	}
	return secureEqual(presented, plainKey)
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
