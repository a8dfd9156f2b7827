package security

import (
	"net/http"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// SecretHeader carries the shared control-surface secret. Authentication
// here is deliberately a plain shared-secret check; real authn/authz lives
// outside this service.
const SecretHeader = "X-Control-Secret"

// Guard answers whether a request is allowed to hit the control surface.
// The configured secret is hashed once at startup so the plaintext never
// sits in the struct.
type Guard struct {
	hash []byte
}

// NewGuard hashes the configured shared secret. An empty secret disables
// the guard entirely, which is only sane for local development.
func NewGuard() (*Guard, error) {
	config := GetConfig()

	if config.ControlSecret == "" {
		logger.Warn("CONTROL_SECRET not set, control surface is unauthenticated")
		return &Guard{}, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(config.ControlSecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Guard{hash: hash}, nil
}

// Allow checks the request's secret header against the configured secret.
func (g *Guard) Allow(r *http.Request) bool {
	if len(g.hash) == 0 {
		return true
	}
	supplied := r.Header.Get(SecretHeader)
	if supplied == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(g.hash, []byte(supplied)) == nil
}

// Middleware rejects unauthenticated control requests with 401.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Allow(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
