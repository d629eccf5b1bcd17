package session

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/reelsmith/dashboard-go/pkg/config"
)

// TokenStore persists the bearer token between requests. The session keeps
// two stores in sync: a token file the gateway reads on startup and a cookie
// the route guard reads before rendering.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileStore keeps the token in a mode-0600 file under the user's home or a
// configured path.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load() (string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func (f *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, []byte(token), 0o600)
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// CookieStore reads and writes the auth cookie on one request/response pair.
// The guard middleware reads the same cookie, so a cleared session is
// redirected away from protected pages on the very next request.
type CookieStore struct {
	cfg config.SessionConfig
	req *http.Request
	w   http.ResponseWriter
}

func NewCookieStore(cfg config.SessionConfig, w http.ResponseWriter, req *http.Request) *CookieStore {
	return &CookieStore{cfg: cfg, req: req, w: w}
}

func (c *CookieStore) Load() (string, error) {
	if c.req == nil {
		return "", nil
	}
	cookie, err := c.req.Cookie(c.cfg.CookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

func (c *CookieStore) Save(token string) error {
	if c.w == nil {
		return nil
	}
	http.SetCookie(c.w, &http.Cookie{
		Name:     c.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cookieLifetime(token, c.cfg.CookieMaxAge).Seconds()),
		Secure:   c.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (c *CookieStore) Clear() error {
	if c.w == nil {
		return nil
	}
	http.SetCookie(c.w, &http.Cookie{
		Name:     c.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   c.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// cookieLifetime caps the configured max-age at the token's own expiry, so a
// cookie never outlives the JWT it carries. Tokens without a readable exp
// claim fall back to the configured max-age.
func cookieLifetime(token string, maxAge time.Duration) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return maxAge
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return maxAge
	}
	remaining := time.Until(exp.Time)
	if remaining <= 0 {
		return maxAge
	}
	if remaining < maxAge {
		return remaining
	}
	return maxAge
}
