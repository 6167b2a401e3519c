// internal/httpserver/auth.go
//
// Player accounts on top of the guest flow.
//   - POST /auth/signup, /auth/login, /auth/logout; GET /auth/me (auth).
//   - HS256 JWTs carried in an HttpOnly cookie or an Authorization: Bearer header.
//   - Guests are tracked by an anonymous cookie; their games move to the
//     account on signup/login.
//
// Environment variables:
//   JWT_SECRET, JWT_EXPIRES_DAYS (default 14), COOKIE_NAME (default wordsearch_token),
//   NODE_ENV=production switches cookies to Secure + SameSite=None.

package httpserver

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const anonCookieName = "wordsearch_anon"

// authUser is placed into request context by auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// authConfig is read from the environment once per Server.
type authConfig struct {
	secret   []byte
	ttl      time.Duration
	cookie   string
	secure   bool
	sameSite http.SameSite
}

func loadAuthConfig() authConfig {
	days := 14
	if n, err := strconv.Atoi(os.Getenv("JWT_EXPIRES_DAYS")); err == nil && n > 0 {
		days = n
	}
	prod := os.Getenv("NODE_ENV") == "production"
	cfg := authConfig{
		secret:   []byte(getEnv("JWT_SECRET", "dev_secret_change_me")),
		ttl:      time.Duration(days) * 24 * time.Hour,
		cookie:   getEnv("COOKIE_NAME", "wordsearch_token"),
		secure:   prod,
		sameSite: http.SameSiteLaxMode,
	}
	if prod {
		cfg.sameSite = http.SameSiteNoneMode // cross-site client needs None + Secure
	}
	return cfg
}

// tokenClaims is the JWT payload: subject is the user id.
type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (a authConfig) sign(u *userRow, now time.Time) (string, time.Time, error) {
	exp := now.Add(a.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := t.SignedString(a.secret)
	return ss, exp, err
}

// parse verifies an HS256 token and returns its claims.
func (a authConfig) parse(tokenStr string) (*tokenClaims, bool) {
	var c tokenClaims
	tok, err := jwt.ParseWithClaims(tokenStr, &c, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid || c.Subject == "" {
		return nil, false
	}
	return &c, true
}

func (a authConfig) setCookie(w http.ResponseWriter, name, value string, exp time.Time) {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: a.sameSite,
	}
	if exp.IsZero() {
		c.MaxAge = -1
	} else {
		c.Expires = exp
	}
	http.SetCookie(w, c)
}

// token extracts a bearer token from the Authorization header or the auth cookie.
func (a authConfig) token(r *http.Request) string {
	if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if c, err := r.Cookie(a.cookie); err == nil {
		return c.Value
	}
	return ""
}

// mountAuthRoutes registers the account routes.
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		s.auth.setCookie(w, s.auth.cookie, "", time.Time{})
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentUser(r))
	})
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return c, false
	}
	return c, true
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	u, err := s.users.create(r.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, errUsernameTaken):
		writeError(w, http.StatusConflict, "Username taken")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.startSession(w, r, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	u, err := s.users.authenticate(r.Context(), body.Username, body.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	s.startSession(w, r, u)
}

// startSession issues the auth cookie and adopts the caller's guest games.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, u *userRow) {
	tok, exp, err := s.auth.sign(u, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.auth.setCookie(w, s.auth.cookie, tok, exp)
	if c, err := r.Cookie(anonCookieName); err == nil {
		if err := s.users.claimGames(r.Context(), c.Value, u.ID); err != nil {
			log.Warn().Err(err).Str("user", u.ID).Msg("claim guest games")
		}
		if s.daily != nil {
			s.daily.claim(c.Value, u.ID)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        u.ID,
		"username":  u.Username,
		"createdAt": u.CreatedAt,
		"token":     tok,
	})
}

// ensureAnonID returns the guest cookie, issuing one if missing.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := genID()
	s.auth.setCookie(w, anonCookieName, id, time.Now().Add(180*24*time.Hour))
	// Later lookups within this request see the same id.
	r.AddCookie(&http.Cookie{Name: anonCookieName, Value: id})
	return id
}

// genID creates a 22-char URL-safe random identifier.
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
