package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/wadjakorntonsri/go-link-directory/pkg/config"
	"github.com/wadjakorntonsri/go-link-directory/pkg/ports"
)

const (
	oauthStateCookie = "oauthstate"
	googleUserInfo   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type AuthHandler struct {
	service     ports.AuthService
	mw          *Middleware
	cookieName  string
	secure      bool
	oauthConfig *oauth2.Config
	userInfoURL string
}

type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// LoginRequest is the body of POST /api/auth.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (req *LoginRequest) Normalize() {
	req.Email = strings.TrimSpace(req.Email)
}

type statusResponse struct {
	Authenticated bool `json:"authenticated"`
}

func NewAuthHandler(cfg *config.Config, service ports.AuthService, mw *Middleware) *AuthHandler {
	h := &AuthHandler{
		service:     service,
		mw:          mw,
		cookieName:  cfg.SessionCookieName,
		secure:      cfg.Secure(),
		userInfoURL: googleUserInfo,
	}
	if cfg.GoogleClientID != "" {
		h.oauthConfig = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
			Endpoint:     google.Endpoint,
		}
	}
	return h
}

// GoogleEnabled reports whether Google sign-in routes should be mounted.
func (h *AuthHandler) GoogleEnabled() bool {
	return h.oauthConfig != nil
}

// Status reports whether the caller holds a valid session.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	_, ok := h.mw.session(r)
	writeJSON(w, http.StatusOK, statusResponse{Authenticated: ok})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	token, expiresAt, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Str("email", req.Email).Msg("login rejected")
		writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, token, expiresAt)
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, h.cookieName)
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := h.generateStateOauthCookie(w)
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	// The state is single use whatever the outcome.
	oauthState, err := r.Cookie(oauthStateCookie)
	h.clearCookie(w, oauthStateCookie)
	if err != nil || r.FormValue("state") != oauthState.Value {
		log.Warn().Msg("google callback with missing or mismatched state")
		writeError(w, r, newHTTPError(http.StatusBadRequest, "Invalid OAuth state"))
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		writeError(w, r, fmt.Errorf("code exchange: %w", err))
		return
	}

	user, err := h.fetchGoogleUser(r, token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if !user.VerifiedEmail || !h.service.EmailAllowed(user.Email) {
		log.Warn().Str("email", user.Email).Msg("google sign-in denied")
		writeError(w, r, newHTTPError(http.StatusForbidden, "Email is not allowed to sign in"))
		return
	}

	session, expiresAt, err := h.service.IssueToken(user.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, session, expiresAt)
	log.Info().Str("email", user.Email).Msg("google sign-in")
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

func (h *AuthHandler) fetchGoogleUser(r *http.Request, token *oauth2.Token) (*GoogleUser, error) {
	resp, err := h.oauthConfig.Client(r.Context(), token).Get(h.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetching google user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching google user: status %d", resp.StatusCode)
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decoding google user: %w", err)
	}
	return &user, nil
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) generateStateOauthCookie(w http.ResponseWriter) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((20 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return state, nil
}
