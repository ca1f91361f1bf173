package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/salvo/internal/auth"
)

// AuthHandler issues tokens to bot clients.
type AuthHandler struct {
	jwtMgr  *auth.JWTManager
	clients map[string]string
	devMode bool
}

// NewAuthHandler creates an AuthHandler. clients maps client IDs to the
// secrets accepted by Token. DevLogin only answers in dev mode.
func NewAuthHandler(jwtMgr *auth.JWTManager, clients map[string]string, devMode bool) *AuthHandler {
	return &AuthHandler{jwtMgr: jwtMgr, clients: clients, devMode: devMode}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Token handles POST /auth/token, the OAuth2 client credentials grant.
// Credentials come from HTTP Basic auth, form-encoded as OAuth2 requires, or
// from the client_id and client_secret form fields.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if r.PostForm.Get("grant_type") != "client_credentials" {
		writeError(w, http.StatusBadRequest, "unsupported_grant_type")
		return
	}

	id, secret, ok := r.BasicAuth()
	if ok {
		id, secret = formUnescape(id), formUnescape(secret)
	} else {
		id, secret = r.PostForm.Get("client_id"), r.PostForm.Get("client_secret")
	}
	want, known := h.clients[id]
	if id == "" || !known || subtle.ConstantTimeCompare([]byte(secret), []byte(want)) != 1 {
		log.Warn().Str("clientId", id).Msg("Rejected client credentials")
		w.Header().Set("WWW-Authenticate", `Basic realm="salvo"`)
		writeError(w, http.StatusUnauthorized, "invalid_client")
		return
	}

	tokens, err := h.jwtMgr.GenerateTokenPair(id)
	if err != nil {
		log.Error().Err(err).Str("clientId", id).Msg("Failed to issue tokens")
		writeError(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}
	log.Info().Str("clientId", id).Msg("Issued client tokens")
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  tokens.AccessToken,
		TokenType:    "Bearer",
		ExpiresIn:    tokens.ExpiresIn,
		RefreshToken: tokens.RefreshToken,
	})
}

func formUnescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

// RefreshToken exchanges a refresh token for a new token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, err := h.jwtMgr.ValidateToken(req.RefreshToken, auth.KindRefresh)
	if err != nil {
		if errors.Is(err, auth.ErrWrongKind) {
			writeError(w, http.StatusUnauthorized, "not a refresh token")
			return
		}
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	tokens, err := h.jwtMgr.GenerateTokenPair(claims.ClientID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

// DevLogin handles GET /auth/dev?name= and returns a token pair for the
// named client. Only available when DEV_MODE=true.
func (h *AuthHandler) DevLogin(w http.ResponseWriter, r *http.Request) {
	if !h.devMode {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing name parameter")
		return
	}

	tokens, err := h.jwtMgr.GenerateTokenPair(name)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("Failed to issue dev tokens")
		writeError(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}
	log.Info().Str("clientId", name).Msg("Issued dev tokens")
	writeJSON(w, http.StatusOK, tokens)
}
