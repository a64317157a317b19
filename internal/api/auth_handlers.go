package api

import (
	"encoding/base64"
	"log"
	"net/http"
	"strings"

	"magazyn-plikow/internal/auth"
)

type TokenResponse struct {
	Token string `json:"token" example:"031bffac-3edc-4856-85cf-ac2b53f58fd9"`
}

// @Summary      Logs a user in
// @Description  Exchanges Basic credentials (base64 of "email:password") for an opaque session token with a 24h expiry.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  TokenResponse
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /connect [get]
func (s *Server) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	// Każda nieudana kontrola kończy się identycznym 401 — bez podpowiedzi,
	// który etap zawiódł.
	email, password, ok := decodeBasicCredentials(r.Header.Get("Authorization"))
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		log.Printf("ERROR: Failed to look up user for login: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil || !auth.CheckPasswordHash(password, user.PasswordHash) {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	token, err := s.sessions.Create(r.Context(), user.ID)
	if err != nil {
		log.Printf("ERROR: Failed to create session for user %d: %v", user.ID, err)
		respondError(w, http.StatusServiceUnavailable, "Service unavailable")
		return
	}

	respondJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// @Summary      Logs a user out
// @Description  Revokes the session identified by the X-Token header.
// @Tags         auth
// @Success      204  {string}  string ""
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /disconnect [get]
func (s *Server) DisconnectHandler(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Token")

	existed, err := s.sessions.Revoke(r.Context(), token)
	if err != nil {
		log.Printf("ERROR: Failed to revoke session: %v", err)
		respondError(w, http.StatusServiceUnavailable, "Service unavailable")
		return
	}
	if !existed {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeBasicCredentials parses "Basic base64(email:password)". The pair
// must split into exactly two parts.
func decodeBasicCredentials(header string) (email, password string, ok bool) {
	headerParts := strings.Split(header, " ")
	if len(headerParts) != 2 || headerParts[0] != "Basic" {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(headerParts[1])
	if err != nil {
		return "", "", false
	}

	pair := strings.Split(string(decoded), ":")
	if len(pair) != 2 {
		return "", "", false
	}

	return pair[0], pair[1], true
}
