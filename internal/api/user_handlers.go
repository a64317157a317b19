package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"magazyn-plikow/internal/auth"
	"magazyn-plikow/internal/database"
)

type RegisterRequest struct {
	Email    string `json:"email" example:"user@x.com"`
	Password string `json:"password" example:"pw123"`
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// @Summary      Register a new user
// @Description  Creates an account with a unique email. The password is stored only as a bcrypt hash.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        registerRequest  body      RegisterRequest  true  "Credentials"
// @Success      201              {object}  UserResponse
// @Failure      400              {object}  errorResponse
// @Router       /users [post]
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Missing email")
		return
	}

	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "Missing email")
		return
	}
	if req.Password == "" {
		respondError(w, http.StatusBadRequest, "Missing password")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("ERROR: Failed to hash password: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.Email, passwordHash)
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			respondError(w, http.StatusBadRequest, "Already exist")
			return
		}
		log.Printf("ERROR: Failed to create user: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, UserResponse{ID: user.ID, Email: user.Email})

	// Powitalne przetwarzanie jest best-effort — konto już istnieje
	if err := s.dispatcher.DispatchUserJob(r.Context(), user.ID); err != nil {
		log.Printf("ERROR: Failed to enqueue welcome job for user %d: %v", user.ID, err)
	}
}

// @Summary      Get current user info
// @Description  Returns the account behind the X-Token session.
// @Tags         users
// @Produce      json
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/me [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR: Failed to load user %d: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	respondJSON(w, http.StatusOK, UserResponse{ID: user.ID, Email: user.Email})
}
