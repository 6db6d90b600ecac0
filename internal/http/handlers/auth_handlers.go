package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/inventory-system/internal/auth"
	"go.uber.org/zap"
)

// LoginHandler godoc
// @Summary Authenticate a staff user and return a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unauthorized"
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials CredentialsRequest
	if err := readJSON(w, r, &credentials); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if credentials.Username == "" || credentials.Password == "" {
		http.Error(w, "missing credentials", http.StatusBadRequest)
		return
	}

	if tokenIssuer == nil {
		http.Error(w, "authentication unavailable", http.StatusServiceUnavailable)
		return
	}

	user, err := userRepo.GetByUsername(r.Context(), credentials.Username)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, credentials.Password) {
		logger.Info("failed login", zap.String("username", credentials.Username))
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := tokenIssuer.GenerateToken(user)
	if err != nil {
		logger.Error("could not generate token", zap.Error(err))
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, LoginResult{Token: token})
}
