package mockbackend

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type metadata struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

type account struct {
	id        string
	email     string
	hash      []byte
	metadata  metadata
	confirmed bool
}

type authUser struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	UserMetadata metadata `json:"user_metadata"`
}

type sessionBody struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	User        *authUser `json:"user"`
}

func (a *account) user() *authUser {
	return &authUser{ID: a.id, Email: a.email, UserMetadata: a.metadata}
}

func authError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, map[string]string{"error": code, "error_description": description})
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string   `json:"email"`
		Password string   `json:"password"`
		Data     metadata `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		authError(w, http.StatusUnprocessableEntity, "validation_failed", "Unable to validate email address: invalid format")
		return
	}
	if len(req.Password) < minPasswordLength {
		authError(w, http.StatusUnprocessableEntity, "weak_password", "Password should be at least 6 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		authError(w, http.StatusInternalServerError, "server_error", "Failed to store credentials")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[email]; exists {
		s.mu.Unlock()
		authError(w, http.StatusUnprocessableEntity, "user_already_exists", "User already registered")
		return
	}
	acct := &account{
		id:        uuid.NewString(),
		email:     email,
		hash:      hash,
		metadata:  req.Data,
		confirmed: s.cfg.AutoConfirm,
	}
	s.accounts[email] = acct
	s.tables["users"] = append(s.tables["users"], s.prepareRow(map[string]any{
		"id":    acct.id,
		"name":  req.Data.Name,
		"email": email,
		"role":  req.Data.Role,
	}))
	s.mu.Unlock()

	if !acct.confirmed {
		writeJSON(w, http.StatusOK, map[string]any{"user": acct.user()})
		return
	}

	session, err := s.newSession(acct)
	if err != nil {
		authError(w, http.StatusInternalServerError, "server_error", "Failed to issue session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": session, "user": acct.user()})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grant_type") != "password" {
		authError(w, http.StatusBadRequest, "unsupported_grant_type", "Unsupported grant type")
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	s.mu.RLock()
	acct, ok := s.accounts[strings.ToLower(strings.TrimSpace(req.Email))]
	s.mu.RUnlock()
	if !ok || bcrypt.CompareHashAndPassword(acct.hash, []byte(req.Password)) != nil {
		authError(w, http.StatusBadRequest, "invalid_grant", "Invalid login credentials")
		return
	}
	if !acct.confirmed {
		authError(w, http.StatusBadRequest, "invalid_grant", "Email not confirmed")
		return
	}

	session, err := s.newSession(acct)
	if err != nil {
		authError(w, http.StatusInternalServerError, "server_error", "Failed to issue session")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) newSession(acct *account) (*sessionBody, error) {
	token, err := s.tokens.issue(acct)
	if err != nil {
		return nil, err
	}
	return &sessionBody{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.ttl.Seconds()),
		User:        acct.user(),
	}, nil
}

// ConfirmEmail marks a pending account as confirmed. It reports whether the
// account exists.
func (s *Server) ConfirmEmail(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[strings.ToLower(email)]
	if ok {
		acct.confirmed = true
	}
	return ok
}
