package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// UserMetadata is the free-form profile data stored with an auth user.
type UserMetadata struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

type AuthUser struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"user_metadata"`
}

type AuthSession struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresIn    int       `json:"expires_in,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	User         *AuthUser `json:"user,omitempty"`
}

type SignUpRequest struct {
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Data     UserMetadata `json:"data"`
}

// SignUpResponse carries either a session, or nothing usable when the
// account still needs email confirmation.
type SignUpResponse struct {
	Session *AuthSession `json:"session,omitempty"`
	User    *AuthUser    `json:"user,omitempty"`
}

// ActiveSession returns the session issued by sign-up, if any.
func (r *SignUpResponse) ActiveSession() (*AuthSession, bool) {
	if r == nil || r.Session == nil || r.Session.AccessToken == "" {
		return nil, false
	}
	if r.Session.User == nil {
		r.Session.User = r.User
	}
	return r.Session, true
}

type passwordGrant struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new account.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*SignUpResponse, error) {
	var resp SignUpResponse
	if err := c.authCall(ctx, "signup", "/auth/v1/signup", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*AuthSession, error) {
	var resp AuthSession
	if err := c.authCall(ctx, "sign in", "/auth/v1/token?grant_type=password", passwordGrant{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &Error{Kind: KindAuth, Op: "sign in", Detail: "Invalid credentials"}
	}
	return &resp, nil
}

// authCall posts to an auth endpoint. Any error_description in the body is
// an auth failure, whatever the status code.
func (c *Client) authCall(ctx context.Context, op, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", op, err)
	}

	body, err := c.do(ctx, op, http.MethodPost, path, payload, false)
	if err != nil {
		var gerr *Error
		if errors.As(err, &gerr) && gerr.Status >= 400 && gerr.Status < 500 {
			gerr.Kind = KindAuth
		}
		return err
	}

	if detail := errorDetail(body); detail != "" && hasErrorField(body) {
		return &Error{Kind: KindAuth, Op: op, Detail: detail}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindDecode, Op: op, Err: err}
	}
	return nil
}

func hasErrorField(body []byte) bool {
	return gjson.GetBytes(body, "error_description").Exists() || gjson.GetBytes(body, "error").Exists()
}
