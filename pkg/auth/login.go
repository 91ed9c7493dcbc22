// Package auth implements the admin login exchange and token introspection.
package auth

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/elitceler/streetcause-admin/pkg/api"
	"github.com/elitceler/streetcause-admin/pkg/session"
)

var validate = validator.New()

// Credentials are the admin login inputs, validated before any network call.
type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Gateway is the slice of the API client login depends on.
type Gateway interface {
	Post(ctx context.Context, endpoint string, body, out any, opts ...api.RequestOption) error
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
	Email       string `json:"email"`
}

// Login exchanges credentials for a session token and stores it. The login
// endpoint itself is unauthenticated.
func Login(ctx context.Context, gw Gateway, sess *session.Store, creds Credentials) error {
	if err := validate.Struct(creds); err != nil {
		return fmt.Errorf("invalid credentials: %w", err)
	}

	var resp loginResponse
	body := loginRequest{Email: creds.Email, Password: creds.Password}
	if err := gw.Post(ctx, "/admins/login", body, &resp, api.WithoutAuth()); err != nil {
		return err
	}

	if err := sess.Set(resp.AccessToken, resp.Email); err != nil {
		return err
	}
	return nil
}
