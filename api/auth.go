package api

import "context"

// Login exchanges credentials for a session token via POST /auth/login.
// A rejection is returned as a structured result, never as an error;
// the error return is reserved for transport-level failure.
func (c *Client) Login(ctx context.Context, username, password string) (AuthResult, error) {
	return c.postAuth(ctx, "/auth/login", loginRequest{
		Username: username,
		Password: password,
	})
}

// Register creates the administrator account via POST /auth/register.
// The backend enforces the first-admin-only rule; this client only
// relays its verdict. Same contract as Login.
func (c *Client) Register(ctx context.Context, username, email, password string) (AuthResult, error) {
	return c.postAuth(ctx, "/auth/register", registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
}
