package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// AuthenticateClient checks client credentials. The backend answers 200 with
// authenticated=false for bad credentials, so callers must inspect the result.
func (c *Client) AuthenticateClient(ctx context.Context, creds Credentials) (ClientAuthResult, error) {
	var out ClientAuthResult
	err := c.do(ctx, http.MethodPost, "/clients/authenticate", nil, creds, &out)
	return out, err
}

func (c *Client) AuthenticateAdmin(ctx context.Context, creds Credentials) (AdminAccount, error) {
	var out AdminAccount
	err := c.do(ctx, http.MethodPost, "/admin/login", nil, creds, &out)
	return out, err
}

func (c *Client) RegisterClient(ctx context.Context, req ClientRequest) (ClientAccount, error) {
	var out ClientAccount
	err := c.do(ctx, http.MethodPost, "/clients", nil, req, &out)
	return out, err
}

func (c *Client) GetClient(ctx context.Context, id int64) (ClientAccount, error) {
	var out ClientAccount
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/clients/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) UpdateClient(ctx context.Context, id int64, req ClientRequest) (ClientAccount, error) {
	var out ClientAccount
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/clients/%d", id), nil, req, &out)
	return out, err
}

func (c *Client) ClientByEmail(ctx context.Context, email string) (ClientAccount, error) {
	var out ClientAccount
	q := url.Values{"email": {email}}
	err := c.do(ctx, http.MethodGet, "/clients/by-email", q, nil, &out)
	return out, err
}

func (c *Client) PhoneExists(ctx context.Context, phone string) (bool, error) {
	var out bool
	q := url.Values{"nmrTelephon": {phone}}
	err := c.do(ctx, http.MethodGet, "/clients/phone-exists", q, nil, &out)
	return out, err
}
