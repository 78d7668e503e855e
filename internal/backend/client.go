// Package backend is the single gateway to the reservation REST backend.
// Every call goes through Client.do, which applies the base URL, JSON
// headers, and uniform error translation.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marocbus/internal/domain"
)

// APIError carries a non-2xx backend response: HTTP status plus the parsed
// message when the error body was JSON.
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend: status %d", e.Status)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return domain.InternalError{Msg: "encodage de la requête échoué", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.UnavailableError{Msg: "backend injoignable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.asError(resp)
	}

	// 204 is a successful null result.
	if resp.StatusCode == http.StatusNoContent || out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.UnavailableError{Msg: "lecture de la réponse échouée", Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.InternalError{Msg: "réponse backend illisible", Err: err}
	}
	return nil
}

func (c *Client) asError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode, Body: raw}

	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &parsed) == nil {
		if parsed.Message != "" {
			apiErr.Message = parsed.Message
		} else if parsed.Error != "" {
			apiErr.Message = parsed.Error
		}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.UnauthorizedError{Msg: apiErr.Message, Err: apiErr}
	case resp.StatusCode == http.StatusNotFound:
		return domain.NotFoundError{Resource: "ressource", Err: apiErr}
	case resp.StatusCode == http.StatusConflict:
		return domain.ConflictError{Msg: apiErr.Message, Err: apiErr}
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return domain.ValidationError{Msg: apiErr.Message, Err: apiErr}
	case resp.StatusCode >= 500:
		return domain.UnavailableError{Msg: apiErr.Message, Err: apiErr}
	default:
		return domain.InternalError{Msg: apiErr.Message, Err: apiErr}
	}
}
