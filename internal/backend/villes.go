package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

func (c *Client) ListVilles(ctx context.Context) ([]Ville, error) {
	var out []Ville
	if err := c.do(ctx, http.MethodGet, "/villes", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetVille(ctx context.Context, id int64) (Ville, error) {
	var out Ville
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/villes/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) SearchVilleByNom(ctx context.Context, nom string) (Ville, error) {
	var out Ville
	q := url.Values{"nom": {nom}}
	err := c.do(ctx, http.MethodGet, "/villes/search", q, nil, &out)
	return out, err
}

func (c *Client) CreateVille(ctx context.Context, v Ville) (Ville, error) {
	var out Ville
	err := c.do(ctx, http.MethodPost, "/villes", nil, v, &out)
	return out, err
}

func (c *Client) UpdateVille(ctx context.Context, id int64, v Ville) (Ville, error) {
	var out Ville
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/villes/%d", id), nil, v, &out)
	return out, err
}

func (c *Client) DeleteVille(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/villes/%d", id), nil, nil, nil)
}
