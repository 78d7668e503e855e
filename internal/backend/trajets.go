package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"marocbus/internal/domain"
)

func (p TrajetSearchParams) query() url.Values {
	q := url.Values{
		"villeDepartId":  {strconv.FormatInt(p.VilleDepartID, 10)},
		"villeArriveeId": {strconv.FormatInt(p.VilleArriveeID, 10)},
		"dateDepart":     {p.DateDepart},
		"nbrpassagers":   {strconv.Itoa(p.NbrPassagers)},
	}
	if p.DateArrivee != "" {
		q.Set("dateArrivee", p.DateArrivee)
	}
	return q
}

func (c *Client) SearchAllerSimple(ctx context.Context, p TrajetSearchParams) ([]Trajet, error) {
	var out []Trajet
	if err := c.do(ctx, http.MethodGet, "/trajets/recherche/all-simple", p.query(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchAllerRetour(ctx context.Context, p TrajetSearchParams) ([]Trajet, error) {
	if p.DateArrivee == "" {
		return nil, domain.ValidationError{Field: "dateRetour", Msg: "date de retour requise pour un aller-retour"}
	}
	var out []Trajet
	if err := c.do(ctx, http.MethodGet, "/trajets/recherche/all-retour", p.query(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListTrajets(ctx context.Context) ([]Trajet, error) {
	var out []Trajet
	if err := c.do(ctx, http.MethodGet, "/trajets", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTrajet(ctx context.Context, id int64) (Trajet, error) {
	var out Trajet
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/trajets/%d", id), nil, nil, &out)
	return out, err
}

// CheckDisponibilite asks the backend whether the trip still has the
// requested number of seats.
func (c *Client) CheckDisponibilite(ctx context.Context, trajetID int64, sieges int) (string, error) {
	var out string
	q := url.Values{"nombreSiegesDemandes": {strconv.Itoa(sieges)}}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/trajets/%d/disponibilite", trajetID), q, nil, &out)
	return out, err
}

func (c *Client) CreateTrajet(ctx context.Context, t Trajet) (Trajet, error) {
	var out Trajet
	err := c.do(ctx, http.MethodPost, "/trajets", nil, t, &out)
	return out, err
}

func (c *Client) UpdateTrajet(ctx context.Context, id int64, t Trajet) (Trajet, error) {
	var out Trajet
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/trajets/%d", id), nil, t, &out)
	return out, err
}

func (c *Client) DeleteTrajet(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/trajets/%d", id), nil, nil, nil)
}
