package backend

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) CreateReservation(ctx context.Context, req CreateReservationRequest) (Reservation, error) {
	var out Reservation
	err := c.do(ctx, http.MethodPost, "/reservations", nil, req, &out)
	return out, err
}

func (c *Client) GetReservation(ctx context.Context, id int64) (Reservation, error) {
	var out Reservation
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reservations/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) ReservationsByClient(ctx context.Context, clientID int64) ([]Reservation, error) {
	var out []Reservation
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reservations/client/%d", clientID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CancelReservation(ctx context.Context, id int64) (Reservation, error) {
	var out Reservation
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/reservations/%d/cancel", id), nil, nil, &out)
	return out, err
}

func (c *Client) UpdateReservation(ctx context.Context, id int64, r Reservation) (Reservation, error) {
	var out Reservation
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/reservations/%d", id), nil, r, &out)
	return out, err
}

func (c *Client) DeleteReservation(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/reservations/%d", id), nil, nil, nil)
}
