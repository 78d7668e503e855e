// Package dashboard assembles a client's reservations for display and
// handles profile updates against the backend.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"marocbus/internal/backend"
	"marocbus/internal/domain"
	"marocbus/internal/utils"

	"golang.org/x/sync/errgroup"
)

type dashboardAPI interface {
	ReservationsByClient(ctx context.Context, clientID int64) ([]backend.Reservation, error)
	GetReservation(ctx context.Context, id int64) (backend.Reservation, error)
	GetTrajet(ctx context.Context, id int64) (backend.Trajet, error)
	GetVille(ctx context.Context, id int64) (backend.Ville, error)
	GetClient(ctx context.Context, id int64) (backend.ClientAccount, error)
	UpdateClient(ctx context.Context, id int64, req backend.ClientRequest) (backend.ClientAccount, error)
	CancelReservation(ctx context.Context, id int64) (backend.Reservation, error)
}

// EnrichedReservation is a reservation joined with trip and city detail.
// When enrichment fails only the raw reservation fields are present and
// Enriched stays false.
type EnrichedReservation struct {
	backend.Reservation
	Enriched      bool    `json:"enriched"`
	VilleDepart   string  `json:"villeDepart,omitempty"`
	VilleArrivee  string  `json:"villeArrivee,omitempty"`
	DateFormatted string  `json:"dateFormatted,omitempty"`
	HeureDepart   string  `json:"heureDepart,omitempty"`
	HeureArrivee  string  `json:"heureArrivee,omitempty"`
	DureeTrajet   int     `json:"dureeTrajet,omitempty"`
	Prix          float64 `json:"prix,omitempty"`
	Compagnie     string  `json:"compagnie,omitempty"`
}

type Service struct {
	API dashboardAPI
	// EnrichLimit bounds the concurrent follow-up calls per load.
	EnrichLimit int
}

func (s Service) limit() int {
	if s.EnrichLimit > 0 {
		return s.EnrichLimit
	}
	return 4
}

// LoadReservations fetches the client's reservations and enriches each with
// trip detail and both city names. Enrichment fans out concurrently, bounded
// by EnrichLimit; a per-item failure keeps that item raw instead of failing
// the whole list.
func (s Service) LoadReservations(ctx context.Context, clientID int64) ([]EnrichedReservation, error) {
	raw, err := s.API.ReservationsByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	out := make([]EnrichedReservation, len(raw))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit())
	for i, r := range raw {
		i, r := i, r
		g.Go(func() error {
			out[i] = s.enrich(ctx, r)
			return nil
		})
	}
	// Item errors never propagate, the group only bounds concurrency.
	_ = g.Wait()
	return out, nil
}

func (s Service) enrich(ctx context.Context, r backend.Reservation) EnrichedReservation {
	item := EnrichedReservation{Reservation: r}

	trip, err := s.API.GetTrajet(ctx, r.TrajetID)
	if err != nil {
		utils.LogEvent("", "dashboard", "enrich_failed",
			fmt.Sprintf("reservation_id=%d trajet_id=%d err=%v", r.ReservationID, r.TrajetID, err))
		return item
	}

	depart, err := s.API.GetVille(ctx, trip.VilleDepartID)
	if err != nil {
		return item
	}
	arrivee, err := s.API.GetVille(ctx, trip.VilleArriveeID)
	if err != nil {
		return item
	}

	item.Enriched = true
	item.VilleDepart = depart.Nom
	item.VilleArrivee = arrivee.Nom
	item.Prix = trip.Prix
	item.Compagnie = trip.Compagnie
	item.DureeTrajet = trip.DureeTrajet

	if t, err := utils.ParseBackendTime(trip.DateDepart); err == nil {
		fin := t.Add(time.Duration(trip.DureeTrajet) * time.Minute)
		item.DateFormatted = utils.FormatDate(t)
		item.HeureDepart = utils.FormatClock(t)
		item.HeureArrivee = utils.FormatClock(fin)
	}
	return item
}

// ProfileUpdate carries the four editable client fields.
type ProfileUpdate struct {
	Nom         string `json:"nom"`
	Prenom      string `json:"prenom"`
	Email       string `json:"email"`
	NmrTelephon string `json:"nmrTelephon"`
}

func (p ProfileUpdate) validate() error {
	if utils.TrimOrEmpty(p.Nom) == "" {
		return domain.ValidationError{Field: "nom", Msg: "nom requis"}
	}
	if utils.TrimOrEmpty(p.Prenom) == "" {
		return domain.ValidationError{Field: "prenom", Msg: "prénom requis"}
	}
	if utils.TrimOrEmpty(p.Email) == "" {
		return domain.ValidationError{Field: "email", Msg: "email requis"}
	}
	if utils.TrimOrEmpty(p.NmrTelephon) == "" {
		return domain.ValidationError{Field: "nmrTelephon", Msg: "numéro de téléphone requis"}
	}
	return nil
}

// UpdateProfile submits the editable fields. MotDePass is sent empty as the
// backend contract requires; the stored password is not changed.
func (s Service) UpdateProfile(ctx context.Context, clientID int64, p ProfileUpdate) (backend.ClientAccount, error) {
	if err := p.validate(); err != nil {
		return backend.ClientAccount{}, err
	}
	return s.API.UpdateClient(ctx, clientID, backend.ClientRequest{
		Nom:         p.Nom,
		Prenom:      p.Prenom,
		Email:       p.Email,
		NmrTelephon: p.NmrTelephon,
		MotDePass:   "",
	})
}

func (s Service) Client(ctx context.Context, clientID int64) (backend.ClientAccount, error) {
	return s.API.GetClient(ctx, clientID)
}

// CancelReservation cancels one of the client's own reservations. A
// reservation belonging to another client is reported as not found, never
// cancelled.
func (s Service) CancelReservation(ctx context.Context, clientID, id int64) (backend.Reservation, error) {
	res, err := s.API.GetReservation(ctx, id)
	if err != nil {
		return backend.Reservation{}, err
	}
	if res.ClientID != clientID {
		return backend.Reservation{}, domain.NotFoundError{Resource: "réservation"}
	}
	return s.API.CancelReservation(ctx, id)
}
