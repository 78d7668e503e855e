// Package search runs trip searches against the backend and degrades to a
// synthesized result set when the backend fails.
package search

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strconv"
	"time"

	"marocbus/internal/backend"
	"marocbus/internal/domain"
	"marocbus/internal/utils"
)

// Compagnies is the fixed carrier list. Trips on the wire carry no carrier,
// one is assigned at random until the backend exposes it per trip.
var Compagnies = []string{
	"Asfar Tissir",
	"Trans AL YAMAMA",
	"Supratours",
	"CTM Voyage",
	"Ghazala Bus",
}

// Params is the search form as submitted by the user.
type Params struct {
	VilleDepartID  int64  `json:"villeDepartId"`
	VilleArriveeID int64  `json:"villeArriveeId"`
	DateDepart     string `json:"dateDepart"`
	NbrPassagers   int    `json:"nbrPassagers"`
	AllerRetour    bool   `json:"allerRetour"`
	DateRetour     string `json:"dateRetour"`
}

// Validate enforces the form preconditions before any navigation or call.
func (p Params) Validate() error {
	if p.VilleDepartID <= 0 {
		return domain.ValidationError{Field: "villeDepartId", Msg: "ville de départ requise"}
	}
	if p.VilleArriveeID <= 0 {
		return domain.ValidationError{Field: "villeArriveeId", Msg: "ville d'arrivée requise"}
	}
	if utils.TrimOrEmpty(p.DateDepart) == "" {
		return domain.ValidationError{Field: "dateDepart", Msg: "date de départ requise"}
	}
	if _, err := utils.ParseDate(p.DateDepart); err != nil {
		return domain.ValidationError{Field: "dateDepart", Msg: "date de départ invalide", Err: err}
	}
	if p.NbrPassagers < 1 {
		return domain.ValidationError{Field: "nbrPassagers", Msg: "au moins un passager requis"}
	}
	if p.AllerRetour {
		if utils.TrimOrEmpty(p.DateRetour) == "" {
			return domain.ValidationError{Field: "dateRetour", Msg: "date de retour requise pour un aller-retour"}
		}
		if _, err := utils.ParseDate(p.DateRetour); err != nil {
			return domain.ValidationError{Field: "dateRetour", Msg: "date de retour invalide", Err: err}
		}
	}
	return nil
}

// Query renders the canonical query string the results view is driven by.
func (p Params) Query() url.Values {
	q := url.Values{
		"villeDepartId":  {strconv.FormatInt(p.VilleDepartID, 10)},
		"villeArriveeId": {strconv.FormatInt(p.VilleArriveeID, 10)},
		"dateDepart":     {p.DateDepart},
		"nbrPassagers":   {strconv.Itoa(p.NbrPassagers)},
		"allerRetour":    {strconv.FormatBool(p.AllerRetour)},
	}
	if p.AllerRetour && p.DateRetour != "" {
		q.Set("dateRetour", p.DateRetour)
	}
	return q
}

type tripSearcher interface {
	SearchAllerSimple(ctx context.Context, p backend.TrajetSearchParams) ([]backend.Trajet, error)
	SearchAllerRetour(ctx context.Context, p backend.TrajetSearchParams) ([]backend.Trajet, error)
}

type Service struct {
	API tripSearcher
}

// Search dispatches to the one-way or round-trip backend query. Backend
// failure is masked by a synthesized result set, never surfaced to the user.
func (s Service) Search(ctx context.Context, p Params) []backend.Trajet {
	wire := backend.TrajetSearchParams{
		VilleDepartID:  p.VilleDepartID,
		VilleArriveeID: p.VilleArriveeID,
		DateDepart:     p.DateDepart,
		NbrPassagers:   p.NbrPassagers,
	}

	var (
		trajets []backend.Trajet
		err     error
	)
	if p.AllerRetour && p.DateRetour != "" {
		wire.DateArrivee = p.DateRetour
		trajets, err = s.API.SearchAllerRetour(ctx, wire)
	} else {
		trajets, err = s.API.SearchAllerSimple(ctx, wire)
	}
	if err != nil {
		utils.LogEvent("", "search", "fallback", fmt.Sprintf("recherche backend échouée: %v", err))
		return fallbackTrajets(p)
	}

	for i := range trajets {
		if trajets[i].Compagnie == "" {
			trajets[i].Compagnie = randomCompagnie()
		}
	}
	return trajets
}

func randomCompagnie() string {
	return Compagnies[rand.Intn(len(Compagnies))]
}

// fallbackTrajets synthesizes 3 to 20 plausible trips for the requested
// route and date so the results page never shows a backend failure.
func fallbackTrajets(p Params) []backend.Trajet {
	base, err := utils.ParseDate(p.DateDepart)
	if err != nil {
		base, _ = utils.ParseDate("2025-01-20")
	}

	count := 3 + rand.Intn(18)
	out := make([]backend.Trajet, 0, count)
	for i := 0; i < count; i++ {
		duree := 60 + rand.Intn(301) // 60..360 minutes
		depart := base.Add(time.Duration(rand.Intn(24))*time.Hour + time.Duration(rand.Intn(60))*time.Minute)
		arrivee := depart.Add(time.Duration(duree) * time.Minute)

		out = append(out, backend.Trajet{
			TrajetID:       int64(i + 1),
			VilleDepartID:  p.VilleDepartID,
			VilleArriveeID: p.VilleArriveeID,
			DateDepart:     depart.Format(time.RFC3339),
			DateArrivee:    arrivee.Format(time.RFC3339),
			DureeTrajet:    duree,
			Capacite:       50,
			NbrPassagers:   rand.Intn(40),
			AllerRetour:    p.AllerRetour,
			Prix:           float64(80 + rand.Intn(101)), // 80..180
			AdminID:        1,
			Compagnie:      randomCompagnie(),
		})
	}
	return out
}

// Filters are re-applied client-side on the already fetched set.
type Filters struct {
	MaxPrix   float64 `json:"maxPrix"`
	Compagnie string  `json:"compagnie"`
}

func ApplyFilters(trajets []backend.Trajet, f Filters) []backend.Trajet {
	out := make([]backend.Trajet, 0, len(trajets))
	for _, t := range trajets {
		if f.MaxPrix > 0 && t.Prix > f.MaxPrix {
			continue
		}
		if f.Compagnie != "" && t.Compagnie != f.Compagnie {
			continue
		}
		out = append(out, t)
	}
	return out
}
