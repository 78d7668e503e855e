package backend

// Wire DTOs mirror the backend's own field naming (French, camelCase).

type Ville struct {
	VilleID int64  `json:"villeId"`
	Nom     string `json:"nom"`
}

type Trajet struct {
	TrajetID        int64   `json:"trajetId"`
	VilleDepartID   int64   `json:"villeDepartId"`
	VilleArriveeID  int64   `json:"villeArriveeId"`
	DureeTrajet     int     `json:"dureeTrajet"` // minutes
	DateDepart      string  `json:"dateDepart"`
	DateArrivee     string  `json:"dateArrivee"`
	Capacite        int     `json:"capacite"`
	NbrPassagers    int     `json:"nbrPassagers"`
	AllerRetour     bool    `json:"allerRetour"`
	Prix            float64 `json:"prix"`
	AdminID         int64   `json:"adminId,omitempty"`
	Compagnie       string  `json:"compagnie,omitempty"`
	VilleDepartNom  string  `json:"villeDepartNom,omitempty"`
	VilleArriveeNom string  `json:"villeArriveeNom,omitempty"`
}

// PlacesRestantes derives remaining seats from capacity and booked count.
func (t Trajet) PlacesRestantes() int {
	n := t.Capacite - t.NbrPassagers
	if n < 0 {
		return 0
	}
	return n
}

type TrajetSearchParams struct {
	VilleDepartID  int64
	VilleArriveeID int64
	DateDepart     string
	NbrPassagers   int
	DateArrivee    string // round trip only
}

type Reservation struct {
	ReservationID   int64  `json:"reservationId"`
	TrajetID        int64  `json:"trajetId"`
	ClientID        int64  `json:"clientId"`
	DateReservation string `json:"dateReservation"`
	NbrReservation  int    `json:"nbrReservation"`
	Etat            string `json:"etat"`
}

// Reservation states as the backend spells them.
const (
	EtatConfirmee = "CONFIRMEE"
	EtatEnAttente = "EN_ATTENTE"
	EtatAnnulee   = "ANNULEE"
)

// CreateReservationRequest is deliberately minimal: the backend contract
// accepts only these fields, seat numbers and price snapshot stay local.
type CreateReservationRequest struct {
	TrajetID       int64  `json:"trajetId"`
	ClientID       int64  `json:"clientId"`
	NbrReservation int    `json:"nbrReservation"`
	Etat           string `json:"etat"`
}

type Credentials struct {
	Email     string `json:"email"`
	MotDePass string `json:"motDePass"`
}

type ClientAuthResult struct {
	Authenticated bool  `json:"authenticated"`
	ClientID      int64 `json:"clientId"`
}

type ClientAccount struct {
	ClientID    int64  `json:"clientId"`
	Nom         string `json:"nom"`
	Prenom      string `json:"prenom"`
	Email       string `json:"email"`
	NmrTelephon string `json:"nmrTelephon"`
}

type AdminAccount struct {
	AdminID     int64  `json:"adminId"`
	Nom         string `json:"nom"`
	Prenom      string `json:"prenom"`
	Email       string `json:"email"`
	NmrTelephon string `json:"nmrTelephon"`
}

// ClientRequest covers both registration and profile update. On update the
// backend requires MotDePass to be present; an empty value leaves the stored
// password untouched.
type ClientRequest struct {
	Nom         string `json:"nom"`
	Prenom      string `json:"prenom"`
	Email       string `json:"email"`
	NmrTelephon string `json:"nmrTelephon"`
	MotDePass   string `json:"motDePass"`
}
