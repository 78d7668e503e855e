package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"marocbus/internal/backend"
	"marocbus/internal/booking"
	"marocbus/internal/http/middleware"
	"marocbus/internal/session"

	"github.com/gin-gonic/gin"
)

// fakeBackend serves only what the wizard flow touches and counts the
// reservation creates.
type fakeBackend struct {
	createCount int64
	lastCreate  backend.CreateReservationRequest
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/trajets/7", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		json.NewEncoder(w).Encode(backend.Trajet{
			TrajetID: 7, VilleDepartID: 1, VilleArriveeID: 2,
			DureeTrajet: 90, DateDepart: "2025-03-01T08:30:00", Capacite: 50, Prix: 150,
		})
	})
	mux.HandleFunc("/trajets/7/disponibilite", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		json.NewEncoder(w).Encode("Disponible")
	})
	mux.HandleFunc("/villes/1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		json.NewEncoder(w).Encode(backend.Ville{VilleID: 1, Nom: "Casablanca"})
	})
	mux.HandleFunc("/villes/2", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		json.NewEncoder(w).Encode(backend.Ville{VilleID: 2, Nom: "Rabat"})
	})
	mux.HandleFunc("/reservations", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req backend.CreateReservationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.lastCreate = req
		atomic.AddInt64(&f.createCount, 1)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(backend.Reservation{
			ReservationID: 301, TrajetID: req.TrajetID, ClientID: req.ClientID,
			NbrReservation: req.NbrReservation, Etat: req.Etat,
		})
	})
	return mux
}

type bookingFixture struct {
	router   *gin.Engine
	backend  *fakeBackend
	sessions *session.Manager
	srv      *httptest.Server
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fb := &fakeBackend{}
	srv := httptest.NewServer(fb.handler())
	t.Cleanup(srv.Close)

	api := backend.New(srv.URL, 5*time.Second)
	sessions := session.NewManager("test-secret", time.Hour)

	store := booking.NewStore(api, time.Hour)
	// Deterministic occupancy for the assertions below.
	store.Occupancy = func() map[int]bool { return map[int]bool{40: true, 41: true} }

	h := BookingHandler{Store: store, API: api}

	r := gin.New()
	grp := r.Group("/api/bookings", middleware.RequireClient(sessions))
	grp.POST("/wizard", h.Create)
	grp.GET("/wizard/:id", h.Get)
	grp.PUT("/wizard/:id/passagers", h.SetPassagers)
	grp.POST("/wizard/:id/sieges/toggle", h.ToggleSeat)
	grp.PUT("/wizard/:id/paiement", h.SetPaiement)
	grp.POST("/wizard/:id/advance", h.Advance)
	grp.POST("/wizard/:id/retreat", h.Retreat)
	grp.POST("/wizard/:id/submit", h.Submit)

	return &bookingFixture{router: r, backend: fb, sessions: sessions, srv: srv}
}

func (f *bookingFixture) cookie(t *testing.T, userID int64) *http.Cookie {
	t.Helper()
	tok, err := f.sessions.Issue(session.User{UserID: userID, Email: "sara@example.ma", UserType: session.TypeClient})
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	return &http.Cookie{Name: session.CookieName, Value: tok}
}

func (f *bookingFixture) do(t *testing.T, cookie *http.Cookie, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeWizard(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestWizardRequiresClientSession(t *testing.T) {
	f := newBookingFixture(t)
	rec := f.do(t, nil, http.MethodPost, "/api/bookings/wizard", gin.H{"trajetId": 7, "nbrPassagers": 2})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestWizardOwnerScoped(t *testing.T) {
	f := newBookingFixture(t)
	owner := f.cookie(t, 42)
	other := f.cookie(t, 43)

	rec := f.do(t, owner, http.MethodPost, "/api/bookings/wizard", gin.H{"trajetId": 7, "nbrPassagers": 2})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body.String())
	}
	id := decodeWizard(t, rec)["id"].(string)

	if rec := f.do(t, other, http.MethodGet, "/api/bookings/wizard/"+id, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("foreign access status = %d, want 404", rec.Code)
	}
	if rec := f.do(t, owner, http.MethodGet, "/api/bookings/wizard/"+id, nil); rec.Code != http.StatusOK {
		t.Fatalf("owner access status = %d", rec.Code)
	}
}

func TestAdvanceBlockedOnEmptyStep(t *testing.T) {
	f := newBookingFixture(t)
	cookie := f.cookie(t, 42)

	rec := f.do(t, cookie, http.MethodPost, "/api/bookings/wizard", gin.H{"trajetId": 7, "nbrPassagers": 2})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body.String())
	}
	id := decodeWizard(t, rec)["id"].(string)

	if rec := f.do(t, cookie, http.MethodPost, fmt.Sprintf("/api/bookings/wizard/%s/advance", id), nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("advance on empty step status = %d, want 400", rec.Code)
	}
	if f.backend.createCount != 0 {
		t.Fatalf("no reservation should exist yet, got %d", f.backend.createCount)
	}
}

func TestWizardFullFlow(t *testing.T) {
	f := newBookingFixture(t)
	cookie := f.cookie(t, 42)

	rec := f.do(t, cookie, http.MethodPost, "/api/bookings/wizard", gin.H{"trajetId": 7, "nbrPassagers": 2})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body.String())
	}
	created := decodeWizard(t, rec)
	id := created["id"].(string)
	trip := created["trajet"].(map[string]any)
	if trip["villeDepartNom"] != "Casablanca" || trip["villeArriveeNom"] != "Rabat" {
		t.Fatalf("city names not resolved: %v", trip)
	}

	passagers := gin.H{"passagers": []booking.Passager{
		{Nom: "Alaoui", Prenom: "Sara", Telephone: "0600000000", Email: "sara@example.ma"},
		{Nom: "Alaoui", Prenom: "Yassine", Telephone: "0611111111", Email: "yassine@example.ma"},
	}}
	if rec := f.do(t, cookie, http.MethodPut, fmt.Sprintf("/api/bookings/wizard/%s/passagers", id), passagers); rec.Code != http.StatusOK {
		t.Fatalf("set passagers status = %d body=%s", rec.Code, rec.Body.String())
	}
	if rec := f.do(t, cookie, http.MethodPost, fmt.Sprintf("/api/bookings/wizard/%s/advance", id), nil); rec.Code != http.StatusOK {
		t.Fatalf("advance to seats status = %d body=%s", rec.Code, rec.Body.String())
	}

	// Occupied seat 40 is a no-op, so two free seats are needed.
	for _, siege := range []int{40, 1, 2} {
		if rec := f.do(t, cookie, http.MethodPost, fmt.Sprintf("/api/bookings/wizard/%s/sieges/toggle", id), gin.H{"siege": siege}); rec.Code != http.StatusOK {
			t.Fatalf("toggle seat %d status = %d", siege, rec.Code)
		}
	}
	rec = f.do(t, cookie, http.MethodPost, fmt.Sprintf("/api/bookings/wizard/%s/advance", id), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("advance to payment status = %d body=%s", rec.Code, rec.Body.String())
	}
	if etape := decodeWizard(t, rec)["etape"].(float64); etape != float64(booking.StepPaiement) {
		t.Fatalf("etape = %v, want %d", etape, booking.StepPaiement)
	}

	paiement := gin.H{"cardNumber": "4111111111111111", "expiry": "12/27", "cvv": "123", "holderName": "SARA ALAOUI"}
	if rec := f.do(t, cookie, http.MethodPut, fmt.Sprintf("/api/bookings/wizard/%s/paiement", id), paiement); rec.Code != http.StatusOK {
		t.Fatalf("set paiement status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, cookie, http.MethodPost, fmt.Sprintf("/api/bookings/wizard/%s/submit", id), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d body=%s", rec.Code, rec.Body.String())
	}
	out := decodeWizard(t, rec)
	if out["redirect"] != "/dashboard?booking=success" {
		t.Fatalf("redirect = %v", out["redirect"])
	}

	if f.backend.createCount != 1 {
		t.Fatalf("reservation create count = %d, want 1", f.backend.createCount)
	}
	want := backend.CreateReservationRequest{TrajetID: 7, ClientID: 42, NbrReservation: 2, Etat: backend.EtatConfirmee}
	if f.backend.lastCreate != want {
		t.Fatalf("create payload = %+v, want %+v", f.backend.lastCreate, want)
	}

	// The session is gone once submitted.
	if rec := f.do(t, cookie, http.MethodGet, "/api/bookings/wizard/"+id, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("post-submit access status = %d, want 404", rec.Code)
	}
}
