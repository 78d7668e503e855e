package handlers

import (
	"net/http"
	"strconv"

	"marocbus/internal/cities"
	"marocbus/internal/http/middleware"
	"marocbus/internal/search"
	"marocbus/internal/utils"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	Service search.Service
	Cities  *cities.Directory
}

// GET /api/villes
func (h SearchHandler) Villes(c *gin.Context) {
	names := h.Cities.All(c.Request.Context())
	out := make([]gin.H, 0, len(names))
	for id, nom := range names {
		out = append(out, gin.H{"villeId": id, "nom": nom})
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/search
// Validates the form and, when valid, answers with the canonical results
// query string. No backend call happens here.
func (h SearchHandler) SubmitForm(c *gin.Context) {
	var params search.Params
	if !BindJSONOrError(c, &params) {
		return
	}
	if err := params.Validate(); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": "/search?" + params.Query().Encode()})
}

// GET /api/search/results
// Executes the search once and applies the client-side filters to the
// fetched set.
func (h SearchHandler) Results(c *gin.Context) {
	params := search.Params{
		VilleDepartID:  queryInt64(c, "villeDepartId"),
		VilleArriveeID: queryInt64(c, "villeArriveeId"),
		DateDepart:     c.Query("dateDepart"),
		NbrPassagers:   queryIntDefault(c, "nbrPassagers", 1),
		AllerRetour:    c.Query("allerRetour") == "true",
		DateRetour:     c.Query("dateRetour"),
	}
	if err := params.Validate(); err != nil {
		RespondDomainError(c, err)
		return
	}

	trajets := h.Service.Search(c.Request.Context(), params)

	filters := search.Filters{Compagnie: c.Query("compagnie")}
	if raw := c.Query("maxPrix"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filters.MaxPrix = v
		}
	}
	filtered := search.ApplyFilters(trajets, filters)

	// Label the trips so the view never shows raw city ids.
	names := h.Cities.All(c.Request.Context())
	for i := range filtered {
		if filtered[i].VilleDepartNom == "" {
			filtered[i].VilleDepartNom = names[filtered[i].VilleDepartID]
		}
		if filtered[i].VilleArriveeNom == "" {
			filtered[i].VilleArriveeNom = names[filtered[i].VilleArriveeID]
		}
	}

	utils.LogEvent(middleware.GetRequestID(c), "search", "results",
		"trajets="+strconv.Itoa(len(filtered)))
	c.JSON(http.StatusOK, gin.H{
		"trajets":    filtered,
		"compagnies": search.Compagnies,
	})
}

func queryInt64(c *gin.Context, key string) int64 {
	v, _ := strconv.ParseInt(c.Query(key), 10, 64)
	return v
}

func queryIntDefault(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
