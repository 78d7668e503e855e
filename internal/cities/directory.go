// Package cities memoizes the backend city list so labels never render as
// raw ids.
package cities

import (
	"context"
	"fmt"
	"sync"

	"marocbus/internal/backend"
	"marocbus/internal/utils"
)

type villeLister interface {
	ListVilles(ctx context.Context) ([]backend.Ville, error)
}

// fallbackVilles keeps the UI labeled when the backend is down. No retry,
// the degraded table stays until the process restarts.
var fallbackVilles = map[int64]string{
	1:  "Casablanca",
	2:  "Rabat",
	3:  "Fès",
	4:  "Marrakech",
	5:  "Tanger",
	6:  "Agadir",
	7:  "Meknès",
	8:  "Oujda",
	9:  "Tétouan",
	10: "El Jadida",
}

type Directory struct {
	api villeLister

	mu     sync.Mutex
	loaded bool
	names  map[int64]string
}

func NewDirectory(api villeLister) *Directory {
	return &Directory{api: api}
}

// All returns the id -> name mapping, fetching it once per process lifetime.
func (d *Directory) All(ctx context.Context) map[int64]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadLocked(ctx)

	out := make(map[int64]string, len(d.names))
	for id, nom := range d.names {
		out[id] = nom
	}
	return out
}

// Name resolves a single city label, falling back to the raw id.
func (d *Directory) Name(ctx context.Context, id int64) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadLocked(ctx)

	if nom, ok := d.names[id]; ok {
		return nom
	}
	return fmt.Sprintf("Ville %d", id)
}

func (d *Directory) loadLocked(ctx context.Context) {
	if d.loaded {
		return
	}

	villes, err := d.api.ListVilles(ctx)
	if err != nil || len(villes) == 0 {
		utils.LogEvent("", "cities", "load_fallback", "liste des villes indisponible, table de secours utilisée")
		d.names = fallbackVilles
		d.loaded = true
		return
	}

	d.names = make(map[int64]string, len(villes))
	for _, v := range villes {
		d.names[v.VilleID] = v.Nom
	}
	d.loaded = true
}
