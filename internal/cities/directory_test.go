package cities

import (
	"context"
	"errors"
	"testing"

	"marocbus/internal/backend"
)

type fakeLister struct {
	calls  int
	villes []backend.Ville
	err    error
}

func (f *fakeLister) ListVilles(ctx context.Context) ([]backend.Ville, error) {
	f.calls++
	return f.villes, f.err
}

func TestDirectoryMemoizesSingleFetch(t *testing.T) {
	api := &fakeLister{villes: []backend.Ville{
		{VilleID: 1, Nom: "Casablanca"},
		{VilleID: 4, Nom: "Marrakech"},
	}}
	d := NewDirectory(api)

	all := d.All(context.Background())
	if len(all) != 2 || all[4] != "Marrakech" {
		t.Fatalf("unexpected mapping: %v", all)
	}

	d.All(context.Background())
	if got := d.Name(context.Background(), 1); got != "Casablanca" {
		t.Fatalf("Name(1) = %q", got)
	}
	if api.calls != 1 {
		t.Fatalf("expected a single backend fetch, got %d", api.calls)
	}
}

func TestDirectoryFallbackOnError(t *testing.T) {
	api := &fakeLister{err: errors.New("backend down")}
	d := NewDirectory(api)

	all := d.All(context.Background())
	if len(all) != 10 {
		t.Fatalf("expected ten fallback cities, got %d", len(all))
	}
	if all[1] != "Casablanca" || all[10] != "El Jadida" {
		t.Fatalf("unexpected fallback table: %v", all)
	}
}

func TestDirectoryNameUnknownID(t *testing.T) {
	api := &fakeLister{villes: []backend.Ville{{VilleID: 1, Nom: "Casablanca"}}}
	d := NewDirectory(api)

	if got := d.Name(context.Background(), 77); got != "Ville 77" {
		t.Fatalf("unknown id label = %q", got)
	}
}

func TestDirectoryAllReturnsCopy(t *testing.T) {
	api := &fakeLister{err: errors.New("down")}
	d := NewDirectory(api)

	first := d.All(context.Background())
	first[1] = "corrompu"
	if second := d.All(context.Background()); second[1] != "Casablanca" {
		t.Fatalf("caller mutation leaked into the cache: %q", second[1])
	}
}
