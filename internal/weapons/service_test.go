package weapons

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"armoryhub/internal/store"
	"armoryhub/pkg/models"
)

type brokenStore struct{}

func (brokenStore) ReplaceAll(context.Context, []models.Weapon) error { return errors.New("disk full") }
func (brokenStore) LoadAll(context.Context) ([]models.Weapon, error) {
	return []models.Weapon{}, errors.New("decode snapshot: unexpected EOF")
}
func (brokenStore) Close() error { return nil }

var testWeapons = []models.Weapon{
	{ID: "ak-47", Name: "AK-47", Description: "A gas-operated assault rifle.", Country: "Soviet Union", Year: "1949", Class: "Assault Rifle", Calibre: "7.62×39mm"},
	{ID: "glock-19", Name: "Glock 19", Description: "A polymer-framed pistol.", Country: "Austria", Year: "1988", Class: "Handgun", Calibre: "9×19mm"},
	{ID: "awm", Name: "AWM", Description: "A bolt-action sniper Rifle.", Country: "United Kingdom", Year: "1996", Class: "Sniper Rifle", Calibre: ".338 Lapua Magnum"},
	{ID: "mp5", Name: "MP5", Description: "A submachine gun.", Country: "Germany", Year: "1966", Class: "Rifle", Calibre: "9×19mm"},
}

func newTestService(t *testing.T, weapons []models.Weapon) *Service {
	t.Helper()
	s, err := store.OpenJSONFile(filepath.Join(t.TempDir(), "database.json"))
	require.NoError(t, err)
	require.NoError(t, s.ReplaceAll(context.Background(), weapons))
	return NewService(s, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func ids(ws []models.Weapon) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.ID)
	}
	return out
}

func TestSearch(t *testing.T) {
	svc := newTestService(t, testWeapons)
	ctx := context.Background()

	cases := []struct {
		q    string
		want []string
	}{
		{"aus", []string{"glock-19"}},
		{"AUS", []string{"glock-19"}},
		{"  soviet ", []string{"ak-47"}},
		// class is not searched, so MP5's "Rifle" class does not match
		{"rifle", []string{"ak-47", "awm"}},
		{"zz-no-match", []string{}},
		{"", []string{"ak-47", "glock-19", "awm", "mp5"}},
	}
	for _, tc := range cases {
		t.Run(tc.q, func(t *testing.T) {
			require.Equal(t, tc.want, ids(svc.Search(ctx, tc.q)))
		})
	}
}

func TestSearchEmptyQueryCapsAtLimit(t *testing.T) {
	many := make([]models.Weapon, 0, 120)
	for i := 0; i < 120; i++ {
		many = append(many, models.Weapon{ID: fmt.Sprintf("w-%d", i), Name: fmt.Sprintf("Rifle %d", i)}.Backfill())
	}
	svc := newTestService(t, many)
	ctx := context.Background()

	got := svc.Search(ctx, "")
	require.Len(t, got, ListLimit)
	require.Equal(t, "w-0", got[0].ID)
	require.Equal(t, "w-49", got[ListLimit-1].ID)

	// a non-empty query is not capped
	require.Len(t, svc.Search(ctx, "rifle"), 120)
}

func TestSearchMatchesExactlyTheSubset(t *testing.T) {
	svc := newTestService(t, testWeapons)
	for _, q := range []string{"a", "gas", "united", "9", "pistol"} {
		got := svc.Search(context.Background(), q)
		var want []string
		for _, w := range testWeapons {
			hay := strings.ToLower(w.Name + "\x00" + w.Country + "\x00" + w.Description)
			if strings.Contains(hay, q) {
				want = append(want, w.ID)
			}
		}
		if want == nil {
			want = []string{}
		}
		require.Equal(t, want, ids(got), "query %q", q)
	}
}

func TestSearchDegradesOnBrokenStore(t *testing.T) {
	svc := NewService(brokenStore{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Empty(t, svc.Search(context.Background(), ""))
	require.Empty(t, svc.Search(context.Background(), "ak"))
	require.Zero(t, svc.Count(context.Background()))
}

func TestGet(t *testing.T) {
	svc := newTestService(t, testWeapons)

	w, err := svc.Get(context.Background(), "awm")
	require.NoError(t, err)
	require.Equal(t, "AWM", w.Name)

	_, err = svc.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}
