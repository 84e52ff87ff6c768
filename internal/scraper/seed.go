package scraper

import "armoryhub/pkg/models"

// SeedData returns the fallback dataset used when every source fails.
// Each call returns a fresh slice.
func SeedData() []models.Weapon {
	return []models.Weapon{
		{
			ID:          "m4-carbine",
			Name:        "M4 Carbine",
			Description: "A gas-operated, magazine-fed carbine developed in the United States.",
			Country:     "United States",
			Year:        "1994",
			Class:       "Assault Rifle",
			Calibre:     "5.56×45mm NATO",
		},
		{
			ID:          "ak-47",
			Name:        "AK-47",
			Description: "A gas-operated assault rifle developed in the Soviet Union by Mikhail Kalashnikov.",
			Country:     "Soviet Union",
			Year:        "1949",
			Class:       "Assault Rifle",
			Calibre:     "7.62×39mm",
		},
		{
			ID:          "m1911",
			Name:        "M1911",
			Description: "A single-action, semi-automatic, magazine-fed, recoil-operated pistol.",
			Country:     "United States",
			Year:        "1911",
			Class:       "Handgun",
			Calibre:     ".45 ACP",
		},
		{
			ID:          "glock-19",
			Name:        "Glock 19",
			Description: "A polymer-framed, short recoil-operated, locked-breech semi-automatic pistol.",
			Country:     "Austria",
			Year:        "1988",
			Class:       "Handgun",
			Calibre:     "9×19mm Parabellum",
		},
		{
			ID:          "mp5",
			Name:        "MP5",
			Description: "A 9mm submachine gun of German design, developed by Heckler & Koch.",
			Country:     "Germany",
			Year:        "1966",
			Class:       "Submachine Gun",
			Calibre:     "9×19mm Parabellum",
		},
		{
			ID:          "awm",
			Name:        "AWM",
			Description: "A bolt-action sniper rifle manufactured by Accuracy International.",
			Country:     "United Kingdom",
			Year:        "1996",
			Class:       "Sniper Rifle",
			Calibre:     ".338 Lapua Magnum",
		},
		{
			// id predates DeriveID and is kept for existing clients
			ID:          "p90",
			Name:        "FN P90",
			Description: "A compact 5.7×28mm personal defense weapon designed by FN Herstal.",
			Country:     "Belgium",
			Year:        "1990",
			Class:       "Submachine Gun",
			Calibre:     "5.7×28mm",
		},
		{
			ID:          "fn-scar-h",
			Name:        "FN SCAR-H",
			Description: "A family of gas-operated automatic rifles developed by Belgian manufacturer FN Herstal.",
			Country:     "Belgium",
			Year:        "2009",
			Class:       "Battle Rifle",
			Calibre:     "7.62×51mm NATO",
		},
	}
}
