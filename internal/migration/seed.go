package migration

import (
	"github.com/gamedex/gamedex-backend/internal/domain"
	"gorm.io/gorm"
)

// Seed inserts a small sample catalog for local development.
// Existing rows are left alone, so running it twice is harmless.
func Seed(db *gorm.DB) error {
	games := []domain.Game{
		{
			Slug:              "chrono-breaker",
			Title:             "Chrono Breaker",
			Description:       "Time-bending action RPG with co-op raids.",
			ReleaseDate:       "2019-03-14",
			Developer:         "Lumen Forge",
			Publisher:         "Starlit Interactive",
			Genres:            domain.StringArray{"RPG", "Action"},
			Platforms:         domain.StringArray{"Windows"},
			ActivationType:    domain.ActivationSSA,
			Status:            domain.GameStatusSupported,
			Instructions:      domain.StringArray{"Install the latest patch before first launch."},
			PlayabilityStatus: domain.PlayabilityPlayable,
			FeatureEnabled:    true,
		},
		{
			Slug:              "harbor-tycoon-2",
			Title:             "Harbor Tycoon 2",
			Description:       "Port management sim with seasonal economies.",
			ReleaseDate:       "2016-09-02",
			Developer:         "Quayside Studio",
			Publisher:         "Quayside Studio",
			Genres:            domain.StringArray{"Simulation", "Strategy"},
			Platforms:         domain.StringArray{"Windows", "Linux"},
			ActivationType:    domain.ActivationLegacyPerTitle,
			Status:            domain.GameStatusTesting,
			KnownIssues:       domain.StringArray{"Autosave stalls on very large maps."},
			PlayabilityStatus: domain.PlayabilityPlayable,
			FeatureEnabled:    true,
		},
		{
			Slug:                     "neon-circuit",
			Title:                    "Neon Circuit",
			Description:              "Arcade racer whose online services were shut down.",
			ReleaseDate:              "2011-06-21",
			Developer:                "Voltlight Games",
			Publisher:                "Apex Media",
			Genres:                   domain.StringArray{"Racing"},
			Platforms:                domain.StringArray{"Windows"},
			ActivationType:           domain.ActivationLegacy5x5,
			Status:                   domain.GameStatusUnsupported,
			PlayabilityStatus:        domain.PlayabilityCommunityAlternative,
			CommunityAlternativeName: "OpenCircuit",
			FeatureEnabled:           true,
		},
	}

	for i := range games {
		if err := db.Where("slug = ?", games[i].Slug).
			FirstOrCreate(&games[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
