// Package seed fills an empty store with demo accounts and a starter set of
// actions so a fresh install has something to browse.
package seed

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/weiting/stellact/internal/app/models"
	"github.com/weiting/stellact/internal/app/repositories"
	"github.com/weiting/stellact/internal/pkg/auth"
	"github.com/weiting/stellact/internal/pkg/helpers"
)

// Demo account credentials for local development
const (
	DemoEmail     = "demo@example.com"
	DemoPassword  = "password123"
	AdminEmail    = "admin@example.com"
	AdminPassword = "admin123"
)

// EnsureDefaultData creates the demo accounts and starter actions when the
// store is empty. Detection keys on the demo account, so a wiped snapshot is
// reseeded while a populated one is left alone.
func EnsureDefaultData(ctx context.Context, repos *repositories.Repositories, logger zerolog.Logger) error {
	existing, err := repos.Users.FindByEmail(ctx, DemoEmail)
	if err != nil {
		return fmt.Errorf("failed to check for demo account: %w", err)
	}
	if existing != nil {
		logger.Debug().Msg("Default data already present, skipping seed")
		return nil
	}

	logger.Info().Msg("Seeding default data")

	if _, err := seedUser(ctx, repos, "Demo User", DemoEmail, DemoPassword, models.RoleUser); err != nil {
		return err
	}
	admin, err := seedUser(ctx, repos, "Admin", AdminEmail, AdminPassword, models.RoleAdmin)
	if err != nil {
		return err
	}

	for _, action := range starterActions(admin.ID) {
		if err := repos.Actions.Create(ctx, action); err != nil {
			return fmt.Errorf("failed to seed action %q: %w", action.Name, err)
		}
	}

	logger.Info().Msg("Default data seeded")
	return nil
}

func seedUser(ctx context.Context, repos *repositories.Repositories, name, email, password string, role models.Role) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}
	user := &models.User{
		ID:           helpers.NewID("user"),
		Name:         name,
		Email:        email,
		Avatar:       fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", url.QueryEscape(name)),
		PasswordHash: hash,
		Role:         role,
	}
	if err := repos.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create seed user %s: %w", email, err)
	}
	return user, nil
}

// starterActions returns the demo catalog. Shape points trace simple
// constellations; coordinates are percentages of the rendering canvas.
func starterActions(ownerID string) []*models.Action {
	now := time.Now()
	intp := func(v int) *int { return &v }

	return []*models.Action{
		{
			ID:               helpers.NewID("action"),
			Name:             "River Cleanup Crew",
			Category:         "environment",
			Region:           "riverside",
			Status:           models.StatusInProgress,
			Summary:          "Monthly cleanup walks along the river banks.",
			Background:       "Plastic waste collects along the east bank after every storm and nobody owns the problem.",
			Goals:            []string{"Clear 2km of river bank each month", "Map recurring dumping spots"},
			HowToParticipate: "Show up on the first Saturday of the month with gloves. Bags and pickers are provided.",
			Initiator:        "Riverside Neighbors",
			OwnerID:          ownerID,
			MaxParticipants:  12,
			ParticipationTags: []models.ParticipationTag{
				{Label: "cleanup walker", Target: intp(10), Description: "Join the monthly walk"},
				{Label: "equipment sponsor", Target: intp(2), Description: "Provide bags and pickers"},
			},
			ShapePoints: []models.ShapePoint{
				{X: 20, Y: 30}, {X: 35, Y: 18}, {X: 52, Y: 26},
				{X: 66, Y: 40}, {X: 78, Y: 58}, {X: 60, Y: 70},
			},
			Participants: []models.Star{},
			Comments:     []*models.Comment{},
			Updates: []models.Update{
				{Date: now.AddDate(0, -1, 0).Format("2006-01-02"), Text: "First walk done, 40kg collected."},
			},
			Uploads:   []models.Upload{},
			Resources: []models.Resource{},
			CreatedAt: now.AddDate(0, -2, 0),
		},
		{
			ID:               helpers.NewID("action"),
			Name:             "Community Fridge",
			Category:         "food",
			Region:           "downtown",
			Status:           models.StatusPending,
			Summary:          "A shared fridge where shops drop surplus food for anyone to take.",
			Background:       "Bakeries and grocers throw out edible food daily while some neighbors skip meals.",
			Goals:            []string{"Install one fridge downtown", "Sign up five supplying shops"},
			HowToParticipate: "Pick a weekly slot to check, clean and restock the fridge.",
			Initiator:        "Downtown Food Collective",
			OwnerID:          ownerID,
			MaxParticipants:  8,
			ParticipationTags: []models.ParticipationTag{
				{Label: "fridge keeper", Target: intp(7), Description: "One cleaning slot per week"},
				{Label: "shop liaison", Description: "Recruit supplying shops"},
			},
			ShapePoints: []models.ShapePoint{
				{X: 30, Y: 25}, {X: 50, Y: 20}, {X: 70, Y: 30}, {X: 55, Y: 55},
			},
			Participants: []models.Star{},
			Comments:     []*models.Comment{},
			Updates:      []models.Update{},
			Uploads:      []models.Upload{},
			Resources:    []models.Resource{},
			CreatedAt:    now.AddDate(0, -1, -10),
		},
		{
			ID:               helpers.NewID("action"),
			Name:             "Elder Tech Hours",
			Category:         "education",
			Region:           "northside",
			Status:           models.StatusInProgress,
			Summary:          "Weekly drop-in sessions helping seniors with phones and laptops.",
			Background:       "The library gets daily questions from seniors locked out of online services.",
			Goals:            []string{"Run one session per week", "Train ten volunteer tutors"},
			HowToParticipate: "Volunteer for a two-hour Thursday slot at the library. No teaching experience needed.",
			Initiator:        "Northside Library",
			OwnerID:          ownerID,
			MaxParticipants:  10,
			ParticipationTags: []models.ParticipationTag{
				{Label: "tutor", Target: intp(10), Description: "Sit with visitors one on one"},
			},
			ShapePoints: []models.ShapePoint{
				{X: 25, Y: 60}, {X: 40, Y: 42}, {X: 58, Y: 35}, {X: 75, Y: 45}, {X: 68, Y: 65},
			},
			Participants: []models.Star{},
			Comments:     []*models.Comment{},
			Updates:      []models.Update{},
			Uploads:      []models.Upload{},
			Resources:    []models.Resource{},
			CreatedAt:    now.AddDate(0, 0, -20),
		},
	}
}
