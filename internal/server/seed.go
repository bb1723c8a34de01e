package server

import (
	_ "embed"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/carthatamaz/cartha/internal/auth"
	"github.com/carthatamaz/cartha/internal/models"
)

//go:embed seed.yaml
var defaultSeed []byte

// seedFile is the YAML layout of the demo fixtures
type seedFile struct {
	Users []struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		FullName string `yaml:"full_name"`
		Role     string `yaml:"role"`
	} `yaml:"users"`
	Guesthouses []struct {
		Title       string   `yaml:"title"`
		Description string   `yaml:"description"`
		City        string   `yaml:"city"`
		Price       string   `yaml:"price"`
		OwnerEmail  string   `yaml:"owner"`
		Status      string   `yaml:"status"`
		Amenities   []string `yaml:"amenities"`
	} `yaml:"guesthouses"`
	Reservations []struct {
		Guesthouse     string `yaml:"guesthouse"` // title reference
		GuestEmail     string `yaml:"guest"`
		CheckInDate    string `yaml:"check_in"`
		CheckOutDate   string `yaml:"check_out"`
		NumberOfGuests int    `yaml:"guests"`
		TotalPrice     float64 `yaml:"total_price"`
		Status         string `yaml:"status"`
	} `yaml:"reservations"`
	Messages []struct {
		From    string `yaml:"from"`
		To      string `yaml:"to"`
		Content string `yaml:"content"`
	} `yaml:"messages"`
}

// SeedIfEmpty loads the embedded demo fixtures when the user table is
// empty, so a fresh demo server is immediately usable
func SeedIfEmpty(db *gorm.DB, zlog zerolog.Logger) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var seed seedFile
	if err := yaml.Unmarshal(defaultSeed, &seed); err != nil {
		return fmt.Errorf("failed to parse seed fixtures: %w", err)
	}

	usersByEmail := make(map[string]*models.User)
	for _, u := range seed.Users {
		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return err
		}
		user := &models.User{
			Email:        u.Email,
			PasswordHash: hash,
			FullName:     u.FullName,
			Role:         u.Role,
			Status:       models.UserStatusActive,
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
		usersByEmail[u.Email] = user
	}

	guesthousesByTitle := make(map[string]*models.Guesthouse)
	for _, g := range seed.Guesthouses {
		owner, ok := usersByEmail[g.OwnerEmail]
		if !ok {
			return fmt.Errorf("seed guesthouse %q references unknown owner %q", g.Title, g.OwnerEmail)
		}
		status := g.Status
		if status == "" {
			status = models.GuesthouseActive
		}
		guesthouse := &models.Guesthouse{
			Title:       g.Title,
			Description: g.Description,
			City:        g.City,
			Price:       g.Price,
			OwnerID:     owner.ID,
			Status:      status,
		}
		if err := guesthouse.SetAmenities(g.Amenities); err != nil {
			return err
		}
		if err := db.Create(guesthouse).Error; err != nil {
			return fmt.Errorf("failed to seed guesthouse %q: %w", g.Title, err)
		}
		guesthousesByTitle[g.Title] = guesthouse
	}

	for _, r := range seed.Reservations {
		guesthouse, ok := guesthousesByTitle[r.Guesthouse]
		if !ok {
			return fmt.Errorf("seed reservation references unknown guesthouse %q", r.Guesthouse)
		}
		guest, ok := usersByEmail[r.GuestEmail]
		if !ok {
			return fmt.Errorf("seed reservation references unknown guest %q", r.GuestEmail)
		}
		reservation := &models.Reservation{
			GuesthouseID:   guesthouse.ID,
			GuestID:        guest.ID,
			OwnerID:        guesthouse.OwnerID,
			CheckInDate:    r.CheckInDate,
			CheckOutDate:   r.CheckOutDate,
			NumberOfGuests: r.NumberOfGuests,
			TotalPrice:     r.TotalPrice,
			Status:         r.Status,
		}
		if err := db.Create(reservation).Error; err != nil {
			return fmt.Errorf("failed to seed reservation: %w", err)
		}
	}

	for _, m := range seed.Messages {
		sender, ok := usersByEmail[m.From]
		if !ok {
			return fmt.Errorf("seed message references unknown sender %q", m.From)
		}
		receiver, ok := usersByEmail[m.To]
		if !ok {
			return fmt.Errorf("seed message references unknown receiver %q", m.To)
		}
		message := &models.Message{
			SenderID:   sender.ID,
			ReceiverID: receiver.ID,
			Content:    m.Content,
		}
		if err := db.Create(message).Error; err != nil {
			return fmt.Errorf("failed to seed message: %w", err)
		}
	}

	zlog.Info().
		Int("users", len(seed.Users)).
		Int("guesthouses", len(seed.Guesthouses)).
		Msg("Seeded demo fixtures")

	return nil
}
