package db

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seed sizes.
const (
	SeedUsers  = 30
	SeedEvents = 40
)

var seedCategories = []string{"music", "sport", "games", "food", "art", "outdoor", "tech", "film"}

// around Kraków
const (
	seedLat    = 50.0647
	seedLng    = 19.9450
	seedJitter = 0.12
)

// SeedTestData resets the database and populates it with demo users and events.
//
// Behavior:
//  1. Clears notifications, chat messages and rosters, relations, participants, events and users.
//  2. Creates SeedUsers users around Kraków with random ages, genders and interests.
//  3. Creates SeedEvents upcoming events; each creator is the first participant and
//     some users join, never past capacity. Joiners get a relation and a chat row.
//
// The same seed produces the same dataset relative to now.
func SeedTestData(db *gorm.DB, seed int64, now time.Time) error {
	f := gofakeit.New(seed)
	now = now.UTC().Truncate(time.Second)

	// --- Fresh start ---
	for _, table := range []string{"notifications", "chat_messages", "chat_participants", "event_relations", "event_participants", "events", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	slog.Info("cleared existing data")

	// --- Seed users ---
	users := make([]User, 0, SeedUsers)
	for i := 1; i <= SeedUsers; i++ {
		age := f.Number(18, 65)
		lat := seedLat + f.Float64Range(-seedJitter, seedJitter)
		lng := seedLng + f.Float64Range(-seedJitter, seedJitter)
		u := User{
			ID:           fmt.Sprintf("user%d", i),
			Name:         f.FirstName(),
			Age:          &age,
			Gender:       f.RandomString([]string{"male", "female"}),
			City:         "Kraków",
			Street:       f.Street(),
			Description:  f.Sentence(8),
			Interests:    pick(f, seedCategories, f.Number(1, 4)),
			Lat:          &lat,
			Lng:          &lng,
			ProfileImage: fmt.Sprintf("https://i.pravatar.cc/150?u=user%d", i),
		}
		users = append(users, u)
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	slog.Info("seeded users", "count", len(users))

	// --- Seed events ---
	for i := 1; i <= SeedEvents; i++ {
		creator := users[f.Number(0, len(users)-1)]
		start := now.Add(time.Duration(f.Number(2, 24*30)) * time.Hour)

		capacity := Unlimited
		if f.Number(0, 3) > 0 {
			capacity = f.Number(2, 12)
		}
		lat := seedLat + f.Float64Range(-seedJitter, seedJitter)
		lng := seedLng + f.Float64Range(-seedJitter, seedJitter)

		e := Event{
			ID:          fmt.Sprintf("event%d", i),
			Name:        f.HipsterWord() + " " + f.RandomString([]string{"meetup", "night", "jam", "walk", "session"}),
			Description: f.Paragraph(1, 2, 8, " "),
			Categories:  pick(f, seedCategories, f.Number(1, 3)),
			Capacity:    capacity,
			Date:        start,
			EndDate:     start.Add(time.Duration(f.Number(1, 5)) * time.Hour),
			Street:      f.Street(),
			City:        "Kraków",
			Lat:         &lat,
			Lng:         &lng,
			CreatorID:   creator.ID,
			Image:       fmt.Sprintf("https://picsum.photos/seed/event%d/800/600", i),
		}
		if f.Number(0, 2) == 0 {
			lo := f.Number(18, 30)
			e.Requirements.Age = fmt.Sprintf("%d-%d", lo, lo+f.Number(5, 30))
		}

		joiners := []User{creator}
		for _, u := range users {
			if u.ID == creator.ID || f.Number(0, 9) > 0 {
				continue
			}
			if capacity != Unlimited && len(joiners) >= capacity {
				break
			}
			joiners = append(joiners, u)
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			e.ParticipantCount = len(joiners)
			if err := tx.Omit(clause.Associations).Create(&e).Error; err != nil {
				return err
			}
			for _, u := range joiners {
				if err := tx.Create(&EventParticipant{EventID: e.ID, UserID: u.ID}).Error; err != nil {
					return err
				}
				if err := tx.Create(&ChatParticipant{EventID: e.ID, UserID: u.ID, Name: u.DisplayName(), ProfileImage: u.ProfileImage}).Error; err != nil {
					return err
				}
				if u.ID == creator.ID {
					continue
				}
				if err := tx.Create(&EventRelation{UserID: u.ID, EventID: e.ID, Kind: RelationJoined}).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to seed event: %w", err)
		}
	}
	slog.Info("seeded events", "count", SeedEvents)

	return nil
}

// pick returns n distinct entries of from in random order.
func pick(f *gofakeit.Faker, from []string, n int) []string {
	idx := make([]int, len(from))
	for i := range idx {
		idx[i] = i
	}
	f.ShuffleInts(idx)
	if n > len(from) {
		n = len(from)
	}
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, from[i])
	}
	return out
}
