package db

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// tables in delete order
var seedTables = []string{"notifications", "messages", "conversations", "favorites", "matches", "likes", "users"}

var (
	seedFirstNames = []string{"Liam", "Noah", "Oliver", "James", "Elijah", "Lucas", "Mason", "Ethan", "Logan", "Aiden",
		"Emma", "Olivia", "Ava", "Sophia", "Mia", "Amelia", "Harper", "Evelyn", "Ella", "Chloe"}
	seedCities = []string{"Austin", "Denver", "Seattle", "Boston", "Chicago"}
)

// SeedTestData resets the database and populates it with demo users, likes and matches.
//
// Behavior:
//  1. Clears every matching/messaging table and `users`.
//  2. Creates n users (first half male looking for women, second half the reverse).
//  3. Each user likes ~6 random opposite-gender users; every 3rd like is made
//     mutual and gets its Match row.
//
// Compatible with MySQL, Postgres and SQLite.
func SeedTestData(db *gorm.DB, n int) error {
	if n < 2 {
		n = 20
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if err := clearTables(db); err != nil {
		return err
	}
	resetSequences(db)
	log.Println("Cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("Password!1"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	half := n / 2
	users := make([]User, 0, n)
	for i := 1; i <= n; i++ {
		gender, lookingFor := GenderMale, GenderFemale
		if i > half {
			gender, lookingFor = GenderFemale, GenderMale
		}
		users = append(users, User{
			Username:           fmt.Sprintf("user%d", i),
			Email:              fmt.Sprintf("user%d@example.com", i),
			PasswordHash:       string(hash),
			FirstName:          seedFirstNames[(i-1)%len(seedFirstNames)],
			LastName:           "Doe",
			Age:                20 + r.Intn(20),
			Gender:             gender,
			LookingFor:         lookingFor,
			City:               seedCities[r.Intn(len(seedCities))],
			Country:            "USA",
			Interests:          []string{"music", "hiking"},
			Photos:             []string{fmt.Sprintf("https://picsum.photos/seed/%d/400", i)},
			ProfileVisibility:  []string{VisibilityPublic, VisibilityPublic, VisibilityMatches, VisibilityPrivate}[r.Intn(4)],
			EmailNotifications: true,
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	log.Printf("Seeded %d users.", len(users))

	counter := 0
	for _, actor := range users {
		for j := 0; j < 6; j++ {
			target := users[r.Intn(len(users))]
			if target.ID == actor.ID || target.Gender == actor.Gender {
				continue
			}
			likes := []Like{{LikerID: actor.ID, LikedID: target.ID}}
			mutual := counter%3 == 0
			if mutual {
				likes = append(likes, Like{LikerID: target.ID, LikedID: actor.ID})
			}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&likes).Error; err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}
			if mutual {
				u1, u2 := CanonicalPair(actor.ID, target.ID)
				if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&Match{User1ID: u1, User2ID: u2}).Error; err != nil {
					return fmt.Errorf("failed to seed match: %w", err)
				}
			}
			counter++
		}
	}
	log.Printf("Seeded %d likes.", counter)

	return nil
}

// SeedMinimalTestData inserts a tiny deterministic dataset:
//   - user1 (male, public), user2 (female, matches-only), user3 (female, private)
//   - user1 ↔ user2 mutual like + match
//   - user3 → user1 one-way like
func SeedMinimalTestData(db *gorm.DB) error {
	if err := clearTables(db); err != nil {
		return err
	}
	resetSequences(db)

	users := []User{
		{ID: 1, Username: "user1", Email: "u1@test.com", PasswordHash: "x", FirstName: "Adam", LastName: "One",
			Gender: GenderMale, LookingFor: GenderFemale, ProfileVisibility: VisibilityPublic},
		{ID: 2, Username: "user2", Email: "u2@test.com", PasswordHash: "x", FirstName: "Beth", LastName: "Two",
			Gender: GenderFemale, LookingFor: GenderMale, ProfileVisibility: VisibilityMatches},
		{ID: 3, Username: "user3", Email: "u3@test.com", PasswordHash: "x", FirstName: "Cara", LastName: "Three",
			Gender: GenderFemale, LookingFor: LookingForBoth, ProfileVisibility: VisibilityPrivate},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	likes := []Like{
		{LikerID: 1, LikedID: 2},
		{LikerID: 2, LikedID: 1},
		{LikerID: 3, LikedID: 1},
	}
	if err := db.Create(&likes).Error; err != nil {
		return err
	}

	return db.Create(&Match{User1ID: 1, User2ID: 2}).Error
}

// Fixture is the YAML seed format used by `seed --fixture`.
type Fixture struct {
	Users []FixtureUser `yaml:"users"`
	Likes []struct {
		From uint64 `yaml:"from"`
		To   uint64 `yaml:"to"`
	} `yaml:"likes"`
}

type FixtureUser struct {
	ID         uint64   `yaml:"id"`
	Username   string   `yaml:"username"`
	Email      string   `yaml:"email"`
	Password   string   `yaml:"password"`
	FirstName  string   `yaml:"first_name"`
	LastName   string   `yaml:"last_name"`
	Age        int      `yaml:"age"`
	Gender     string   `yaml:"gender"`
	LookingFor string   `yaml:"looking_for"`
	Visibility string   `yaml:"visibility"`
	City       string   `yaml:"city"`
	Interests  []string `yaml:"interests"`
	Photos     []string `yaml:"photos"`
}

// LoadFixture decodes a YAML fixture.
func LoadFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	return &f, nil
}

// SeedFixture wipes the tables and loads f. Mutual likes in the fixture get
// their Match row, the same way the live like flow would create it.
func SeedFixture(db *gorm.DB, f *Fixture) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := clearTables(tx); err != nil {
			return err
		}

		for _, fu := range f.Users {
			password := fu.Password
			if password == "" {
				password = "Password!1"
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			u := User{
				ID:                 fu.ID,
				Username:           fu.Username,
				Email:              fu.Email,
				PasswordHash:       string(hash),
				FirstName:          fu.FirstName,
				LastName:           fu.LastName,
				Age:                fu.Age,
				Gender:             fu.Gender,
				LookingFor:         fu.LookingFor,
				ProfileVisibility:  fu.Visibility,
				City:               fu.City,
				Interests:          fu.Interests,
				Photos:             fu.Photos,
				EmailNotifications: true,
			}
			if len(fu.Photos) > 0 {
				u.ProfileImage = fu.Photos[0]
			}
			if err := tx.Create(&u).Error; err != nil {
				return fmt.Errorf("failed to seed user %q: %w", fu.Username, err)
			}
		}

		liked := make(map[[2]uint64]bool, len(f.Likes))
		for _, l := range f.Likes {
			if err := tx.Create(&Like{LikerID: l.From, LikedID: l.To}).Error; err != nil {
				return fmt.Errorf("failed to seed like %d->%d: %w", l.From, l.To, err)
			}
			liked[[2]uint64{l.From, l.To}] = true
			if liked[[2]uint64{l.To, l.From}] {
				u1, u2 := CanonicalPair(l.From, l.To)
				if err := tx.Create(&Match{User1ID: u1, User2ID: u2}).Error; err != nil {
					return fmt.Errorf("failed to seed match: %w", err)
				}
			}
		}
		return nil
	})
}

func clearTables(db *gorm.DB) error {
	for _, table := range seedTables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// resetSequences restarts auto-increment counters. Errors are ignored, the
// sequences are cosmetic for demo data.
func resetSequences(db *gorm.DB) {
	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE conversations AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE notifications AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('users', 'conversations', 'messages', 'notifications')")
	}
}
