package repository

import (
	"time"

	"gorm.io/datatypes"

	"github.com/oggyb/desire-match/internal/db"
)

// profileColumns selects the public profile of the user aliased as "u".
const profileColumns = "u.id, u.username, u.first_name, u.last_name, u.age, u.bio, u.country, u.state, u.city, u.profile_image, u.photos"

// matchJoin left-joins the match row for the pair (a, b) given as column names.
func matchJoin(a, b string) string {
	return "LEFT JOIN matches m ON (m.user1_id = " + a + " AND m.user2_id = " + b + ") OR (m.user1_id = " + b + " AND m.user2_id = " + a + ")"
}

// ProfileRow is the public projection of a user used by list queries.
type ProfileRow struct {
	ID           uint64
	Username     string
	FirstName    string
	LastName     string
	Age          int
	Bio          string
	Country      string
	State        string
	City         string
	ProfileImage string
	Photos       datatypes.JSONSlice[string]
}

type MatchRow struct {
	ProfileRow
	MatchDate time.Time
}

type SentLikeRow struct {
	ProfileRow
	LikedAt time.Time
	Matched bool
}

type ReceivedLikeRow struct {
	ProfileRow
	LikedAt   time.Time
	LikedBack bool
	Matched   bool
}

type FavoriteRow struct {
	ProfileRow
	FavoritedDate time.Time
	Matched       bool
}

type NotificationRow struct {
	ID               uint64
	Type             string
	Message          string
	IsRead           bool
	CreatedAt        time.Time
	FromUserID       *uint64
	FromFirstName    string
	FromLastName     string
	FromProfileImage string
}

type ConversationRow struct {
	ID                uint64
	LastMessageAt     time.Time
	OtherUserID       uint64
	Username          string
	FirstName         string
	LastName          string
	ProfileImage      string
	LastMessage       string
	LastMessageFromMe bool
	UnreadCount       int64
}

type MessageRow struct {
	ID           uint64
	Body         string
	CreatedAt    time.Time
	IsRead       bool
	SenderID     uint64
	FirstName    string
	LastName     string
	ProfileImage string
	IsFromMe     bool
}

// GendersFor maps a looking_for preference to the genders it accepts.
func GendersFor(lookingFor string) []string {
	switch lookingFor {
	case db.GenderMale:
		return []string{db.GenderMale}
	case db.GenderFemale:
		return []string{db.GenderFemale}
	case db.LookingForBoth:
		return []string{db.GenderMale, db.GenderFemale}
	default:
		return nil
	}
}
