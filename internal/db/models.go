package db

import (
	"time"

	"gorm.io/datatypes"
)

const (
	VisibilityPublic  = "public"
	VisibilityMatches = "matches"
	VisibilityPrivate = "private"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"

	LookingForBoth = "both"
)

// Notification kinds.
const (
	NotificationLike    = "like"
	NotificationMatch   = "match"
	NotificationUnmatch = "unmatch"
	NotificationMessage = "message"
)

// User table. Owned by the identity side; the matching tables only
// reference it by ID.
type User struct {
	ID                  uint64 `gorm:"primaryKey;autoIncrement"`
	Username            string `gorm:"uniqueIndex;size:64;not null"`
	Email               string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash        string `gorm:"size:255;not null"`
	FirstName           string `gorm:"size:64;not null"`
	LastName            string `gorm:"size:64;not null"`
	Age                 int
	Gender              string                      `gorm:"size:16;index:idx_gender_looking,priority:1"`
	LookingFor          string                      `gorm:"size:16;index:idx_gender_looking,priority:2"`
	Bio                 string                      `gorm:"type:text"`
	Country             string                      `gorm:"size:100"`
	State               string                      `gorm:"size:100"`
	City                string                      `gorm:"size:100"`
	Interests           datatypes.JSONSlice[string] `gorm:"type:json"`
	Photos              datatypes.JSONSlice[string] `gorm:"type:json"`
	ProfileImage        string                      `gorm:"size:255"`
	OnboardingCompleted bool
	IsPremium           bool
	EmailNotifications  bool
	PushNotifications   bool
	ProfileVisibility   string `gorm:"size:16;not null;default:public"`
	Theme               string `gorm:"size:16;not null;default:light"`
	LastLoginAt         *time.Time
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

// Like is a directed "liker likes liked" fact.
//
// Composite PK: (LikerID, LikedID)
//   - At most one like per ordered pair; likes are never updated.
//
// Indexes:
//   - idx_liked_created(liked_id, created_at DESC)
//     Serves "who likes me" lists, newest first.
type Like struct {
	LikerID   uint64    `gorm:"primaryKey;autoIncrement:false"`
	LikedID   uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_liked_created,priority:1"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_liked_created,priority:2,sort:desc"`
}

// Match is the symmetric relation between two users, stored once per
// unordered pair with User1ID < User2ID.
type Match struct {
	User1ID   uint64    `gorm:"primaryKey;autoIncrement:false"`
	User2ID   uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_match_user2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Conversation between two users, canonical pair like Match.
type Conversation struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	User1ID       uint64    `gorm:"not null;uniqueIndex:idx_conversation_pair,priority:1"`
	User2ID       uint64    `gorm:"not null;uniqueIndex:idx_conversation_pair,priority:2;index:idx_conversation_user2"`
	LastMessageAt time.Time `gorm:"index"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	ConversationID uint64    `gorm:"not null;index:idx_message_conversation,priority:1"`
	SenderID       uint64    `gorm:"not null"`
	Body           string    `gorm:"type:text;not null"`
	IsRead         bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_message_conversation,priority:2"`
}

// Notification is one row in a user's polled outbox. Only IsRead ever changes.
type Notification struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	UserID     uint64    `gorm:"not null;index:idx_notification_user_created,priority:1;index:idx_notification_user_read,priority:1"`
	Type       string    `gorm:"size:16;not null"`
	FromUserID *uint64   `gorm:"index"`
	Message    string    `gorm:"type:text;not null"`
	IsRead     bool      `gorm:"not null;default:false;index:idx_notification_user_read,priority:2"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_notification_user_created,priority:2,sort:desc"`
}

type Favorite struct {
	UserID         uint64    `gorm:"primaryKey;autoIncrement:false"`
	FavoriteUserID uint64    `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// All lists every model for migrations.
func All() []any {
	return []any{&User{}, &Like{}, &Match{}, &Conversation{}, &Message{}, &Notification{}, &Favorite{}}
}

// CanonicalPair orders two IDs so the smaller comes first.
func CanonicalPair(a, b uint64) (uint64, uint64) {
	if a < b {
		return a, b
	}
	return b, a
}
