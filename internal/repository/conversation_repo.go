package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/desire-match/internal/db"
)

// ConversationRepository stores one conversation per unordered pair.
type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(database *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: database}
}

func (r *ConversationRepository) WithTx(tx *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: tx}
}

// FindByPair returns the conversation between a and b, or nil when none exists.
func (r *ConversationRepository) FindByPair(ctx context.Context, a, b uint64) (*db.Conversation, error) {
	u1, u2 := db.CanonicalPair(a, b)
	var conv db.Conversation
	err := r.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ?", u1, u2).
		Take(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// Create opens a conversation for the pair. A concurrent create for the same
// pair fails on the unique index with gorm.ErrDuplicatedKey.
func (r *ConversationRepository) Create(ctx context.Context, a, b uint64) (*db.Conversation, error) {
	u1, u2 := db.CanonicalPair(a, b)
	conv := db.Conversation{User1ID: u1, User2ID: u2, LastMessageAt: r.db.NowFunc()}
	if err := r.db.WithContext(ctx).Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetForParticipant loads the conversation only if userID is one of its two
// users; otherwise gorm.ErrRecordNotFound.
func (r *ConversationRepository) GetForParticipant(ctx context.Context, conversationID, userID uint64) (*db.Conversation, error) {
	var conv db.Conversation
	err := r.db.WithContext(ctx).
		Where("id = ? AND (user1_id = ? OR user2_id = ?)", conversationID, userID, userID).
		Take(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// Touch bumps last_message_at.
func (r *ConversationRepository) Touch(ctx context.Context, conversationID uint64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&db.Conversation{}).
		Where("id = ?", conversationID).
		Update("last_message_at", at).Error
}

// ListForUser returns the user's conversations, most recently active first,
// with the other participant, the last message and the unread count.
func (r *ConversationRepository) ListForUser(ctx context.Context, userID uint64) ([]ConversationRow, error) {
	var rows []ConversationRow
	err := r.db.WithContext(ctx).
		Table("conversations c").
		Select(`c.id, c.last_message_at,
			u.id AS other_user_id, u.username, u.first_name, u.last_name, u.profile_image,
			COALESCE((SELECT lm.body FROM messages lm WHERE lm.conversation_id = c.id ORDER BY lm.id DESC LIMIT 1), '') AS last_message,
			COALESCE((SELECT CASE WHEN lm.sender_id = ? THEN 1 ELSE 0 END FROM messages lm WHERE lm.conversation_id = c.id ORDER BY lm.id DESC LIMIT 1), 0) AS last_message_from_me,
			(SELECT COUNT(*) FROM messages um WHERE um.conversation_id = c.id AND um.sender_id <> ? AND um.is_read = ?) AS unread_count`,
			userID, userID, false).
		Joins("JOIN users u ON u.id = CASE WHEN c.user1_id = ? THEN c.user2_id ELSE c.user1_id END", userID).
		Where("c.user1_id = ? OR c.user2_id = ?", userID, userID).
		Order("c.last_message_at DESC, c.id DESC").
		Scan(&rows).Error
	return rows, err
}

// DeleteAllForUser removes the user's conversations and their messages.
func (r *ConversationRepository) DeleteAllForUser(ctx context.Context, userID uint64) error {
	owned := r.db.Model(&db.Conversation{}).
		Select("id").
		Where("user1_id = ? OR user2_id = ?", userID, userID)

	if err := r.db.WithContext(ctx).
		Where("conversation_id IN (?)", owned).
		Delete(&db.Message{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Delete(&db.Conversation{}).Error
}
