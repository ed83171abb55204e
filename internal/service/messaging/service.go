package messaging

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/desire-match/internal/app"
	"github.com/oggyb/desire-match/internal/db"
	svcErr "github.com/oggyb/desire-match/internal/errors"
	"github.com/oggyb/desire-match/internal/repository"
	"github.com/oggyb/desire-match/internal/service/notification"
)

const maxMessageLength = 2000

// Service owns conversations and messages. Creating a conversation is
// gated on a Match between the two users.
type Service struct {
	appCtx        *app.AppContext
	conversations *repository.ConversationRepository
	messages      *repository.MessageRepository
	matches       *repository.MatchRepository
	users         *repository.UserRepository
	outbox        *notification.Outbox
}

func NewMessagingService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:        appCtx,
		conversations: repository.NewConversationRepository(appCtx.DB),
		messages:      repository.NewMessageRepository(appCtx.DB),
		matches:       repository.NewMatchRepository(appCtx.DB),
		users:         repository.NewUserRepository(appCtx.DB),
		outbox:        notification.NewOutbox(appCtx.DB, appCtx.RedisCache, appCtx.Logger),
	}
}

// StartConversation returns the pair's conversation, creating it if needed.
//
// Behavior:
//   - Self -> SelfAction.
//   - An existing conversation is returned as is (created=false), even if
//     the match behind it was removed since.
//   - Otherwise a Match must exist, else Permission.
//   - Two concurrent starts for the same pair converge on one row through
//     the unique pair index.
func (s *Service) StartConversation(ctx context.Context, userID, otherID uint64) (id uint64, created bool, err error) {
	if userID == otherID {
		return 0, false, svcErr.SelfAction("Cannot start conversation with yourself")
	}

	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		convs := s.conversations.WithTx(tx)

		existing, err := convs.FindByPair(ctx, userID, otherID)
		if err != nil {
			return err
		}
		if existing != nil {
			id = existing.ID
			return nil
		}

		matched, err := s.matches.WithTx(tx).Exists(ctx, userID, otherID)
		if err != nil {
			return err
		}
		if !matched {
			return svcErr.Permission("You can only message matched users")
		}

		conv, err := convs.Create(ctx, userID, otherID)
		if err != nil {
			return err
		}
		id, created = conv.ID, true
		return nil
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost the race to a concurrent start
		conv, findErr := s.conversations.FindByPair(ctx, userID, otherID)
		if findErr == nil && conv != nil {
			return conv.ID, false, nil
		}
	}
	if err != nil {
		if !svcErr.IsDomain(err) {
			s.appCtx.Logger.Error("StartConversation failed", "user", userID, "other", otherID, "err", err)
		}
		return 0, false, svcErr.Map(err)
	}
	return id, created, nil
}

// ConversationItem is one entry of the inbox.
type ConversationItem struct {
	ID                uint64    `json:"id"`
	LastMessageAt     time.Time `json:"last_message_at"`
	OtherUserID       uint64    `json:"other_user_id"`
	Username          string    `json:"username"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	ProfileImage      string    `json:"profile_image"`
	LastMessage       string    `json:"last_message"`
	LastMessageFromMe bool      `json:"last_message_from_me"`
	UnreadCount       int64     `json:"unread_count"`
}

// ListConversations returns the caller's inbox, most recent first.
func (s *Service) ListConversations(ctx context.Context, userID uint64) ([]ConversationItem, error) {
	rows, err := s.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	out := make([]ConversationItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, ConversationItem(r))
	}
	return out, nil
}

// MessageItem is one message as seen by the caller.
type MessageItem struct {
	ID           uint64    `json:"id"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
	IsRead       bool      `json:"is_read"`
	SenderID     uint64    `json:"sender_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	ProfileImage string    `json:"profile_image"`
	IsFromMe     bool      `json:"is_from_me"`
}

// GetMessages returns the conversation oldest first and marks what the
// caller received as read. Non-participants get Permission.
func (s *Service) GetMessages(ctx context.Context, userID, conversationID uint64) ([]MessageItem, error) {
	if _, err := s.conversations.GetForParticipant(ctx, conversationID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.Permission("Access denied")
		}
		return nil, svcErr.Map(err)
	}

	rows, err := s.messages.ListForConversation(ctx, conversationID, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if _, err := s.messages.MarkReadFor(ctx, conversationID, userID); err != nil {
		return nil, svcErr.Map(err)
	}

	out := make([]MessageItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, MessageItem{
			ID:           r.ID,
			Message:      r.Body,
			CreatedAt:    r.CreatedAt,
			IsRead:       r.IsRead,
			SenderID:     r.SenderID,
			FirstName:    r.FirstName,
			LastName:     r.LastName,
			ProfileImage: r.ProfileImage,
			IsFromMe:     r.IsFromMe,
		})
	}
	return out, nil
}

// Send appends a message, bumps the conversation and notifies the other
// participant (best-effort).
func (s *Service) Send(ctx context.Context, userID, conversationID uint64, body string) (uint64, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return 0, svcErr.InvalidArgument("Message cannot be empty")
	}
	if len([]rune(body)) > maxMessageLength {
		return 0, svcErr.InvalidArgument("Message is too long")
	}

	var (
		messageID uint64
		notified  []uint64
	)
	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conv, err := s.conversations.WithTx(tx).GetForParticipant(ctx, conversationID, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return svcErr.Permission("Access denied")
		}
		if err != nil {
			return err
		}

		msg := db.Message{ConversationID: conversationID, SenderID: userID, Body: body}
		if err := s.messages.WithTx(tx).Create(ctx, &msg); err != nil {
			return err
		}
		if err := s.conversations.WithTx(tx).Touch(ctx, conversationID, msg.CreatedAt); err != nil {
			return err
		}
		messageID = msg.ID

		recipient := conv.User1ID
		if recipient == userID {
			recipient = conv.User2ID
		}
		name, err := s.users.WithTx(tx).FirstName(ctx, userID)
		if err != nil || name == "" {
			name = "Someone"
		}
		notified = s.outbox.Emit(ctx, tx,
			notification.New(recipient, db.NotificationMessage, userID, name+" sent you a message!"),
		)
		return nil
	})
	if err != nil {
		if !svcErr.IsDomain(err) {
			s.appCtx.Logger.Error("Send failed", "user", userID, "conversation", conversationID, "err", err)
		}
		return 0, svcErr.Map(err)
	}

	s.outbox.Invalidate(ctx, notified...)
	return messageID, nil
}
