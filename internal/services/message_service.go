package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lazarnikolic5396/Razmenime/internal/models"
	"github.com/lazarnikolic5396/Razmenime/internal/repository"
)

type ConversationStore interface {
	FindOrCreate(ctx context.Context, a, b string) (*models.Conversation, error)
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Conversation, error)
	TouchLastMessage(ctx context.Context, id string, at time.Time) error
}

type MessageStore interface {
	Insert(ctx context.Context, m *models.Message) error
	List(ctx context.Context, conversationID string, after time.Time) ([]*models.Message, error)
	Last(ctx context.Context, conversationID string) (*models.Message, error)
	CountUnread(ctx context.Context, conversationID, viewerID string) (int64, error)
	MarkRead(ctx context.Context, conversationID, viewerID string) error
}

// Broadcaster pushes a new message to live subscribers of a conversation.
// Best effort only; pollers catch anything the push misses.
type Broadcaster interface {
	Broadcast(conversationID string, payload any)
}

// EventPublisher emits domain events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, kind, key string, event any) error
}

// UnreadCache caches per-viewer unread counts between polls.
type UnreadCache interface {
	GetUnread(ctx context.Context, conversationID, viewerID string) (int64, bool)
	SetUnread(ctx context.Context, conversationID, viewerID string, n int64)
	InvalidateUnread(ctx context.Context, conversationID string, participantIDs ...string)
}

type MessageService struct {
	conversations ConversationStore
	messages      MessageStore
	profiles      ProfileStore
	hub           Broadcaster
	events        EventPublisher
	unread        UnreadCache
	log           *zap.SugaredLogger
}

func NewMessageService(conversations ConversationStore, messages MessageStore, profiles ProfileStore, hub Broadcaster, events EventPublisher, unread UnreadCache, log *zap.SugaredLogger) *MessageService {
	return &MessageService{
		conversations: conversations,
		messages:      messages,
		profiles:      profiles,
		hub:           hub,
		events:        events,
		unread:        unread,
		log:           log,
	}
}

type SendMessageInput struct {
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"-"`
	Content        string `json:"content"`
	AttachmentURL  string `json:"attachment_url"`
}

// Send appends a message to the conversation log. A message must carry text
// or an attachment; this is checked before any storage call.
func (s *MessageService) Send(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" && in.AttachmentURL == "" {
		return nil, fmt.Errorf("%w: message needs text or an attachment", ErrInvalidInput)
	}
	conv, err := s.conversation(ctx, in.ConversationID, in.SenderID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		SenderID:       in.SenderID,
		Content:        content,
		AttachmentURL:  in.AttachmentURL,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.conversations.TouchLastMessage(ctx, conv.ID, msg.CreatedAt); err != nil {
		s.log.Warnw("last_message_at bump failed", "conversation_id", conv.ID, "err", err)
	}
	if s.unread != nil {
		s.unread.InvalidateUnread(ctx, conv.ID, conv.Participant1, conv.Participant2)
	}
	if s.hub != nil {
		s.hub.Broadcast(conv.ID, msg)
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, "message.created", conv.ID, map[string]any{
			"conversation_id": conv.ID,
			"sender_id":       msg.SenderID,
			"created_at":      msg.CreatedAt,
		}); err != nil {
			s.log.Warnw("event publish failed", "conversation_id", conv.ID, "err", err)
		}
	}
	return msg, nil
}

// List returns the ordered message log for a participant. A non-zero after
// narrows the result to messages newer than the given instant.
func (s *MessageService) List(ctx context.Context, conversationID, viewerID string, after time.Time) ([]*models.Message, error) {
	if _, err := s.conversation(ctx, conversationID, viewerID); err != nil {
		return nil, err
	}
	return s.messages.List(ctx, conversationID, after)
}

func (s *MessageService) MarkRead(ctx context.Context, conversationID, viewerID string) error {
	if _, err := s.conversation(ctx, conversationID, viewerID); err != nil {
		return err
	}
	if err := s.messages.MarkRead(ctx, conversationID, viewerID); err != nil {
		return err
	}
	if s.unread != nil {
		s.unread.InvalidateUnread(ctx, conversationID, viewerID)
	}
	return nil
}

type ConversationView struct {
	ID            string    `json:"id"`
	PeerID        string    `json:"peer_id"`
	PeerName      string    `json:"peer_name"`
	PeerAvatarURL string    `json:"peer_avatar_url,omitempty"`
	LastMessage   string    `json:"last_message,omitempty"`
	LastMessageAt time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int64     `json:"unread_count"`
}

// Conversations lists the user's threads ordered by recency, with peer info,
// last message preview and unread count.
func (s *MessageService) Conversations(ctx context.Context, userID string) ([]*ConversationView, error) {
	convs, err := s.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]*ConversationView, 0, len(convs))
	for _, conv := range convs {
		view := &ConversationView{
			ID:            conv.ID,
			PeerID:        conv.Peer(userID),
			LastMessageAt: conv.LastMessageAt,
		}
		if peer, err := s.profiles.GetByID(ctx, view.PeerID); err == nil {
			view.PeerName = peer.FullName
			view.PeerAvatarURL = peer.AvatarURL
		}
		if last, err := s.messages.Last(ctx, conv.ID); err == nil {
			view.LastMessage = last.Content
			if view.LastMessageAt.IsZero() {
				view.LastMessageAt = last.CreatedAt
			}
		}
		view.UnreadCount = s.unreadCount(ctx, conv.ID, userID)
		views = append(views, view)
	}
	return views, nil
}

func (s *MessageService) unreadCount(ctx context.Context, conversationID, viewerID string) int64 {
	if s.unread != nil {
		if n, ok := s.unread.GetUnread(ctx, conversationID, viewerID); ok {
			return n
		}
	}
	n, err := s.messages.CountUnread(ctx, conversationID, viewerID)
	if err != nil {
		s.log.Warnw("unread count failed", "conversation_id", conversationID, "err", err)
		return 0
	}
	if s.unread != nil {
		s.unread.SetUnread(ctx, conversationID, viewerID, n)
	}
	return n
}

// Authorize reports whether the viewer may read the conversation.
func (s *MessageService) Authorize(ctx context.Context, conversationID, viewerID string) error {
	_, err := s.conversation(ctx, conversationID, viewerID)
	return err
}

func (s *MessageService) conversation(ctx context.Context, id, userID string) (*models.Conversation, error) {
	conv, err := s.conversations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrForbidden
	}
	return conv, nil
}
