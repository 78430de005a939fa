package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"elfportal/internal/authz"
	"elfportal/internal/db"
	"elfportal/internal/models"
	"elfportal/internal/repositories"
)

var (
	ErrNotChannelMember  = errors.New("user is not a member of this channel")
	ErrChannelNotFound   = errors.New("channel not found")
	ErrSelfDirectChannel = errors.New("direct channel requires two distinct users")
	ErrEmptyMessage      = errors.New("message body is required")
	ErrGroupNameRequired = errors.New("group name is required")
)

// ChannelService resolves messaging channels and appends messages. Uniqueness
// races on the direct pair and the project link are absorbed by re-lookup.
type ChannelService struct {
	conn     *sql.DB
	channels repositories.ChannelRepository
	messages repositories.MessageRepository
	users    repositories.UserRepository
}

func NewChannelService(
	conn *sql.DB,
	channels repositories.ChannelRepository,
	messages repositories.MessageRepository,
	users repositories.UserRepository,
) *ChannelService {
	return &ChannelService{conn: conn, channels: channels, messages: messages, users: users}
}

// canonicalPair orders two user ids as (low, high) so a direct channel is
// found regardless of which side initiates.
func canonicalPair(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}

// EnsureProjectChannel returns the project's channel, creating it lazily on
// first access. The UNIQUE(project_id) constraint keeps the 1:1 invariant; a
// concurrent creator wins the race and we return its channel.
func (s *ChannelService) EnsureProjectChannel(ctx context.Context, project *models.Project) (*models.Channel, error) {
	existing, err := s.channels.FindByProject(ctx, project.ID)
	if err != nil || existing != nil {
		return existing, err
	}

	now := time.Now().UTC()
	ch := &models.Channel{
		Type:      models.ChannelProject,
		Name:      project.Name,
		ProjectID: &project.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.channels.Store(ctx, ch); err != nil {
		if db.IsUniqueViolation(err) {
			return s.channels.FindByProject(ctx, project.ID)
		}
		return nil, err
	}
	log.Printf("[channel][project][ok] project_id=%d channel_id=%d", project.ID, ch.ID)
	return ch, nil
}

// StartDirect returns the canonical direct channel between the caller and the
// recipient, creating it if absent.
func (s *ChannelService) StartDirect(ctx context.Context, ident models.Identity, recipientID int64) (*models.Channel, error) {
	if recipientID == ident.UserID {
		return nil, ErrSelfDirectChannel
	}
	recipient, err := s.users.FindByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, ErrChannelNotFound
	}

	low, high := canonicalPair(ident.UserID, recipientID)
	existing, err := s.channels.FindDirect(ctx, low, high)
	if err != nil || existing != nil {
		return existing, err
	}

	created, err := s.createDirect(ctx, ident.UserID, low, high)
	if err != nil {
		if db.IsUniqueViolation(err) {
			// lost the creation race; the surviving channel is the answer
			return s.channels.FindDirect(ctx, low, high)
		}
		return nil, err
	}
	return created, nil
}

func (s *ChannelService) createDirect(ctx context.Context, creatorID, low, high int64) (*models.Channel, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	repo := repositories.NewChannelRepository(tx)
	ch := &models.Channel{
		Type:             models.ChannelDirect,
		DirectUserLowID:  &low,
		DirectUserHighID: &high,
		CreatedByID:      &creatorID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := repo.Store(ctx, ch); err != nil {
		return nil, err
	}
	for _, userID := range []int64{low, high} {
		if err := repo.AddMember(ctx, ch.ID, userID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	ch.Members = []int64{low, high}
	log.Printf("[channel][direct][ok] channel_id=%d pair=(%d,%d)", ch.ID, low, high)
	return ch, nil
}

// CreateGroup creates a named channel with the caller plus the given members.
func (s *ChannelService) CreateGroup(ctx context.Context, ident models.Identity, name string, memberIDs []int64) (*models.Channel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrGroupNameRequired
	}

	members := map[int64]bool{ident.UserID: true}
	for _, id := range memberIDs {
		members[id] = true
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	repo := repositories.NewChannelRepository(tx)
	ch := &models.Channel{
		Type:        models.ChannelGroup,
		Name:        name,
		CreatedByID: &ident.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.Store(ctx, ch); err != nil {
		return nil, err
	}
	for userID := range members {
		if err := repo.AddMember(ctx, ch.ID, userID); err != nil {
			return nil, err
		}
		ch.Members = append(ch.Members, userID)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Printf("[channel][group][ok] channel_id=%d name=%q members=%d", ch.ID, ch.Name, len(ch.Members))
	return ch, nil
}

func (s *ChannelService) ListVisible(ctx context.Context, ident models.Identity) ([]models.Channel, error) {
	return s.channels.ListVisible(ctx, ident.UserID)
}

func (s *ChannelService) Get(ctx context.Context, ident models.Identity, channelID int64) (*models.Channel, error) {
	ch, err := s.channels.FindByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrChannelNotFound
	}
	if !authz.CanReadChannel(ch, ident.UserID) {
		return nil, ErrNotChannelMember
	}
	return ch, nil
}

func (s *ChannelService) Messages(ctx context.Context, ident models.Identity, channelID int64) ([]models.Message, error) {
	if _, err := s.Get(ctx, ident, channelID); err != nil {
		return nil, err
	}
	return s.messages.ListByChannel(ctx, channelID)
}

// Post appends one immutable message and advances the channel's updated_at,
// both inside one transaction.
func (s *ChannelService) Post(ctx context.Context, ident models.Identity, channelID int64, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}
	ch, err := s.channels.FindByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrChannelNotFound
	}
	if !authz.CanPostChannel(ch, ident.UserID) {
		return nil, ErrNotChannelMember
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	msg := &models.Message{
		ChannelID: channelID,
		SenderID:  ident.UserID,
		Body:      body,
		CreatedAt: now,
	}
	if err := repositories.NewMessageRepository(tx).Store(ctx, msg); err != nil {
		return nil, err
	}
	if err := repositories.NewChannelRepository(tx).Touch(ctx, channelID, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return msg, nil
}
