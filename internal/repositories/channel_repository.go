package repositories

import (
	"context"
	"database/sql"
	"time"

	"elfportal/internal/models"
)

type ChannelRepository interface {
	Store(ctx context.Context, channel *models.Channel) error
	FindByID(ctx context.Context, id int64) (*models.Channel, error)
	FindByProject(ctx context.Context, projectID int64) (*models.Channel, error)
	FindDirect(ctx context.Context, lowID, highID int64) (*models.Channel, error)
	ListVisible(ctx context.Context, userID int64) ([]models.Channel, error)
	AddMember(ctx context.Context, channelID, userID int64) error
	IsMember(ctx context.Context, channelID, userID int64) (bool, error)
	Touch(ctx context.Context, channelID int64, at time.Time) error
}

type channelRepository struct {
	db DBTX
}

func NewChannelRepository(db DBTX) ChannelRepository {
	return &channelRepository{db: db}
}

const channelColumns = `id, channel_type, name, project_id, direct_user_low_id, direct_user_high_id, created_by_id, created_at, updated_at`

func (r *channelRepository) Store(ctx context.Context, channel *models.Channel) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO message_channels
		 (channel_type, name, project_id, direct_user_low_id, direct_user_high_id, created_by_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		channel.Type, channel.Name, channel.ProjectID,
		channel.DirectUserLowID, channel.DirectUserHighID, channel.CreatedByID,
		channel.CreatedAt, channel.UpdatedAt,
	).Scan(&channel.ID)
}

func scanChannel(row interface{ Scan(...any) error }) (*models.Channel, error) {
	ch := &models.Channel{}
	err := row.Scan(&ch.ID, &ch.Type, &ch.Name, &ch.ProjectID,
		&ch.DirectUserLowID, &ch.DirectUserHighID, &ch.CreatedByID,
		&ch.CreatedAt, &ch.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func (r *channelRepository) FindByID(ctx context.Context, id int64) (*models.Channel, error) {
	ch, err := scanChannel(r.db.QueryRowContext(ctx,
		`SELECT `+channelColumns+` FROM message_channels WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (r *channelRepository) FindByProject(ctx context.Context, projectID int64) (*models.Channel, error) {
	ch, err := scanChannel(r.db.QueryRowContext(ctx,
		`SELECT `+channelColumns+` FROM message_channels WHERE project_id = $1`, projectID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (r *channelRepository) FindDirect(ctx context.Context, lowID, highID int64) (*models.Channel, error) {
	ch, err := scanChannel(r.db.QueryRowContext(ctx,
		`SELECT `+channelColumns+` FROM message_channels
		 WHERE direct_user_low_id = $1 AND direct_user_high_id = $2`, lowID, highID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// ListVisible returns every project channel plus the direct/group channels
// the user belongs to, most recently active first.
func (r *channelRepository) ListVisible(ctx context.Context, userID int64) ([]models.Channel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+channelColumns+` FROM message_channels
		 WHERE channel_type = $1
		    OR id IN (SELECT channel_id FROM channel_members WHERE user_id = $2)
		 ORDER BY updated_at DESC, id DESC`,
		models.ChannelProject, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []models.Channel
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		channels = append(channels, *ch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range channels {
		if err := r.loadMembers(ctx, &channels[i]); err != nil {
			return nil, err
		}
	}
	return channels, nil
}

func (r *channelRepository) loadMembers(ctx context.Context, ch *models.Channel) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM channel_members WHERE channel_id = $1 ORDER BY user_id`, ch.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	ch.Members = nil
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ch.Members = append(ch.Members, id)
	}
	return rows.Err()
}

func (r *channelRepository) AddMember(ctx context.Context, channelID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO channel_members (channel_id, user_id) VALUES ($1, $2)`, channelID, userID)
	return err
}

func (r *channelRepository) IsMember(ctx context.Context, channelID, userID int64) (bool, error) {
	var dummy int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM channel_members WHERE channel_id = $1 AND user_id = $2 LIMIT 1`,
		channelID, userID).Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *channelRepository) Touch(ctx context.Context, channelID int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE message_channels SET updated_at = $1 WHERE id = $2`, at, channelID)
	return err
}
