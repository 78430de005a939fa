package repositories

import (
	"context"

	"elfportal/internal/models"
)

type MessageRepository interface {
	Store(ctx context.Context, msg *models.Message) error
	ListByChannel(ctx context.Context, channelID int64) ([]models.Message, error)
}

type messageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Store(ctx context.Context, msg *models.Message) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO messages (channel_id, sender_id, body, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		msg.ChannelID, msg.SenderID, msg.Body, msg.CreatedAt,
	).Scan(&msg.ID)
}

func (r *messageRepository) ListByChannel(ctx context.Context, channelID int64) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, channel_id, sender_id, body, created_at
		 FROM messages WHERE channel_id = $1
		 ORDER BY created_at ASC, id ASC`, channelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ChannelID, &m.SenderID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
