package models

import "time"

// ChannelType discriminates the three messaging scopes.
type ChannelType string

const (
	ChannelProject ChannelType = "project"
	ChannelDirect  ChannelType = "direct"
	ChannelGroup   ChannelType = "group"
)

// Channel is a messaging scope owning an ordered message log. Direct channels
// are keyed by the canonical (low,high) user-id pair so at most one channel
// exists per unordered pair; project channels are 1:1 with their project.
type Channel struct {
	ID               int64       `json:"id"`
	Type             ChannelType `json:"channel_type"`
	Name             string      `json:"name"`
	ProjectID        *int64      `json:"project_id,omitempty"`
	DirectUserLowID  *int64      `json:"direct_user_low_id,omitempty"`
	DirectUserHighID *int64      `json:"direct_user_high_id,omitempty"`
	CreatedByID      *int64      `json:"created_by_id,omitempty"`
	Members          []int64     `json:"members"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Message is immutable once created and ordered by creation time.
type Message struct {
	ID        int64     `json:"id"`
	ChannelID int64     `json:"channel_id"`
	SenderID  int64     `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
