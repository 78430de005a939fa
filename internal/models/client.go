package models

import "time"

// Client represents a counterparty tracked in the registry.
type Client struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Industry     string    `json:"industry"`
	AccountOwner string    `json:"account_owner"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}
