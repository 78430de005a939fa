package models

import "time"

type Project struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	ClientID         int64      `json:"client_id"`
	OwnerID          *int64     `json:"owner_id,omitempty"`
	Stage            string     `json:"stage"`
	Status           string     `json:"status"`
	Summary          string     `json:"summary"`
	IndustryCategory string     `json:"industry_category"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ProjectRef is the light projection used when a resource or channel only
// needs to name the project it points at.
type ProjectRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
