package models

// Marketing content rendered on the public pages. Seeded once on first run.

type SiteService struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Features    []Feature `json:"features"`
}

type Feature struct {
	ID        int64  `json:"id"`
	ServiceID int64  `json:"service_id"`
	Text      string `json:"text"`
}

type Slide struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
	Icon        string `json:"icon"`
}

type Branding struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Slogan  string `json:"slogan"`
	Tagline string `json:"tagline"`
}

// ContactLead is a public contact-form submission; relayed by email, never
// persisted.
type ContactLead struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type PageHeading struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Slogan1 string `json:"slogan_1"`
	Slogan2 string `json:"slogan_2"`
	Tagline string `json:"tagline"`
}
