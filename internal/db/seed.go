package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"elfportal/internal/models"
)

// Seed fills the marketing tables and the default starter-plan template on an
// empty database. Each block checks its own table so re-running is harmless.
func Seed(ctx context.Context, conn *sql.DB) error {
	if err := seedMarketing(ctx, conn); err != nil {
		return err
	}
	return seedStarterPlan(ctx, conn)
}

func tableEmpty(ctx context.Context, conn *sql.DB, table string) (bool, error) {
	var dummy int
	err := conn.QueryRowContext(ctx, "SELECT 1 FROM "+table+" LIMIT 1").Scan(&dummy)
	if err == sql.ErrNoRows {
		return true, nil
	}
	return false, err
}

func seedMarketing(ctx context.Context, conn *sql.DB) error {
	if empty, err := tableEmpty(ctx, conn, "branding"); err != nil || !empty {
		return err
	}
	log.Printf("[db][seed] seeding marketing content")

	if _, err := conn.ExecContext(ctx,
		`INSERT INTO branding (title, slogan, tagline) VALUES ($1, $2, $3)`,
		"ELF", "Novel AI Solutions",
		"Enhance the efficiency of your business with tailored AI-integration and automation solutions, built for your specific needs",
	); err != nil {
		return err
	}

	headings := []models.PageHeading{
		{Title: "about_us", Slogan1: "Dynamic", Slogan2: "Problem Solvers.",
			Tagline: "Solving real-world problems with personalised AI solutions."},
		{Title: "solutions", Slogan1: `"The Future of AI"`, Slogan2: "Today.",
			Tagline: "Solutions devised by ELF."},
		{Title: "enquiry", Slogan1: "Let's", Slogan2: "Talk",
			Tagline: "Whether you need a specific solution or a general consult, we are eager to hear from you."},
	}
	for _, h := range headings {
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO page_headings (title, slogan_1, slogan_2, tagline) VALUES ($1, $2, $3, $4)`,
			h.Title, h.Slogan1, h.Slogan2, h.Tagline); err != nil {
			return err
		}
	}

	services := []struct {
		svc      models.SiteService
		features []string
	}{
		{
			svc: models.SiteService{Title: "ELF Consultation", Icon: "fa-handshake",
				Description: "Book a free meeting to discuss your companies processes. Elf will research, craft and implement a unique AI and Automation solution"},
			features: []string{
				"Adaptable: There is no standard solution for all firms. We have the ability to quickly adjust strategies, recommendations and solutions",
				"Data-Driven Objectives: Elf provides measurable results.",
				"Technical: Every project is accompanied with an in-depth technical report",
			},
		},
		{
			svc: models.SiteService{Title: "ELF Hybrid Transcription", Icon: "fa-microphone-lines",
				Description: `A "Certificate of Veracity" compliant system. We leverage transcription hardware, Elf software and limited human review to reduce transcription costs by an estimated 93%.`},
			features: []string{
				"Advanced Technology: Plaud Note Pro Hardware",
				"High Fidelity: Advanced AI Consensus Model",
				"High Savings: 93% Cost Reduction on purely human subscription",
			},
		},
		{
			svc: models.SiteService{Title: "ELF Law LLM", Icon: "fa-brain",
				Description: "A locally deployed Large Language Model (LLM) hosted on an in-house server. It ingests entire case libraries to generate answers based on your accumulated knowledge."},
			features: []string{
				"High Data Security: Local deployment ensures sensitive data stays in-house.",
				"No Hallucination Risk: Citation is forced, meaning cases cited will be real.",
				"High Control: Your lawyers likely use AI, this provides an avenue to manage it.",
			},
		},
		{
			svc: models.SiteService{Title: "ELF Education Audio-AI", Icon: "fa-ear-listen",
				Description: "An integrated AI solution based on utilising ceiling mounted microphone arrays to provide analysis, insights and reports for parents and teachers alike"},
			features: []string{
				"High Fidelity: Audio is captured accurately by ceiling mounted microphone arrays.",
				"POPIA compliant: Through Voice Identification and audio deletion, we ensure privacy.",
				"Insightful: Provides early detection, social insights and academic profiles.",
			},
		},
	}
	for _, entry := range services {
		var serviceID int64
		err := conn.QueryRowContext(ctx,
			`INSERT INTO site_services (title, description, icon) VALUES ($1, $2, $3) RETURNING id`,
			entry.svc.Title, entry.svc.Description, entry.svc.Icon).Scan(&serviceID)
		if err != nil {
			return err
		}
		for _, text := range entry.features {
			if _, err := conn.ExecContext(ctx,
				`INSERT INTO site_features (service_id, text) VALUES ($1, $2)`, serviceID, text); err != nil {
				return err
			}
		}
	}

	slides := []models.Slide{
		{Title: "Adaptable", Owner: "about_us", Icon: "fa-puzzle-piece",
			Description: "There is no standard solution for all firms. We have the ability to quickly adjust strategies, recommendations and solutions to suit your particular needs"},
		{Title: "Data-driven", Owner: "about_us", Icon: "fa-chart-line",
			Description: "Elf heavily emphasises providing measurable results. Elf will always provide a report with quantifiable metrics to show the positive impact of our solutions"},
		{Title: "Technical", Owner: "about_us", Icon: "fa-terminal",
			Description: "Elf's strength lies in knowledge depth for proposed solutions. Every project is accompanied with an in-depth technical report"},
		{Title: "Consultation", Owner: "about_us_mini", Icon: "fa-terminal",
			Description: "An ELF representative meets your firm's representative for a consultation, delving into firm specific issues"},
		{Title: "Proposal", Owner: "about_us_mini", Icon: "fa-terminal",
			Description: "ELF researches and compiles a proposal detailing AI solutions suitable for your firm."},
		{Title: "Implementation", Owner: "about_us_mini", Icon: "fa-terminal",
			Description: "ELF collaborates with your team to seamlessly integrate and implement the proposed solutions."},
		{Title: "Maintenance", Owner: "about_us_mini", Icon: "fa-terminal",
			Description: "ELF cares deeply about reliability of our systems and will continue to monitor, upgrade and maintain our implementations."},
	}
	for _, s := range slides {
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO slides (title, description, owner, icon) VALUES ($1, $2, $3, $4)`,
			s.Title, s.Description, s.Owner, s.Icon); err != nil {
			return err
		}
	}
	return nil
}

// DefaultStarterPlanName is the template applied on project creation.
const DefaultStarterPlanName = "default"

// DefaultStarterPhases is the shipped starter-plan breakdown. The percentages
// place each milestone within the today→due-date span.
func DefaultStarterPhases() []models.StarterPhase {
	return []models.StarterPhase{
		{Title: "Kickoff and Discovery", Priority: models.PriorityHigh, Milestones: []models.StarterMilestone{
			{Title: "Stakeholder kickoff session", Percent: 8},
			{Title: "Current-state process review", Percent: 14},
			{Title: "Scope and success metrics agreed", Percent: 20},
		}},
		{Title: "Solution Build and Validation", Priority: models.PriorityHigh, Milestones: []models.StarterMilestone{
			{Title: "First working increment", Percent: 35},
			{Title: "Internal QA pass", Percent: 50},
			{Title: "Client validation workshop", Percent: 62},
		}},
		{Title: "Rollout and Enablement", Priority: models.PriorityMedium, Milestones: []models.StarterMilestone{
			{Title: "Production rollout", Percent: 74},
			{Title: "Team enablement session", Percent: 84},
			{Title: "Hypercare window closed", Percent: 92},
		}},
		{Title: "Value Review and Scale Plan", Priority: models.PriorityMedium, Milestones: []models.StarterMilestone{
			{Title: "Value review with metrics", Percent: 96},
			{Title: "Scale and maintenance plan", Percent: 100},
		}},
	}
}

func seedStarterPlan(ctx context.Context, conn *sql.DB) error {
	if empty, err := tableEmpty(ctx, conn, "starter_plan_templates"); err != nil || !empty {
		return err
	}
	raw, err := json.Marshal(DefaultStarterPhases())
	if err != nil {
		return err
	}
	_, err = conn.ExecContext(ctx,
		`INSERT INTO starter_plan_templates (name, template_json, updated_at) VALUES ($1, $2, $3)`,
		DefaultStarterPlanName, string(raw), time.Now().UTC())
	return err
}

// SeedAdminFromEnv provisions the first portal account from ADMIN_NAME,
// ADMIN_EMAIL and ADMIN_PASSWORD when the users table is empty. Without it a
// fresh install has no way to log in.
func SeedAdminFromEnv(ctx context.Context, conn *sql.DB) error {
	empty, err := tableEmpty(ctx, conn, "users")
	if err != nil || !empty {
		return err
	}
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Printf("[db][seed] users table empty and ADMIN_EMAIL/ADMIN_PASSWORD unset; portal login unavailable")
		return nil
	}
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Internal Admin"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = conn.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		name, email, string(hash), time.Now().UTC())
	if err == nil {
		log.Printf("[db][seed] created admin account %s", email)
	}
	return err
}
