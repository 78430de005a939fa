package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite | postgres
	DSN    string `yaml:"dsn"`
}

type SessionConfig struct {
	Secret     string `yaml:"secret"`
	CookieName string `yaml:"cookie_name"`
	TTLHours   int    `yaml:"ttl_hours"`
}

type MailConfig struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	SMTPUser string `yaml:"smtp_user"`
	SMTPPass string `yaml:"smtp_password"`
	From     string `yaml:"from_email"`
	LeadsTo  string `yaml:"leads_to"`
}

type FilesConfig struct {
	RootDir string `yaml:"root_dir"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

type SiteConfig struct {
	URL  string `yaml:"url"`
	Seed bool   `yaml:"seed"`
}

type Config struct {
	Env    string `yaml:"env"` // development | production | testing
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Mail     MailConfig     `yaml:"mail"`
	Files    FilesConfig    `yaml:"files"`
	Telegram TelegramConfig `yaml:"telegram"`
	Site     SiteConfig     `yaml:"site"`
}

// LoadConfig reads the yaml config. The path comes from ELFPORTAL_CONFIG and
// defaults to config/config.yaml; secrets may be overridden from the
// environment so the file can stay checked in without credentials.
func LoadConfig() *Config {
	path := os.Getenv("ELFPORTAL_CONFIG")
	if path == "" {
		path = "config/config.yaml"
	}

	f, err := os.Open(path)
	if err != nil {
		panic("Failed to open " + path + ": " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse " + path + ": " + err.Error())
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if cfg.Env == "production" {
		secret := strings.ToLower(cfg.Session.Secret)
		if secret == "" || secret == "change-me" {
			panic("session.secret must be set to a secure value in production")
		}
	}
	return &cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ELFPORTAL_ENV"); v != "" {
		cfg.Env = strings.ToLower(v)
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Session.Secret = v
	}
	if v := os.Getenv("MAIL_PASSWORD"); v != "" {
		cfg.Mail.SMTPPass = v
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "elf.db"
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "elf_session"
	}
	if cfg.Session.TTLHours == 0 {
		cfg.Session.TTLHours = 12
	}
	if cfg.Files.RootDir == "" {
		cfg.Files.RootDir = "./files"
	}
	if cfg.Site.URL == "" {
		cfg.Site.URL = "https://www.elf-ai.co.za"
	}
}
