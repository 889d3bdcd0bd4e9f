package utils

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Env             string
	Addr            string
	DatabaseURL     string
	RedisURL        string
	SendgridAPIKey  string
	MailFromName    string
	MailFromAddress string
	TemplateDir     string
}

// LoadConfig reads the environment. Outside production a .env file in the
// working directory is loaded first.
func LoadConfig() Config {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, continuing..")
		}
	}

	return Config{
		Env:             os.Getenv("APP_ENV"),
		Addr:            envOr("ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		SendgridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		MailFromName:    envOr("MAIL_FROM_NAME", "Todo List"),
		MailFromAddress: os.Getenv("MAIL_FROM_ADDRESS"),
		TemplateDir:     envOr("TEMPLATE_DIR", "./ui/html"),
	}
}

// Mailer picks SendGrid when a key is configured and logs mail otherwise.
func (c Config) Mailer() Mailer {
	if c.SendgridAPIKey == "" {
		log.Println("SENDGRID_API_KEY not set, password reset codes will be logged")
		return LogMailer{}
	}
	return &SendgridMailer{APIKey: c.SendgridAPIKey, FromName: c.MailFromName, FromAddress: c.MailFromAddress}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
