// pkg/config/email.go
package config

type EmailConfig struct {
	Provider     string
	FromAddress  string
	FromName     string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

func loadEmailConfig() EmailConfig {
	return EmailConfig{
		Provider:     getEnv("EMAIL_PROVIDER", "smtp"),
		FromAddress:  getEnv("EMAIL_FROM_ADDRESS", "noreply@careerpath.dev"),
		FromName:     getEnv("EMAIL_FROM_NAME", "Career Path Manager"),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
	}
}
