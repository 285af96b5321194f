package config

import "time"

type AuthConfig struct {
	JWT    JWTConfig
	Cookie CookieConfig
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
	Issuer         string
	Audience       []string
}

type CookieConfig struct {
	AccessTokenName string
	Domain          string
	Path            string
	Secure          bool
	HTTPOnly        bool
	SameSite        string
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET_KEY", ""),
			AccessTokenTTL: getEnvDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute),
			Issuer:         getEnv("JWT_ISSUER", "careerpath"),
			Audience:       getEnvStringSlice("JWT_AUDIENCE", []string{"careerpath-api"}),
		},
		Cookie: CookieConfig{
			AccessTokenName: getEnv("COOKIE_ACCESS_TOKEN_NAME", "access_token"),
			Domain:          getEnv("COOKIE_DOMAIN", ""),
			Path:            getEnv("COOKIE_PATH", "/"),
			Secure:          getEnvBool("COOKIE_SECURE", false),
			HTTPOnly:        getEnvBool("COOKIE_HTTP_ONLY", true),
			SameSite:        getEnv("COOKIE_SAME_SITE", "Lax"),
		},
	}
}
