package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Settings struct {
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
		TokenTTL  string `yaml:"token_ttl"`
	} `yaml:"auth"`
	Gemini struct {
		APIKey          string   `yaml:"api_key"`
		Model           string   `yaml:"model"`
		Temperature     *float32 `yaml:"temperature"`
		MaxOutputTokens int32    `yaml:"max_output_tokens"`
	} `yaml:"gemini"`
	Client struct {
		APIURL string `yaml:"api_url"`
	} `yaml:"client"`
}

// Load reads the YAML file at path (a missing file is not an error) and then
// applies environment overrides.
func Load(path string) (Settings, error) {
	var s Settings
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &s); err != nil {
				return s, err
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return s, err
		}
	}
	s.applyEnv()
	s.applyDefaults()
	return s, nil
}

func (s *Settings) applyEnv() {
	setString(&s.Server.Port, "PORT")
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		s.Server.AllowedOrigins = splitList(v)
	}
	setString(&s.Database.Driver, "DATABASE_DRIVER")
	setString(&s.Database.DSN, "DATABASE_DSN")
	setString(&s.Redis.Addr, "REDIS_ADDR")
	setString(&s.Redis.Password, "REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.Redis.DB = n
		}
	}
	setString(&s.Auth.JWTSecret, "JWT_SECRET")
	setString(&s.Auth.TokenTTL, "JWT_TTL")
	setString(&s.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&s.Gemini.Model, "GEMINI_MODEL")
	setString(&s.Client.APIURL, "AIZZLER_API_URL")
}

func (s *Settings) applyDefaults() {
	if s.Server.Port == "" {
		s.Server.Port = "8080"
	}
	if s.Database.Driver == "" {
		s.Database.Driver = "postgres"
	}
	if s.Gemini.Model == "" {
		s.Gemini.Model = "gemini-2.0-flash"
	}
	if s.Gemini.Temperature == nil {
		t := float32(0.2)
		s.Gemini.Temperature = &t
	}
	if s.Gemini.MaxOutputTokens == 0 {
		s.Gemini.MaxOutputTokens = 8192
	}
	if s.Client.APIURL == "" {
		s.Client.APIURL = "http://localhost:" + s.Server.Port
	}
}

func (s Settings) TokenTTL() time.Duration {
	return Duration(s.Auth.TokenTTL, 24*time.Hour)
}

// Duration parses raw or returns fallback when it is empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return fallback
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
