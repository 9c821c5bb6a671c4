package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string
	BaseURL       string
	DBUrl         string
	TokenSecret   string
	TokenTTL      time.Duration
	AdminUser     string
	AdminPassword string
	Debug         bool
}

// ParseFlags reads configuration from flags, with environment variables (and
// an optional .env file) supplying the defaults.
func ParseFlags() (cfg Config, err error) {
	_ = godotenv.Load()

	var host string
	flag.StringVar(&host, "host", envOr("LEADFORM_HOST", "0.0.0.0"), "listen host name")
	var port uint
	flag.UintVar(&port, "port", uint(envOrInt("LEADFORM_PORT", 8080)), "listen port number")
	flag.StringVar(&cfg.BaseURL, "base-url", envOr("LEADFORM_BASE_URL", ""), "public base URL used in share links and embed snippets")
	flag.StringVar(&cfg.DBUrl, "db-url", envOr("LEADFORM_DB_URL", "leadform.sqlite"), "path to SQLite3 DB file")
	flag.StringVar(&cfg.TokenSecret, "token-secret", os.Getenv("LEADFORM_TOKEN_SECRET"), "secret key for token encryption and decryption")
	var ttl uint
	flag.UintVar(&ttl, "token-ttl", uint(envOrInt("LEADFORM_TOKEN_TTL", 3600)), "access token TTL in seconds")
	flag.StringVar(&cfg.AdminUser, "admin-user", envOr("LEADFORM_ADMIN_USER", ""), "admin username to ensure at startup")
	flag.StringVar(&cfg.AdminPassword, "admin-password", os.Getenv("LEADFORM_ADMIN_PASSWORD"), "admin password to ensure at startup")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second

	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://" + strings.Replace(cfg.Addr, "0.0.0.0", "localhost", 1)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.TokenSecret == "" {
		err = errors.New("missing parameter -token-secret")
	}

	return
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
