package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"

	"github.com/hamed0406/fleetmon/internal/domain"
)

type Config struct {
	Hosts            []string `envconfig:"FLEET_HOSTS" required:"true"`
	AlertDestination string   `envconfig:"ALERT_EMAIL"`
	SlackWebhook     string   `envconfig:"SLACK_WEBHOOK_URL"`

	SMTP  SMTPConfig  `envconfig:"SMTP"`
	Probe ProbeConfig `envconfig:"PROBE"`

	Concurrency int    `envconfig:"MAX_CONCURRENT_CHECKS" default:"1"`
	Schedule    string `envconfig:"SCHEDULE" default:"@every 1m"`

	LogDir   string `envconfig:"LOG_DIR" default:"logs"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	APIConfig
}

// Nested fields carry no envconfig names of their own: the key is the
// parent prefix plus the field name (SMTP_HOST, PROBE_TCP_PORT), with no
// unprefixed fallback that could pick up an unrelated HOST or PORT.
type SMTPConfig struct {
	Host     string
	Port     int `default:"587"`
	Username string
	Password string
	From     string
	Timeout  time.Duration `default:"10s"`
	SSL      bool
}

type ProbeConfig struct {
	Mode       string        `default:"icmp"`
	Timeout    time.Duration `default:"2s"`
	Privileged bool
	TCPPort    int `split_words:"true" default:"22"`
}

// APIConfig is only used by `fleetmon serve`.
type APIConfig struct {
	Addr           string   `envconfig:"API_ADDR" default:"127.0.0.1:8080"`
	PublicKeys     []string `envconfig:"PUBLIC_API_KEYS"`
	AdminKeys      []string `envconfig:"ADMIN_API_KEYS"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`
	PublicRPM      int      `envconfig:"PUBLIC_RPM" default:"120"`
	PublicBurst    int      `envconfig:"PUBLIC_BURST" default:"60"`
	AdminRPM       int      `envconfig:"ADMIN_RPM" default:"30"`
	AdminBurst     int      `envconfig:"ADMIN_BURST" default:"10"`
}

// Load applies the .env file at path when it exists, then reads the
// environment. Variables already set in the environment win over the file.
func Load(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Hosts = cleanList(c.Hosts)
	c.PublicKeys = cleanList(c.PublicKeys)
	c.AdminKeys = cleanList(c.AdminKeys)
	c.AllowedOrigins = cleanList(c.AllowedOrigins)
	c.Probe.Mode = strings.ToLower(strings.TrimSpace(c.Probe.Mode))
	c.AlertDestination = strings.TrimSpace(c.AlertDestination)
	c.SMTP.Host = strings.TrimSpace(c.SMTP.Host)
}

// cleanList trims entries and drops blanks, keeping order.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c Config) Validate() error {
	var errs []error
	if len(c.Hosts) == 0 {
		errs = append(errs, errors.New("FLEET_HOSTS has no hosts"))
	}
	switch c.Probe.Mode {
	case "icmp", "tcp", "any":
	default:
		errs = append(errs, fmt.Errorf("PROBE_MODE %q must be icmp, tcp or any", c.Probe.Mode))
	}
	if c.Probe.Timeout <= 0 {
		errs = append(errs, errors.New("PROBE_TIMEOUT must be positive"))
	}
	if c.Concurrency < 1 {
		errs = append(errs, errors.New("MAX_CONCURRENT_CHECKS must be at least 1"))
	}
	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("SCHEDULE %q: %w", c.Schedule, err))
	}
	if c.SMTP.Host != "" {
		if c.AlertDestination == "" {
			errs = append(errs, errors.New("ALERT_EMAIL is required when SMTP_HOST is set"))
		}
		if c.SMTP.From == "" && c.SMTP.Username == "" {
			errs = append(errs, errors.New("SMTP_FROM or SMTP_USERNAME is required when SMTP_HOST is set"))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Warnings lists settings that are legal but probably not what was meant.
func (c Config) Warnings() []string {
	var w []string
	if c.SMTP.Host == "" && c.SlackWebhook == "" {
		w = append(w, "no SMTP_HOST or SLACK_WEBHOOK_URL: alerts will only be logged")
	}
	if c.SMTP.Host != "" && c.SMTP.Password == "" {
		w = append(w, "SMTP_PASSWORD is empty: the server must accept unauthenticated mail")
	}
	if c.Probe.Mode != "tcp" && !c.Probe.Privileged {
		w = append(w, "unprivileged ICMP needs net.ipv4.ping_group_range to include this process group")
	}
	if len(c.AdminKeys) == 0 {
		w = append(w, "ADMIN_API_KEYS is empty: POST /api/pass is open")
	}
	if len(c.PublicKeys) == 0 {
		w = append(w, "PUBLIC_API_KEYS is empty: read routes are open")
	}
	if len(c.AllowedOrigins) == 0 {
		w = append(w, "ALLOWED_ORIGINS is empty: CORS allows any origin")
	}
	return w
}

func (c Config) DomainHosts() []domain.Host {
	out := make([]domain.Host, len(c.Hosts))
	for i, h := range c.Hosts {
		out[i] = domain.Host(h)
	}
	return out
}
