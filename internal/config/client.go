package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultServerURL      = "http://localhost:8080"
	DefaultTheme          = "dark"
	DefaultPollInterval   = 2 * time.Second
	DefaultRequestTimeout = 5 * time.Second
)

// ClientConfig configures the terminal client.
type ClientConfig struct {
	ServerURL      string        `toml:"server_url"`
	AuthSecret     string        `toml:"auth_secret"`
	Theme          string        `toml:"theme"`
	PollInterval   time.Duration `toml:"poll_interval"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	LogFile        string        `toml:"log_file"`

	// Embedded runs the service in-process instead of talking to ServerURL.
	Embedded bool `toml:"-"`
	// Path is the config file that was read, if any.
	Path string `toml:"-"`
}

// LoadClient resolves the client configuration in priority order:
// defaults, TOML file, environment, then flags set on the command line.
// The file comes from -config, $TODO_CONFIG or the user config directory.
func LoadClient(fset *flag.FlagSet, args []string) (*ClientConfig, error) {
	var (
		configPath = fset.String("config", "", "path to the client config file")
		serverURL  = fset.String("server", "", "todo API base URL")
		theme      = fset.String("theme", "", "color theme (dark or light)")
		embedded   = fset.Bool("embedded", false, "run against an in-process in-memory store")
	)
	if err := fset.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	cfg := &ClientConfig{
		ServerURL:      DefaultServerURL,
		Theme:          DefaultTheme,
		PollInterval:   DefaultPollInterval,
		RequestTimeout: DefaultRequestTimeout,
	}

	path := *configPath
	explicit := path != ""
	if !explicit {
		path = os.Getenv("TODO_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = userConfigFile()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		} else {
			cfg.Path = path
		}
	}

	if v := os.Getenv("TODO_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("TODO_AUTH_SECRET"); v != "" {
		cfg.AuthSecret = v
	}
	if v := os.Getenv("TODO_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TODO_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}

	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "server":
			cfg.ServerURL = *serverURL
		case "theme":
			cfg.Theme = *theme
		case "embedded":
			cfg.Embedded = *embedded
		}
	})

	cfg.Theme = strings.ToLower(cfg.Theme)
	cfg.LogFile = expandPath(cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ClientConfig) Validate() error {
	if c.Theme != "dark" && c.Theme != "light" {
		return fmt.Errorf("invalid theme %q: must be dark or light", c.Theme)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.Embedded {
		return nil
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server url %q", c.ServerURL)
	}
	return nil
}

func userConfigFile() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		d, err := os.UserConfigDir()
		if err != nil {
			return ""
		}
		dir = d
	}
	return filepath.Join(dir, "todo", "config.toml")
}

func expandPath(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
