package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Log  Log  `yaml:"log"`
	HTTP HTTP `yaml:"http"`
	Game Game `yaml:"game"`
}

type Log struct {
	Level  string `yaml:"level" env:"TICTACTOE_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"TICTACTOE_LOG_FORMAT" env-default:"console"`
}

type HTTP struct {
	Host            string        `yaml:"host" env:"TICTACTOE_HTTP_HOST" env-default:""`
	Port            string        `yaml:"port" env:"TICTACTOE_HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read-timeout" env:"TICTACTOE_HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write-timeout" env:"TICTACTOE_HTTP_WRITE_TIMEOUT" env-default:"0s"`
	IdleTimeout     time.Duration `yaml:"idle-timeout" env:"TICTACTOE_HTTP_IDLE_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" env:"TICTACTOE_HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type Game struct {
	SessionTTL    time.Duration `yaml:"session-ttl" env:"TICTACTOE_SESSION_TTL" env-default:"2h"`
	PruneInterval time.Duration `yaml:"prune-interval" env:"TICTACTOE_PRUNE_INTERVAL" env-default:"5m"`
	Heartbeat     time.Duration `yaml:"heartbeat" env:"TICTACTOE_HEARTBEAT" env-default:"15s"`
}

// DefaultPath is where Load looks when no path is given.
var DefaultPath = filepath.Join(xdg.ConfigHome, "tictactoe", "config.yml")

// Load reads the YAML file at path, then applies environment overrides and
// defaults. An empty path means DefaultPath, which may be absent.
func Load(path string) (*Config, error) {
	conf := &Config{}

	if path == "" {
		if _, err := os.Stat(DefaultPath); errors.Is(err, fs.ErrNotExist) {
			if err = cleanenv.ReadEnv(conf); err != nil {
				return nil, fmt.Errorf("unable to read config from env: %w", err)
			}
			return conf, nil
		}
		path = DefaultPath
	}

	if err := cleanenv.ReadConfig(path, conf); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return conf, nil
}

// Addr returns the listen address.
func (that *HTTP) Addr() string {
	return net.JoinHostPort(that.Host, that.Port)
}
