package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/tanq16/ytbulk/internal/utils"
)

// Environment keys. Real environment variables win over the .env file.
const (
	EnvYtdlpPath   = "YTBULK_YTDLP"
	EnvFFmpegPath  = "YTBULK_FFMPEG"
	EnvWorkers     = "YTBULK_WORKERS"
	EnvJobTimeout  = "YTBULK_TIMEOUT"
	EnvSingleDir   = "YTBULK_SINGLE_DIR"
	EnvBulkDir     = "YTBULK_BULK_DIR"
	EnvAudioFormat = "YTBULK_AUDIO_FORMAT"
	EnvCacheDir    = "YTBULK_CACHE_DIR"
)

const (
	DefaultYtdlp   = "yt-dlp"
	DefaultEnvFile = ".env"
	appName        = "ytbulk"
)

type Config struct {
	YtdlpPath   string        `yaml:"ytdlp"`
	FFmpegPath  string        `yaml:"ffmpeg"`
	Workers     int           `yaml:"workers"`
	JobTimeout  time.Duration `yaml:"timeout"`
	SingleDir   string        `yaml:"single_dir"`
	BulkDir     string        `yaml:"bulk_dir"`
	AudioFormat string        `yaml:"audio_format"`
	CacheDir    string        `yaml:"cache_dir"`
}

// Default resolves the home directory once; ~/Downloads for single items and
// ~/Downloads/tmp for bulk runs.
func Default() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	downloads := filepath.Join(home, "Downloads")
	return &Config{
		YtdlpPath:   DefaultYtdlp,
		SingleDir:   downloads,
		BulkDir:     filepath.Join(downloads, "tmp"),
		AudioFormat: utils.DefaultAudioFormat,
		CacheDir:    filepath.Join(home, utils.CacheDir),
	}, nil
}

// DefaultPath is $XDG_CONFIG_HOME/ytbulk/config.yaml (or the OS equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config.yaml")
}

// Load layers defaults, the YAML file at path, the env file and the process
// environment. It does not validate: callers apply their own overrides first
// and then call Validate. A missing file at the default path is not an error; a missing
// file that was asked for explicitly is.
func Load(path, envFile string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.mergeFile(path, explicit); err != nil {
			return nil, err
		}
	}
	env, err := readEnv(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.mergeEnv(env); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		log.Debug().Str("op", "config/load").Str("path", path).Msg("No config file, using defaults")
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	log.Debug().Str("op", "config/load").Str("path", path).Msg("Config file loaded")
	return nil
}

// readEnv returns the env file entries overlaid with the real environment.
func readEnv(envFile string) (map[string]string, error) {
	values := make(map[string]string)
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			fileValues, err := godotenv.Read(envFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
			values = fileValues
		}
	}
	for _, key := range []string{EnvYtdlpPath, EnvFFmpegPath, EnvWorkers, EnvJobTimeout, EnvSingleDir, EnvBulkDir, EnvAudioFormat, EnvCacheDir} {
		if v, ok := os.LookupEnv(key); ok {
			values[key] = v
		}
	}
	return values, nil
}

func (c *Config) mergeEnv(env map[string]string) error {
	if v := env[EnvYtdlpPath]; v != "" {
		c.YtdlpPath = v
	}
	if v := env[EnvFFmpegPath]; v != "" {
		c.FFmpegPath = v
	}
	if v := env[EnvSingleDir]; v != "" {
		c.SingleDir = v
	}
	if v := env[EnvBulkDir]; v != "" {
		c.BulkDir = v
	}
	if v := env[EnvAudioFormat]; v != "" {
		c.AudioFormat = v
	}
	if v := env[EnvCacheDir]; v != "" {
		c.CacheDir = v
	}
	if v := env[EnvWorkers]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	if v := env[EnvJobTimeout]; v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvJobTimeout, err)
		}
		c.JobTimeout = d
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.JobTimeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %s", c.JobTimeout)
	}
	if c.AudioFormat == "" {
		return fmt.Errorf("audio format must not be empty")
	}
	if c.YtdlpPath == "" {
		return fmt.Errorf("yt-dlp path must not be empty")
	}
	return nil
}
