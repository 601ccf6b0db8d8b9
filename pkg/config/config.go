// Package config loads curate settings from .curate.yaml and CURATE_*
// environment variables.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/curate/pkg/fetch"
)

const (
	// EnvPrefix prefixes every environment override, e.g. CURATE_API_KEY.
	EnvPrefix = "CURATE"
	// PathEnv names an extra directory to search for .curate.yaml.
	PathEnv = "CURATE_CONFIG_PATH"

	configName = ".curate" // .yaml is implicit
)

// Config is what the commands need from configuration.
type Config interface {
	APIBaseURL() string
	APIKey() string
	PageSize() int
	Timeout() time.Duration
	CachePath() string
	CacheEnabled() bool
	LogLevel() string
	Mock() bool
}

// Settings is the resolved configuration.
type Settings struct {
	BaseURL  string        `json:"baseURL"`
	Key      string        `json:"-"`
	Page     int           `json:"pageSize"`
	Wait     time.Duration `json:"timeout"`
	Cache    string        `json:"cachePath"`
	UseCache bool          `json:"cacheEnabled"`
	Level    string        `json:"logLevel"`
	UseMock  bool          `json:"mock"`
}

var _ Config = (*Settings)(nil)

func (s *Settings) APIBaseURL() string     { return s.BaseURL }
func (s *Settings) APIKey() string         { return s.Key }
func (s *Settings) PageSize() int          { return s.Page }
func (s *Settings) Timeout() time.Duration { return s.Wait }
func (s *Settings) CachePath() string      { return s.Cache }
func (s *Settings) CacheEnabled() bool     { return s.UseCache }
func (s *Settings) LogLevel() string       { return s.Level }

// Mock reports whether to serve the built-in catalog instead of the API. It
// is forced on when no base URL is configured.
func (s *Settings) Mock() bool { return s.UseMock || s.BaseURL == "" }

// LoadConfig reads .curate.yaml from $CURATE_CONFIG_PATH or the working
// directory, then applies CURATE_* overrides. A missing file is not an error.
func LoadConfig() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configName)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv(PathEnv); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.key", "")
	v.SetDefault("api.page_size", fetch.DefaultPageSize)
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("cache.path", "~/.curate/cache")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("mock", false)
}

func fromViper(v *viper.Viper) (*Settings, error) {
	cachePath, err := homedir.Expand(v.GetString("cache.path"))
	if err != nil {
		return nil, err
	}
	s := &Settings{
		BaseURL:  strings.TrimSuffix(v.GetString("api.base_url"), "/"),
		Key:      v.GetString("api.key"),
		Page:     v.GetInt("api.page_size"),
		Wait:     v.GetDuration("api.timeout"),
		Cache:    cachePath,
		UseCache: v.GetBool("cache.enabled"),
		Level:    strings.ToLower(v.GetString("log.level")),
		UseMock:  v.GetBool("mock"),
	}
	if s.Page <= 0 {
		s.Page = fetch.DefaultPageSize
	}
	if s.Wait <= 0 {
		s.Wait = 30 * time.Second
	}
	return s, nil
}
