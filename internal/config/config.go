package config

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Places PlacesConfig `yaml:"places" mapstructure:"places"`
	Match  MatchConfig  `yaml:"match" mapstructure:"match"`
	Verify VerifyConfig `yaml:"verify" mapstructure:"verify"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// PlacesConfig holds place directory API settings.
type PlacesConfig struct {
	APIKey        string   `yaml:"api_key" mapstructure:"api_key"`
	BaseURL       string   `yaml:"base_url" mapstructure:"base_url"`
	IncludedTypes []string `yaml:"included_types" mapstructure:"included_types"`
	MaxResults    int      `yaml:"max_results" mapstructure:"max_results"`
	TimeoutSecs   int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// MatchConfig holds the tiered acceptance thresholds and score weights.
// These are empirically tuned constants, kept as configuration.
type MatchConfig struct {
	VeryCloseM     float64 `yaml:"very_close_m" mapstructure:"very_close_m"`
	CloseM         float64 `yaml:"close_m" mapstructure:"close_m"`
	FarM           float64 `yaml:"far_m" mapstructure:"far_m"`
	LowSimilarity  float64 `yaml:"low_similarity" mapstructure:"low_similarity"`
	HighSimilarity float64 `yaml:"high_similarity" mapstructure:"high_similarity"`
	DistanceWeight float64 `yaml:"distance_weight" mapstructure:"distance_weight"`
	NameWeight     float64 `yaml:"name_weight" mapstructure:"name_weight"`
}

// VerifyConfig holds the run loop tunables.
type VerifyConfig struct {
	RadiiM            []int `yaml:"radii_m" mapstructure:"radii_m"`
	TextBiasRadiusM   int   `yaml:"text_bias_radius_m" mapstructure:"text_bias_radius_m"`
	RequestDelayMs    int   `yaml:"request_delay_ms" mapstructure:"request_delay_ms"`
	CooldownSecs      int   `yaml:"cooldown_secs" mapstructure:"cooldown_secs"`
	CheckpointEvery   int   `yaml:"checkpoint_every" mapstructure:"checkpoint_every"`
	MaxImages         int   `yaml:"max_images" mapstructure:"max_images"`
	PhotoWidthPx      int   `yaml:"photo_width_px" mapstructure:"photo_width_px"`
	MinDescriptionLen int   `yaml:"min_description_len" mapstructure:"min_description_len"`
}

// CacheConfig configures the local lookup cache.
type CacheConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`
	TTLHours int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PLACELINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("places.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("places.max_results", 10)
	v.SetDefault("places.timeout_secs", 15)
	v.SetDefault("match.very_close_m", 50.0)
	v.SetDefault("match.close_m", 100.0)
	v.SetDefault("match.far_m", 500.0)
	v.SetDefault("match.low_similarity", 0.3)
	v.SetDefault("match.high_similarity", 0.6)
	v.SetDefault("match.distance_weight", 0.7)
	v.SetDefault("match.name_weight", 0.3)
	v.SetDefault("verify.radii_m", []int{500, 1000, 2000})
	v.SetDefault("verify.text_bias_radius_m", 2000)
	v.SetDefault("verify.request_delay_ms", 250)
	v.SetDefault("verify.cooldown_secs", 30)
	v.SetDefault("verify.checkpoint_every", 25)
	v.SetDefault("verify.max_images", 10)
	v.SetDefault("verify.photo_width_px", 800)
	v.SetDefault("verify.min_description_len", 40)
	v.SetDefault("cache.path", "")
	v.SetDefault("cache.ttl_hours", 720)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations that break the matching policy's
// assumptions.
func (c *Config) Validate() error {
	m := c.Match
	if !(m.VeryCloseM > 0 && m.VeryCloseM < m.CloseM && m.CloseM < m.FarM) {
		return eris.Errorf("config: distance tiers must be increasing, got %.0f/%.0f/%.0f",
			m.VeryCloseM, m.CloseM, m.FarM)
	}
	if m.LowSimilarity < 0 || m.HighSimilarity > 1 || m.LowSimilarity > m.HighSimilarity {
		return eris.Errorf("config: similarity thresholds must satisfy 0 <= low <= high <= 1, got %.2f/%.2f",
			m.LowSimilarity, m.HighSimilarity)
	}
	if m.DistanceWeight < 0 || m.NameWeight < 0 || m.DistanceWeight+m.NameWeight <= 0 {
		return eris.New("config: score weights must be non-negative and not both zero")
	}
	if len(c.Verify.RadiiM) == 0 {
		return eris.New("config: at least one search radius is required")
	}
	if !sort.IntsAreSorted(c.Verify.RadiiM) {
		return eris.Errorf("config: search radii must be ascending, got %v", c.Verify.RadiiM)
	}
	if c.Verify.CheckpointEvery <= 0 {
		return eris.New("config: checkpoint_every must be positive")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
