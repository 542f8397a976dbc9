package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Default dataset locations.
const (
	DefaultCountiesURL  = "https://raw.githubusercontent.com/no-stack-dub-sack/testable-projects-fcc/master/src/data/choropleth_map/counties.json"
	DefaultEducationURL = "https://raw.githubusercontent.com/no-stack-dub-sack/testable-projects-fcc/master/src/data/choropleth_map/for_user_education.json"
)

// Config holds the full application configuration.
type Config struct {
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Map     MapConfig     `yaml:"map" mapstructure:"map"`
	Legend  LegendConfig  `yaml:"legend" mapstructure:"legend"`
	Palette PaletteConfig `yaml:"palette" mapstructure:"palette"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DataConfig names the two input datasets.
type DataConfig struct {
	CountiesURL     string `yaml:"counties_url" mapstructure:"counties_url"`
	EducationURL    string `yaml:"education_url" mapstructure:"education_url"`
	EducationFormat string `yaml:"education_format" mapstructure:"education_format"`
	CountiesObject  string `yaml:"counties_object" mapstructure:"counties_object"`
	StatesObject    string `yaml:"states_object" mapstructure:"states_object"`
}

// FetchConfig configures dataset downloads.
type FetchConfig struct {
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst       int     `yaml:"burst" mapstructure:"burst"`
}

// Timeout returns TimeoutSecs as a duration.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSecs) * time.Second
}

// MapConfig configures the SVG canvas.
type MapConfig struct {
	Width     float64 `yaml:"width" mapstructure:"width"`
	Height    float64 `yaml:"height" mapstructure:"height"`
	Title     string  `yaml:"title" mapstructure:"title"`
	Fit       bool    `yaml:"fit" mapstructure:"fit"`
	FitFlipY  bool    `yaml:"fit_flip_y" mapstructure:"fit_flip_y"`
	Precision int     `yaml:"precision" mapstructure:"precision"`
}

// LegendConfig configures the color key.
type LegendConfig struct {
	X0           float64 `yaml:"x0" mapstructure:"x0"`
	X1           float64 `yaml:"x1" mapstructure:"x1"`
	OffsetY      float64 `yaml:"offset_y" mapstructure:"offset_y"`
	SwatchHeight float64 `yaml:"swatch_height" mapstructure:"swatch_height"`
	TickSize     float64 `yaml:"tick_size" mapstructure:"tick_size"`
	Caption      string  `yaml:"caption" mapstructure:"caption"`
}

// PaletteConfig selects the color scheme. An empty File uses the built-in
// nine-step blues.
type PaletteConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. When path is empty an
// optional config.yaml in the working directory is read; otherwise path must
// exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("CHOROPLETH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.counties_url", DefaultCountiesURL)
	v.SetDefault("data.education_url", DefaultEducationURL)
	v.SetDefault("data.education_format", "auto")
	v.SetDefault("data.counties_object", "counties")
	v.SetDefault("data.states_object", "states")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.user_agent", "choropleth-cli/1.0")
	v.SetDefault("fetch.rate_per_sec", 5)
	v.SetDefault("fetch.burst", 2)
	v.SetDefault("map.width", 960)
	v.SetDefault("map.height", 600)
	v.SetDefault("map.title", "United States Educational Attainment")
	v.SetDefault("map.fit", false)
	v.SetDefault("map.fit_flip_y", true)
	v.SetDefault("map.precision", 3)
	v.SetDefault("legend.x0", 600)
	v.SetDefault("legend.x1", 860)
	v.SetDefault("legend.offset_y", 40)
	v.SetDefault("legend.swatch_height", 8)
	v.SetDefault("legend.tick_size", 13)
	v.SetDefault("legend.caption", "Percentage of adults with bachelor's degree or higher")
	v.SetDefault("palette.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the values the renderer depends on.
func (c *Config) Validate() error {
	var problems []string
	if c.Data.CountiesURL == "" {
		problems = append(problems, "data.counties_url is required")
	}
	if c.Data.EducationURL == "" {
		problems = append(problems, "data.education_url is required")
	}
	if c.Data.CountiesObject == "" {
		problems = append(problems, "data.counties_object is required")
	}
	if c.Fetch.TimeoutSecs <= 0 {
		problems = append(problems, "fetch.timeout_secs must be > 0")
	}
	if c.Fetch.Burst < 0 {
		problems = append(problems, "fetch.burst must be >= 0")
	}
	if c.Fetch.RatePerSec < 0 {
		problems = append(problems, "fetch.rate_per_sec must be >= 0")
	}
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		problems = append(problems, "map.width and map.height must be > 0")
	}
	if c.Legend.X1 < c.Legend.X0 {
		problems = append(problems, "legend.x1 must be >= legend.x0")
	}
	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
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
