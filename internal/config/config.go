package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Sources SourcesConfig `yaml:"sources" mapstructure:"sources"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Viewer  ViewerConfig  `yaml:"viewer" mapstructure:"viewer"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// SourcesConfig holds the upstream data source URLs.
type SourcesConfig struct {
	BoundariesURL string `yaml:"boundaries_url" mapstructure:"boundaries_url"`
	CensusURL     string `yaml:"census_url" mapstructure:"census_url"`
}

// FetchConfig configures the HTTP fetcher.
type FetchConfig struct {
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// OutputConfig holds the artifact output paths.
type OutputConfig struct {
	GeoJSONPath string `yaml:"geojson_path" mapstructure:"geojson_path"`
	CSVPath     string `yaml:"csv_path" mapstructure:"csv_path"`
}

// ServerConfig configures the viewer HTTP server.
type ServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// ViewerConfig holds the sidebar control bounds and defaults.
// All values are purely visual; they never affect the prepared data.
type ViewerConfig struct {
	ElevationScaleMin     int     `yaml:"elevation_scale_min" mapstructure:"elevation_scale_min"`
	ElevationScaleMax     int     `yaml:"elevation_scale_max" mapstructure:"elevation_scale_max"`
	ElevationScaleDefault int     `yaml:"elevation_scale_default" mapstructure:"elevation_scale_default"`
	ElevationScaleStep    int     `yaml:"elevation_scale_step" mapstructure:"elevation_scale_step"`
	PitchMin              int     `yaml:"pitch_min" mapstructure:"pitch_min"`
	PitchMax              int     `yaml:"pitch_max" mapstructure:"pitch_max"`
	PitchDefault          int     `yaml:"pitch_default" mapstructure:"pitch_default"`
	PitchStep             int     `yaml:"pitch_step" mapstructure:"pitch_step"`
	OpacityMin            float64 `yaml:"opacity_min" mapstructure:"opacity_min"`
	OpacityMax            float64 `yaml:"opacity_max" mapstructure:"opacity_max"`
	OpacityDefault        float64 `yaml:"opacity_default" mapstructure:"opacity_default"`
	OpacityStep           float64 `yaml:"opacity_step" mapstructure:"opacity_step"`
	MapStyleDefault       string  `yaml:"map_style_default" mapstructure:"map_style_default"`
	WireframeDefault      bool    `yaml:"wireframe_default" mapstructure:"wireframe_default"`
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
	v.SetEnvPrefix("COUNTYMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sources.boundaries_url", "https://raw.githubusercontent.com/plotly/datasets/master/geojson-counties-fips.json")
	v.SetDefault("sources.census_url", "https://api.census.gov/data/2024/acs/acs5?get=NAME,B01003_001E&for=county:*&in=state:*")
	v.SetDefault("fetch.user_agent", "countymap/1.0")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("output.geojson_path", "data/us_counties_population.geojson")
	v.SetDefault("output.csv_path", "data/us_counties_population.csv")
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("viewer.elevation_scale_min", 1000)
	v.SetDefault("viewer.elevation_scale_max", 80000)
	v.SetDefault("viewer.elevation_scale_default", 20000)
	v.SetDefault("viewer.elevation_scale_step", 1000)
	v.SetDefault("viewer.pitch_min", 0)
	v.SetDefault("viewer.pitch_max", 60)
	v.SetDefault("viewer.pitch_default", 45)
	v.SetDefault("viewer.pitch_step", 5)
	v.SetDefault("viewer.opacity_min", 0.1)
	v.SetDefault("viewer.opacity_max", 1.0)
	v.SetDefault("viewer.opacity_default", 0.85)
	v.SetDefault("viewer.opacity_step", 0.05)
	v.SetDefault("viewer.map_style_default", "dark")
	v.SetDefault("viewer.wireframe_default", true)
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

	return &cfg, nil
}

// Validate checks the fields required by the given mode ("prepare" or
// "serve"). Collected problems are reported together.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "prepare":
		if c.Sources.BoundariesURL == "" {
			problems = append(problems, "sources.boundaries_url is required")
		}
		if c.Sources.CensusURL == "" {
			problems = append(problems, "sources.census_url is required")
		}
		if c.Output.GeoJSONPath == "" {
			problems = append(problems, "output.geojson_path is required")
		}
		if c.Output.CSVPath == "" {
			problems = append(problems, "output.csv_path is required")
		}
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0 and <= 65535")
		}
		if c.Output.GeoJSONPath == "" {
			problems = append(problems, "output.geojson_path is required")
		}
		if c.Viewer.ElevationScaleMin >= c.Viewer.ElevationScaleMax {
			problems = append(problems, "viewer.elevation_scale_min must be < viewer.elevation_scale_max")
		}
		if c.Viewer.OpacityMin >= c.Viewer.OpacityMax {
			problems = append(problems, "viewer.opacity_min must be < viewer.opacity_max")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
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
