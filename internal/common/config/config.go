package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	LogLevel     string

	// Gateway
	ConverterURL string

	// Converter service
	DBPath     string
	StorageDir string
	Pipeline   Pipeline
}

// Pipeline carries the conversion defaults. Query parameters can override
// the boolean switches per request.
type Pipeline struct {
	ScaleFactor       float64
	NormalizeAngles   bool
	AngleThresholdDeg float64
	MergeCollinear    bool
	MergeAngleDeg     float64
	MergeDistance     float64
	AreaDistance      float64
	BoundsPadding     float64
	WallWidth         float64
}

// Load reads the configuration from the environment and, when CONFIG_FILE
// is set, from that file. defaultPort applies when neither sets PORT.
func Load(defaultPort string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetDefault("PORT", defaultPort)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Port:         v.GetString("PORT"),
		Environment:  v.GetString("ENV"),
		ReadTimeout:  v.GetInt("READ_TIMEOUT"),
		WriteTimeout: v.GetInt("WRITE_TIMEOUT"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		ConverterURL: v.GetString("CONVERTER_URL"),
		DBPath:       v.GetString("DB_PATH"),
		StorageDir:   v.GetString("STORAGE_DIR"),
		Pipeline: Pipeline{
			ScaleFactor:       v.GetFloat64("SCALE_FACTOR"),
			NormalizeAngles:   v.GetBool("NORMALIZE_ANGLES"),
			AngleThresholdDeg: v.GetFloat64("ANGLE_THRESHOLD_DEG"),
			MergeCollinear:    v.GetBool("MERGE_COLLINEAR"),
			MergeAngleDeg:     v.GetFloat64("MERGE_ANGLE_DEG"),
			MergeDistance:     v.GetFloat64("MERGE_DISTANCE"),
			AreaDistance:      v.GetFloat64("AREA_DISTANCE"),
			BoundsPadding:     v.GetFloat64("BOUNDS_PADDING"),
			WallWidth:         v.GetFloat64("WALL_WIDTH"),
		},
	}

	if cfg.Pipeline.ScaleFactor <= 0 {
		return nil, fmt.Errorf("SCALE_FACTOR must be positive, got %v", cfg.Pipeline.ScaleFactor)
	}
	return cfg, nil
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("READ_TIMEOUT", 10)
	v.SetDefault("WRITE_TIMEOUT", 10)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CONFIG_FILE", "")

	v.SetDefault("CONVERTER_URL", "http://localhost:3001")

	v.SetDefault("DB_PATH", "./data/plans.db")
	v.SetDefault("STORAGE_DIR", "./data/plans")

	v.SetDefault("SCALE_FACTOR", 200.0)
	v.SetDefault("NORMALIZE_ANGLES", false)
	v.SetDefault("ANGLE_THRESHOLD_DEG", 5.0)
	v.SetDefault("MERGE_COLLINEAR", false)
	v.SetDefault("MERGE_ANGLE_DEG", 2.0)
	v.SetDefault("MERGE_DISTANCE", 50.0)
	v.SetDefault("AREA_DISTANCE", 500.0)
	v.SetDefault("BOUNDS_PADDING", 200.0)
	v.SetDefault("WALL_WIDTH", 22.0)
}
