package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "FORCEZONE"

// DebugFeedConfig holds websocket feed settings
type DebugFeedConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Addr    string `json:"addr" mapstructure:"addr"`
}

// MetricsConfig holds OpenTelemetry settings
type MetricsConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// PhysicsConfig holds chipmunk world settings
type PhysicsConfig struct {
	GravityX float64 `json:"gravityX" mapstructure:"gravityX"`
	GravityY float64 `json:"gravityY" mapstructure:"gravityY"`
	Actors   int     `json:"actors" mapstructure:"actors"`
}

// Config is the runner configuration.
type Config struct {
	LogLevel   string          `json:"logLevel" mapstructure:"logLevel"`
	TickRate   int             `json:"tickRate" mapstructure:"tickRate"`
	Duration   time.Duration   `json:"duration" mapstructure:"duration"`
	ZoneFiles  []string        `json:"zonesFile" mapstructure:"zonesFile"`
	WatchZones bool            `json:"watchZones" mapstructure:"watchZones"`
	Metrics    MetricsConfig   `json:"metrics" mapstructure:"metrics"`
	DebugFeed  DebugFeedConfig `json:"debugFeed" mapstructure:"debugFeed"`
	Physics    PhysicsConfig   `json:"physics" mapstructure:"physics"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("tickRate", 60)
	viper.SetDefault("duration", "0s")
	viper.SetDefault("zonesFile", []string{"zones.yaml"})
	viper.SetDefault("watchZones", true)

	viper.SetDefault("debugFeed.enabled", false)
	viper.SetDefault("debugFeed.addr", "localhost:8089")

	viper.SetDefault("metrics.enabled", false)

	viper.SetDefault("physics.gravityX", 0.0)
	viper.SetDefault("physics.gravityY", -9.81)
	viper.SetDefault("physics.actors", 3)
}

// Load sets defaults, reads configFile when it is not empty and enables
// FORCEZONE_ prefixed environment overrides, e.g. FORCEZONE_TICKRATE or
// FORCEZONE_DEBUGFEED_ADDR.
func Load(configFile string) error {
	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configFile == "" {
		return nil
	}
	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}
	return nil
}

// Get assembles the loaded values into a Config.
func Get() Config {
	return Config{
		LogLevel:   viper.GetString("logLevel"),
		TickRate:   viper.GetInt("tickRate"),
		Duration:   viper.GetDuration("duration"),
		ZoneFiles:  viper.GetStringSlice("zonesFile"),
		WatchZones: viper.GetBool("watchZones"),
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("metrics.enabled"),
		},
		DebugFeed: DebugFeedConfig{
			Enabled: viper.GetBool("debugFeed.enabled"),
			Addr:    viper.GetString("debugFeed.addr"),
		},
		Physics: PhysicsConfig{
			GravityX: viper.GetFloat64("physics.gravityX"),
			GravityY: viper.GetFloat64("physics.gravityY"),
			Actors:   viper.GetInt("physics.actors"),
		},
	}
}

// Validate rejects settings the runner cannot start with.
func (c Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("tickRate must be positive, got %d", c.TickRate)
	}
	if c.TickRate > int(time.Second) {
		return fmt.Errorf("tickRate must not exceed %d, got %d", int(time.Second), c.TickRate)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %s", c.Duration)
	}
	if len(c.ZoneFiles) == 0 {
		return fmt.Errorf("zonesFile is required")
	}
	if c.Physics.Actors < 0 {
		return fmt.Errorf("physics.actors must not be negative, got %d", c.Physics.Actors)
	}
	return nil
}
