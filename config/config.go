package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Providers struct {
		Weather struct {
			Endpoint    string `mapstructure:"endpoint"`
			GeoEndpoint string `mapstructure:"geoEndpoint"`
			APIKey      string `mapstructure:"-"`
		} `mapstructure:"weather"`
		Gemini struct {
			Model  string `mapstructure:"model"`
			APIKey string `mapstructure:"-"`
		} `mapstructure:"gemini"`
	} `mapstructure:"providers"`
	App struct {
		DefaultCity  string        `mapstructure:"defaultCity"`
		Latitude     float64       `mapstructure:"latitude"`
		Longitude    float64       `mapstructure:"longitude"`
		StoreBackend string        `mapstructure:"storeBackend"`
		Debounce     time.Duration `mapstructure:"debounce"`
	} `mapstructure:"app"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
}

// InitConfig loads the YAML config (file-based when present, embedded
// fallback otherwise) and overlays the provider secrets from the
// environment. Secrets never live in the YAML; components receive them only
// through this struct, never by reading the environment themselves.
func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	config.Providers.Weather.APIKey = os.Getenv("OPENWEATHER_API_KEY")
	config.Providers.Gemini.APIKey = os.Getenv("GOOGLE_GEMINI_API_KEY")

	return config, nil
}
