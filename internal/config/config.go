// This file defines the configuration structure for the bot.
package config

import (
	// use Viper for loading the config.yml file.
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all settings for the bot process. It maps directly to the
// structure of config.yml and is immutable for the process lifetime.
type Config struct {
	JavbusAPIURL string `mapstructure:"javbus_api_url"`
	ForwardURL   string `mapstructure:"forward_url"`
	ImageProxy   string `mapstructure:"image_proxy"`
	AccessToken  string `mapstructure:"access_token"`
	ActorMatch   string `mapstructure:"actor_match"`  // "substring" or "exact"
	HTTPTimeout  int    `mapstructure:"http_timeout"` // seconds, per outbound API call

	Bot struct {
		WebhookPort int    `mapstructure:"webhook_port"`
		WSURL       string `mapstructure:"ws_url"`  // forward-WebSocket event endpoint, optional
		APIURL      string `mapstructure:"api_url"` // quick-reply HTTP API of the bot platform
		UserID      string `mapstructure:"user_id"` // uin used in forward nodes
		Nickname    string `mapstructure:"nickname"`
	} `mapstructure:"bot"`

	Translate struct {
		Enabled bool   `mapstructure:"enabled"`
		AppID   string `mapstructure:"app_id"`
		Secret  string `mapstructure:"secret"`
		To      string `mapstructure:"to"`
	} `mapstructure:"translate"`
}

// Load reads configuration from a file named "config.yml" in the current
// directory and unmarshals it into a Config struct. Environment variables
// with a "JAVBOT_" prefix override file values, e.g. JAVBOT_JAVBUS_API_URL.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("JAVBOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values. Every key needs a registered default, otherwise
	// Unmarshal will not see values provided only via environment variables.
	viper.SetDefault("javbus_api_url", "")
	viper.SetDefault("forward_url", "")
	viper.SetDefault("image_proxy", "")
	viper.SetDefault("access_token", "")
	viper.SetDefault("actor_match", "substring")
	viper.SetDefault("http_timeout", 15)
	viper.SetDefault("bot.webhook_port", 8470)
	viper.SetDefault("bot.ws_url", "")
	viper.SetDefault("bot.api_url", "")
	viper.SetDefault("bot.user_id", "10086")
	viper.SetDefault("bot.nickname", "CloudCrane Bot")
	viper.SetDefault("translate.enabled", false)
	viper.SetDefault("translate.app_id", "")
	viper.SetDefault("translate.secret", "")
	viper.SetDefault("translate.to", "jp")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
		} else {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.JavbusAPIURL == "" {
		return nil, errors.New("javbus_api_url is required")
	}
	return &config, nil
}
