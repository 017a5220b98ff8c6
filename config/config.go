package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/meghashyamc/picsearch/engines"
	"github.com/meghashyamc/picsearch/transport"
	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"
const defaultTimeout = 30 * time.Second

type Config struct {
	config *viper.Viper
}

func Load(env string) (*Config, error) {

	if len(env) == 0 {
		if env = os.Getenv(keyEnv); len(env) == 0 {
			env = envLocal
		}
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func (c *Config) GetPort() string {
	return c.getString("PORT", "server.port", "8080")
}

func (c *Config) GetLogLevel() string {
	return c.getString("LOG_LEVEL", "log.level", "info")
}

// GetSauceNAOAPIKey returns an empty key when unset; SauceNAO then runs unauthenticated.
func (c *Config) GetSauceNAOAPIKey() string {
	return c.getString("SAUCENAO_API_KEY", "engines.saucenao.api_key", "")
}

func (c *Config) GetYandexCookie() string {
	return c.getString("YANDEX_COOKIE", "engines.yandex.cookie", "")
}

func (c *Config) GetProxy() string {
	return c.getString("SEARCH_PROXY", "search.proxy", "")
}

func (c *Config) GetUserAgent() string {
	return c.getString("USER_AGENT", "search.user_agent", transport.DefaultUserAgent)
}

func (c *Config) GetTimeout() time.Duration {
	timeout := c.config.GetDuration("SEARCH_TIMEOUT")
	if timeout <= 0 {
		timeout = c.config.GetDuration("search.timeout")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return timeout
}

func (c *Config) GetMinSimilarity() float64 {
	for _, key := range []string{"MIN_SIMILARITY", "search.min_similarity"} {
		if c.config.IsSet(key) {
			return c.config.GetFloat64(key)
		}
	}

	return engines.DefaultMinSimilarity
}

// GetRequestsPerSecond returns the per-engine outbound rate. Zero means unlimited.
func (c *Config) GetRequestsPerSecond() float64 {
	requestsPerSecond := c.config.GetFloat64("REQUESTS_PER_SECOND")
	if requestsPerSecond <= 0 {
		requestsPerSecond = c.config.GetFloat64("search.requests_per_second")
	}

	return max(requestsPerSecond, 0)
}

func (c *Config) GetDemoImagePath() string {
	return c.getString("DEMO_IMAGE_PATH", "demo.image_path", "")
}

func (c *Config) GetDemoImageURL() string {
	return c.getString("DEMO_IMAGE_URL", "demo.image_url", "")
}

func (c *Config) getString(envKey string, yamlKey string, fallback string) string {
	value := c.config.GetString(envKey)
	if len(value) == 0 {
		value = c.config.GetString(yamlKey)
	}
	if len(value) == 0 {
		value = fallback
	}

	return value
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
