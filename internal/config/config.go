package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

type AppConfig struct {
	Env                Environment
	LogLevel           string
	ServerPort         string
	RawBodyLog         bool
	HttpTimeoutSeconds int
}

type RelayConfig struct {
	Endpoint string
	APIKey   string
}

type AgentsConfig struct {
	MathToken              string
	ReasoningMaxIterations int
}

type SummaryConfig struct {
	Sentences int
	MaxLength int
}

type Config struct {
	App     AppConfig
	Relay   RelayConfig
	Agents  AgentsConfig
	Summary SummaryConfig
}

// flagKeys maps command-line flags onto configuration keys. Flags win over
// the environment only when set explicitly.
var flagKeys = map[string]string{
	"port":      "APP_SERVER_PORT",
	"log-level": "APP_LOG_LEVEL",
	"env":       "APP_ENV",
}

func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.BindEnv("RELAY_ENDPOINT", "RELAY_ENDPOINT", "MCP_ENDPOINT"); err != nil {
		return nil, fmt.Errorf("failed to bind relay endpoint: %w", err)
	}
	if err := v.BindEnv("RELAY_API_KEY", "RELAY_API_KEY", "MCP_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind relay api key: %w", err)
	}

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %q: %w", name, err)
			}
		}
	}

	env := parseEnvironment(v.GetString("APP_ENV"))

	return &Config{
		App: AppConfig{
			Env:                env,
			LogLevel:           getLogLevel(v, env),
			ServerPort:         v.GetString("APP_SERVER_PORT"),
			RawBodyLog:         v.GetBool("APP_RAW_BODY_LOG"),
			HttpTimeoutSeconds: v.GetInt("APP_HTTP_TIMEOUT_SECONDS"),
		},
		Relay: RelayConfig{
			Endpoint: strings.TrimRight(v.GetString("RELAY_ENDPOINT"), "/"),
			APIKey:   v.GetString("RELAY_API_KEY"),
		},
		Agents: AgentsConfig{
			MathToken:              v.GetString("MATH_TOKEN"),
			ReasoningMaxIterations: v.GetInt("REASONING_MAX_ITERATIONS"),
		},
		Summary: SummaryConfig{
			Sentences: v.GetInt("SUMMARY_SENTENCES"),
			MaxLength: v.GetInt("SUMMARY_MAX_LENGTH"),
		},
	}, nil
}

// Default returns the configuration used when no environment is present.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Env:                Development,
			LogLevel:           "debug",
			ServerPort:         "8080",
			HttpTimeoutSeconds: 30,
		},
		Agents: AgentsConfig{
			MathToken:              "MATH_SECRET",
			ReasoningMaxIterations: 5,
		},
		Summary: SummaryConfig{
			Sentences: 2,
			MaxLength: 10,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("APP_ENV", string(d.App.Env))
	v.SetDefault("APP_SERVER_PORT", d.App.ServerPort)
	v.SetDefault("APP_RAW_BODY_LOG", false)
	v.SetDefault("APP_HTTP_TIMEOUT_SECONDS", d.App.HttpTimeoutSeconds)
	v.SetDefault("MATH_TOKEN", d.Agents.MathToken)
	v.SetDefault("REASONING_MAX_ITERATIONS", d.Agents.ReasoningMaxIterations)
	v.SetDefault("SUMMARY_SENTENCES", d.Summary.Sentences)
	v.SetDefault("SUMMARY_MAX_LENGTH", d.Summary.MaxLength)
}

func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.App.ServerPort)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("APP_SERVER_PORT must be a port number, got %q", c.App.ServerPort)
	}
	if c.App.HttpTimeoutSeconds <= 0 {
		return fmt.Errorf("APP_HTTP_TIMEOUT_SECONDS must be positive")
	}
	if (c.Relay.Endpoint == "") != (c.Relay.APIKey == "") {
		return fmt.Errorf("RELAY_ENDPOINT and RELAY_API_KEY must be set together")
	}
	if c.Agents.MathToken == "" {
		return fmt.Errorf("MATH_TOKEN must not be empty")
	}
	if c.Agents.ReasoningMaxIterations < 1 {
		return fmt.Errorf("REASONING_MAX_ITERATIONS must be at least 1")
	}
	if c.Summary.Sentences < 1 {
		return fmt.Errorf("SUMMARY_SENTENCES must be at least 1")
	}
	if c.Summary.MaxLength < 1 {
		return fmt.Errorf("SUMMARY_MAX_LENGTH must be at least 1")
	}
	return nil
}

func (c *Config) RelayEnabled() bool {
	return c.Relay.Endpoint != "" && c.Relay.APIKey != ""
}

func parseEnvironment(envStr string) Environment {
	env := Environment(strings.ToLower(envStr))

	switch env {
	case Development, Production:
		return env
	default:
		return Development
	}
}

func getLogLevel(v *viper.Viper, env Environment) string {
	if level := v.GetString("APP_LOG_LEVEL"); level != "" {
		return level
	}

	if env == Production {
		return "info"
	}

	return "debug"
}
