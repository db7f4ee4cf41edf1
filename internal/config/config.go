package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig is the full process configuration, read from the environment
// (with .env support) at startup.
type AppConfig struct {
	BotToken    string `envconfig:"BOT_TOKEN" required:"true"`
	AdminChatID int64  `envconfig:"ADMIN_ID" required:"true"`

	ShopID    string `envconfig:"PLATEGA_SHOP_ID"`
	APISecret string `envconfig:"PLATEGA_API_KEY"`

	// CreateEndpoints are the gateway creation URLs in fallback priority
	// order; StatusBases are the prefixes probed by transaction lookup.
	CreateEndpoints []string      `envconfig:"PLATEGA_CREATE_ENDPOINTS" default:"https://platega.io/api/v1/payments,https://app.platega.io/api/v1/payments"`
	StatusBases     []string      `envconfig:"PLATEGA_STATUS_BASES" default:"https://platega.io/api/v1/transactions,https://app.platega.io/api/v1/transactions"`
	GatewayTimeout  time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"15s"`
	GatewayMock     bool          `envconfig:"GATEWAY_MOCK" default:"false"`

	Price       int64  `envconfig:"SUBSCRIPTION_PRICE" default:"169"`
	Currency    string `envconfig:"SUBSCRIPTION_CURRENCY" default:"RUB"`
	Description string `envconfig:"SUBSCRIPTION_DESCRIPTION" default:"Подписка Spotify - 1 месяц"`
	SuccessURL  string `envconfig:"SUCCESS_URL" default:"https://t.me/your_bot"`
	FailURL     string `envconfig:"FAIL_URL" default:"https://t.me/your_bot"`

	Port string `envconfig:"PORT" default:"5000"`
	// PublicBaseURL is the externally reachable root of the webhook server,
	// e.g. https://bot.example.com; the webhook path is appended to it.
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL"`

	DataFile  string `envconfig:"DATA_FILE" default:"data.json"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogToFile bool   `envconfig:"LOG_TO_FILE" default:"false"`
}

func Load() (*AppConfig, error) {
	// Missing .env is fine, the environment may be set by the host.
	_ = godotenv.Load()

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}
	return &cfg, nil
}

func (c *AppConfig) WebhookURL() string {
	if c.PublicBaseURL == "" {
		return ""
	}
	return c.PublicBaseURL + "/webhook/platega"
}
