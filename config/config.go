package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config contém as configurações da aplicação
type Config struct {
	// Ambiente e logs
	Env      string `envconfig:"ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Servidor HTTP
	ServerAddr            string        `envconfig:"SERVER_ADDR" default:":8080"`
	ServerReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	ServerWriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	ServerShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	EnableCORS            bool          `envconfig:"ENABLE_CORS" default:"true"`

	// Gemini
	GeminiAPIKey       string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel        string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	GeminiBaseURL      string        `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com"`
	GeminiTimeout      time.Duration `envconfig:"GEMINI_TIMEOUT" default:"60s"`
	GeminiRateLimitRPM int           `envconfig:"GEMINI_RATE_LIMIT_RPM" default:"15"`

	// Análise
	FetchTimeout     time.Duration `envconfig:"FETCH_TIMEOUT" default:"10s"`
	AnalysisTimeout  time.Duration `envconfig:"ANALYSIS_TIMEOUT" default:"90s"`
	PriceHistoryDays int           `envconfig:"PRICE_HISTORY_DAYS" default:"30"`

	// Telegram (opcional: sem token o bot não sobe)
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `envconfig:"TELEGRAM_CHAT_ID"`
}

// Load carrega as configurações das variáveis de ambiente
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("erro ao ler variáveis de ambiente: %w", err)
	}

	// Mesma chave usada pelo SDK do Google
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GOOGLE_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate confere os valores obrigatórios e os limites
func (c *Config) Validate() error {
	var problems []string

	if c.GeminiAPIKey == "" {
		problems = append(problems, "GEMINI_API_KEY não configurado")
	}
	if c.GeminiRateLimitRPM < 0 {
		problems = append(problems, "GEMINI_RATE_LIMIT_RPM não pode ser negativo")
	}
	if c.PriceHistoryDays < 0 {
		problems = append(problems, "PRICE_HISTORY_DAYS não pode ser negativo")
	}
	if c.FetchTimeout <= 0 {
		problems = append(problems, "FETCH_TIMEOUT deve ser positivo")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuração inválida: %s", strings.Join(problems, "; "))
	}
	return nil
}

// IsProduction indica se o ambiente é de produção
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// TelegramEnabled indica se o bot do Telegram deve ser iniciado
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != ""
}
