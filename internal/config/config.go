package config

import "github.com/caarlos0/env/v11"

type Config struct {
	APIBaseURL    string  `env:"API_BASE_URL"   envDefault:"https://hack-or-snooze-v3.herokuapp.com"`
	DBPath        string  `env:"DB_PATH"        envDefault:"hackline.sqlite"`
	TelegramToken string  `env:"TELEGRAM_TOKEN"`
	AllowedUsers  []int64 `env:"ALLOWED_USERS"`
	OpenAIAPIKey  string  `env:"OPENAI_API_KEY"`
}

func LoadConfig() Config {
	var cfg Config
	env.Must(cfg, env.Parse(&cfg))
	return cfg
}
