package main

import "github.com/spf13/viper"

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	Version     string `mapstructure:"VERSION"`

	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`

	DB struct {
		Host     string `mapstructure:"POSTGRES_HOST"`
		Port     string `mapstructure:"POSTGRES_PORT"`
		User     string `mapstructure:"POSTGRES_USER"`
		Password string `mapstructure:"POSTGRES_PASSWORD"`
		Name     string `mapstructure:"POSTGRES_DB"`
	} `mapstructure:",squash"`

	JWT struct {
		Secret string `mapstructure:"JWT_SECRET"`
	} `mapstructure:",squash"`

	Upload struct {
		Dir      string `mapstructure:"UPLOAD_DIR"`
		MaxBytes int64  `mapstructure:"UPLOAD_MAX_BYTES"`
	} `mapstructure:",squash"`

	Limiter struct {
		Enabled bool    `mapstructure:"LIMITER_ENABLED"`
		RPS     float64 `mapstructure:"LIMITER_RPS"`
		Burst   int     `mapstructure:"LIMITER_BURST"`
	} `mapstructure:",squash"`
}

func loadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Upload.Dir == "" {
		config.Upload.Dir = "uploads"
	}

	return &config, nil
}
