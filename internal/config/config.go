package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Study   StudyConfig   `mapstructure:"study"`
	Stats   StatsConfig   `mapstructure:"stats"`
	Outputs OutputsConfig `mapstructure:"outputs"`
}

type StorageConfig struct {
	DatabaseFile string `mapstructure:"database_file" validate:"required"`
}

type StudyConfig struct {
	NewCardLimit int `mapstructure:"new_card_limit" validate:"gte=1"`
}

type StatsConfig struct {
	DailyWindowDays    int `mapstructure:"daily_window_days" validate:"gte=1,lte=90"`
	ForecastWindowDays int `mapstructure:"forecast_window_days" validate:"gte=1,lte=90"`
}

type OutputsConfig struct {
	ExportDirectory string `mapstructure:"export_directory"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/mnemo")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("storage.database_file", "mnemo.db")
	v.SetDefault("study.new_card_limit", 10)
	v.SetDefault("stats.daily_window_days", 14)
	v.SetDefault("stats.forecast_window_days", 7)
	v.SetDefault("outputs.export_directory", "exports")

	// The database path may be set without a config file.
	if err := v.BindEnv("storage.database_file", "MNEMO_DB"); err != nil {
		return nil, fmt.Errorf("failed to bind MNEMO_DB environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			messages := make([]string, 0, len(validationErrors))
			for _, fieldError := range validationErrors {
				messages = append(messages, fieldError.Translate(loader.translator))
			}
			return nil, fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
		}
		return nil, fmt.Errorf("failed to validate configuration: %w", err)
	}

	cfg.Storage.DatabaseFile = filepath.Clean(cfg.Storage.DatabaseFile)
	return &cfg, nil
}
