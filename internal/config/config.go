package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Paystack struct {
		SecretKey string `yaml:"secret_key"`
	} `yaml:"paystack"`
	SMS struct {
		APIKey   string `yaml:"api_key"`
		SenderID string `yaml:"sender_id"`
	} `yaml:"sms"`
	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	} `yaml:"smtp"`
	S3 struct {
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Bucket    string `yaml:"bucket"`
		Region    string `yaml:"region"`
		Endpoint  string `yaml:"endpoint"`
	} `yaml:"s3"`
	Firebase struct {
		CredentialsFile string `yaml:"credentials_file"`
	} `yaml:"firebase"`
	Escrow struct {
		FeePercent int64 `yaml:"fee_percent"`
	} `yaml:"escrow"`
	Acceptance struct {
		WindowMinutes int `yaml:"window_minutes"`
	} `yaml:"acceptance"`
	Admin struct {
		UserID int64 `yaml:"user_id"`
	} `yaml:"admin"`
}

func LoadConfig() Config {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		log.Fatalf("Failed to unmarshal config data: %v", err)
	}

	if cfg.Escrow.FeePercent == 0 {
		cfg.Escrow.FeePercent = 5
	}
	if cfg.Acceptance.WindowMinutes == 0 {
		cfg.Acceptance.WindowMinutes = 60
	}
	return cfg
}
