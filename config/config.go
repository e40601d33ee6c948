package config

import (
	"encoding/json"
	"log"
	"os"
	"strings"
)

type Configuration struct {
	ApiPort string `json:"api_port"`
	LogPath string `json:"log_path"`

	Database string `json:"database"` // "sqlite3" or "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	Webhook struct {
		DeviceID     string `json:"device_id"`     // provisioned gateway device; other devices are rejected
		GroupTrigger string `json:"group_trigger"` // command word that activates the bot inside groups
	} `json:"webhook"`

	Gateway struct {
		BaseURL string `json:"base_url"`
		Token   string `json:"token"`
	} `json:"gateway"`

	OpenAI struct {
		Model string `json:"model"`
	} `json:"openai"`

	AdminToken string `json:"admin_token"`
}

func Get(path string) Configuration {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var c Configuration
	if err := json.Unmarshal(b, &c); err != nil {
		log.Fatal(err)
	}

	// env wins over the file (containers inject secrets via env)
	c.Webhook.DeviceID = getenv("WEBHOOK_DEVICE_ID", c.Webhook.DeviceID)
	c.Webhook.GroupTrigger = getenv("WEBHOOK_GROUP_TRIGGER", c.Webhook.GroupTrigger)
	c.Gateway.BaseURL = getenv("GATEWAY_BASE_URL", c.Gateway.BaseURL)
	c.Gateway.Token = getenv("GATEWAY_TOKEN", c.Gateway.Token)
	c.AdminToken = getenv("ADMIN_TOKEN", c.AdminToken)
	c.OpenAI.Model = getenv("OPENAI_MODEL", c.OpenAI.Model)

	// defaults
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/server.log"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.Webhook.GroupTrigger == "" {
		c.Webhook.GroupTrigger = "/review"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}

	return c
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
