package database

import (
	"fmt"

	"go-todo/pkg/resource"
)

// Config holds postgres connection settings
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Schema   string
	SSLMode  string
}

// ConfigFromProperties reads app.db.* from application.yml
func ConfigFromProperties() Config {
	return Config{
		Host:     resource.GetString("app.db.host"),
		Port:     resource.GetString("app.db.port"),
		Username: resource.GetString("app.db.username"),
		Password: resource.GetString("app.db.password"),
		Database: resource.GetString("app.db.database"),
		Schema:   resource.GetString("app.db.schema"),
		SSLMode:  resource.GetString("app.db.ssl-mode"),
	}
}

// DSN builds a libpq keyword/value connection string
func (c Config) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, sslMode)
	if c.Schema != "" {
		dsn += " search_path=" + c.Schema
	}
	return dsn
}
