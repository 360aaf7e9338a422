package redis

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config represents Redis connection options
type Config struct {
	Host     string
	Port     int
	Password string
	Database int
	// KeyPrefix namespaces every key built with Client.Key
	KeyPrefix    string
	MinIdleConns int
	MaxIdleConns int
	MaxActive    int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

// NewRedisConfig creates a new Redis configuration with default values
func NewRedisConfig() *Config {
	return &Config{
		Host:         "localhost",
		Port:         6379,
		MinIdleConns: 2,
		MaxIdleConns: 10,
		MaxActive:    50,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	}
}

func (c *Config) WithHost(host string) *Config {
	c.Host = host
	return c
}

func (c *Config) WithPort(port int) *Config {
	c.Port = port
	return c
}

func (c *Config) WithPassword(password string) *Config {
	c.Password = password
	return c
}

func (c *Config) WithDatabase(database int) *Config {
	c.Database = database
	return c
}

func (c *Config) WithKeyPrefix(prefix string) *Config {
	c.KeyPrefix = prefix
	return c
}

// Addr returns host:port
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate reports every invalid option at once
func (c *Config) Validate() error {
	var errs []error
	if c.Host == "" {
		errs = append(errs, errors.New("host cannot be empty"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d, must be between 1 and 65535", c.Port))
	}
	if c.Database < 0 || c.Database > 15 {
		errs = append(errs, fmt.Errorf("invalid database: %d, must be between 0 and 15", c.Database))
	}
	if c.MinIdleConns < 0 || c.MaxIdleConns < 0 || c.MaxActive < 0 {
		errs = append(errs, errors.New("connection pool sizes must be non-negative"))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("invalid max retries: %d, must be non-negative", c.MaxRetries))
	}
	return errors.Join(errs...)
}
