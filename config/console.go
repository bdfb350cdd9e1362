package config

import (
	"net"
	"strings"
	"time"
)

// ConsoleConfig controls the server-rendered admin console.
type ConsoleConfig struct {
	// Enabled mounts the console routes next to the API.
	Enabled bool `env:"ENABLED" envDefault:"true"`

	// APIURL is the base URL of the REST API the console talks to.
	// Empty means the API served by this process.
	APIURL string `env:"API_URL" envDefault:""`

	// APITimeout bounds each console to API request.
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
}

// Sanitize normalizes the API URL and timeout.
func (c *ConsoleConfig) Sanitize() {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APITimeout <= 0 {
		c.APITimeout = 10 * time.Second
	}
}

// APIBaseURL returns APIURL, or a loopback URL for the local listener address.
func (c *ConsoleConfig) APIBaseURL(listenAddr string) string {
	if c.APIURL != "" {
		return c.APIURL
	}
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return "http://127.0.0.1:8080"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// DashConfig controls dashboard tile caching.
type DashConfig struct {
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"30s"`
}

// Sanitize keeps the cache TTL non-negative. Zero disables caching.
func (d *DashConfig) Sanitize() {
	if d.CacheTTL < 0 {
		d.CacheTTL = 0
	}
}
