package es

import "github.com/elastic/go-elasticsearch/v8"

type ClientConfig struct {
	Addresses []string
	Username  string
	Password  string
}

// newClient builds a low-level client. Retries are disabled: a rank eval
// call is sent exactly once. Basic auth is sent whenever a username is set,
// an empty password included.
func newClient(config ClientConfig) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses:    config.Addresses,
		DisableRetry: true,
	}

	if config.Username != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)

	return client, err
}
