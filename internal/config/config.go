// Package config loads per-service settings from the environment.
package config

import "github.com/kelseyhightower/envconfig"

// Catalog configures the catalog service.
type Catalog struct {
	Port        string `envconfig:"PORT" default:"8081"`
	PostgresURL string `envconfig:"POSTGRES_URL" required:"true"`
}

// Identity configures the identity service. It needs the catalog service to
// resolve store references.
type Identity struct {
	Port              string `envconfig:"PORT" default:"8082"`
	PostgresURL       string `envconfig:"POSTGRES_URL" required:"true"`
	CatalogServiceURL string `envconfig:"CATALOG_SERVICE_URL" required:"true"`
}

// Orders configures the orders service. Kafka brokers are optional; without
// them orders are accepted but no placement events are published.
type Orders struct {
	Port               string   `envconfig:"PORT" default:"8083"`
	PostgresURL        string   `envconfig:"POSTGRES_URL" required:"true"`
	KafkaBrokers       []string `envconfig:"KAFKA_BROKERS"`
	CatalogServiceURL  string   `envconfig:"CATALOG_SERVICE_URL" required:"true"`
	IdentityServiceURL string   `envconfig:"IDENTITY_SERVICE_URL" required:"true"`
}

// Worker configures the fulfillment worker.
type Worker struct {
	KafkaBrokers           []string `envconfig:"KAFKA_BROKERS" required:"true"`
	CatalogServiceURL      string   `envconfig:"CATALOG_SERVICE_URL" required:"true"`
	OrdersServiceURL       string   `envconfig:"ORDERS_SERVICE_URL" required:"true"`
	NotificationServiceURL string   `envconfig:"NOTIFICATION_SERVICE_URL" required:"true"`
}

// Notifications configures the notification service.
type Notifications struct {
	Port string `envconfig:"PORT" default:"8084"`
}

// Gateway configures the public API gateway.
type Gateway struct {
	Port               string `envconfig:"PORT" default:"8080"`
	CatalogServiceURL  string `envconfig:"CATALOG_SERVICE_URL" required:"true"`
	IdentityServiceURL string `envconfig:"IDENTITY_SERVICE_URL" required:"true"`
	OrdersServiceURL   string `envconfig:"ORDERS_SERVICE_URL" required:"true"`
}

// Load populates cfg from the environment.
func Load(cfg any) error {
	return envconfig.Process("", cfg)
}
