package docs

import "github.com/user/taskmanager-go/config"

// Configure publishes the configured API title and version in the served spec.
func Configure(cfg *config.APIConfig) {
	SwaggerInfo.Title = cfg.Title
	SwaggerInfo.Version = cfg.Version
}
