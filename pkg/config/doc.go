// Package config provides application configuration management from
// environment variables and an optional YAML file.
//
// # Overview
//
// Configuration is built from defaults, then an optional YAML file
// named by AXLE_CONFIG_FILE, then AXLE_* environment variables, and
// validated before use.
//
// # Configuration Structure
//
// Server settings:
//
//	AXLE_HOST="0.0.0.0"
//	AXLE_PORT="8081"
//	AXLE_HEALTH_PORT="9090"
//	AXLE_READ_TIMEOUT="15s"
//	AXLE_WRITE_TIMEOUT="15s"
//
// Storage settings:
//
//	AXLE_STORAGE_TYPE="postgres"  # memory, sqlite, postgres
//	AXLE_SQLITE_PATH="/var/axle/registry.db"
//	AXLE_POSTGRES_URL="postgres://localhost/axle"
//	AXLE_POSTGRES_MAX_CONNS="20"
//
// Cache settings:
//
//	AXLE_CACHE_ENABLED="true"
//	AXLE_CACHE_SIZE="1024"
//	AXLE_REDIS_URL="redis://localhost:6379"
//
// Observability settings:
//
//	AXLE_LOG_LEVEL="info"  # debug, info, warn, error
//	AXLE_METRICS_ENABLED="true"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//	fmt.Printf("Storage: %s\n", cfg.Storage.Type)
//
// # Related Packages
//
//   - pkg/storage: uses storage configuration
//   - pkg/observability: uses observability configuration
package config
