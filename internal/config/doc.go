// Package config manages application configuration for the gildr server.
//
// Configuration is read from environment variables into tagged structs and
// checked with Validate, which reports every failure at once:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS, static assets)
//   - DataConfig: record directory
//   - CacheConfig: heap, disk and remote cache tiers
//   - JWTConfig: bearer token signing
//   - AuthConfig: bcrypt cost and login rate limit
//   - FeatureConfig: optional route groups
//   - TelemetryConfig: OpenTelemetry export
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT        - HTTP server port (default: 8080)
//	DATA_DIR           - record directory (default: ./data)
//	CACHE_HEAP_ENTRIES - heap entries per record type (default: 1000)
//	CACHE_REMOTE       - "", memcache or redis
//	JWT_SECRET         - HMAC signing secret (required in production)
//	INVITES_ENABLED    - wire the invite routes (default: false)
package config
