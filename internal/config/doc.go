// Package config provides configuration management for the booking API.
//
// Configuration is loaded once at startup from environment variables using
// the env package. A .env file in the working directory is consulted for
// values the process environment does not set. MONGODB_URI, ENV and
// MONGODB_DB_NAME are required; everything else has a default.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
