// Package config loads component configuration from environment variables.
//
// It combines github.com/joho/godotenv, which reads optional .env files, with
// github.com/caarlos0/env/v11, which fills structs from env and envDefault
// tags. Every config type in this module (flash backends, cookies, sessions,
// settings, the HTTP server, the logger) is loaded this way:
//
//	var cfg flash.RedisConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Parsed configs are cached per type, and per prefix for LoadWithPrefix, so
// repeated loads are cheap and consistent. ResetCache clears the cache in
// tests.
package config
