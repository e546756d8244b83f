// Package config reads the server configuration from the environment and builds
// the database connections and OpenTelemetry providers from it.
//
// Variables are read with cleanenv; an optional .env file is loaded with godotenv first,
// variables already present in the environment always win.
//
// The pool builders support PostgreSQL through pgx.Pool, sql.DB (lib/pq) and sqlx.DB,
// and SQLite through mattn/go-sqlite3.
package config
