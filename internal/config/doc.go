// Package config resolves the combiner settings.
//
// Precedence, lowest first: built-in defaults, a .env file, environment
// variables, command-line flags.
package config
