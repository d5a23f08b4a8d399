// Package cli provides command-line interface setup and configuration
// for doctrans. It handles flag parsing, command creation, configuration
// loading and API key resolution using cobra, viper and gotenv.
package cli
