// Package config loads settings from a YAML file, environment variables and
// command line flags. It defines the backend origin, the CORS toggle, the
// bundler externals and how the resolved configuration is published.
package config
