// Package logger builds the process-wide structured logger. Records are
// written as text during development and as JSON in production, each tagged
// with the environment they came from.
package logger
