// Package utils exposes reusable helpers consumed by the CLI and its services.
//
// It houses ConfigurationLoader and LoggerFactory, which integrate Viper,
// environment variables, and zap logging, plus FlushingWriter for
// line-by-line progress output shared by concurrent workers.
package utils
