// Package logging provides a simple leveled logging interface for the
// photo gallery server.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is read from the DEBUG and LOG_LEVEL environment variables
// and may be overridden at startup from the config file via SetLevel.
package logging
