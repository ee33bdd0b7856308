// Package observability builds the process logger and request-scoped
// child loggers.
package observability
