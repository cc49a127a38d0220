/*
Package observability provides tools for monitoring the libretto engine.

It turns the engine's lifecycle hooks into Prometheus metrics and structured
log lines, and can chain several hook sets into one.
*/
package observability
