/*
Package observability provides tools for monitoring calculator sessions.

It turns the session hooks into Prometheus metrics and structured log records,
and combines several hook sets so both can be attached to the same session.
*/
package observability
