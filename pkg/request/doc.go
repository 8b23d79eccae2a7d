// Package request is the shared POST primitive used by the file service
// facades. Post[T] sends an Options value through a Transport and decodes the
// reply into T; Client is the HTTP Transport, layered on the retrying helper
// in internal/httpx, and rejects replies whose envelope code is non-zero.
package request
