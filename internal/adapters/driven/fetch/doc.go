// Package fetch retrieves remote documents over HTTP for URL extraction.
// Requests are paced by a token-bucket limiter that also honours
// Retry-After on 429 responses.
package fetch
