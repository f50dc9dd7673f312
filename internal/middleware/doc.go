// Package middleware provides HTTP middleware for the gin router.
//
// CORS defaults allow any origin because the expected caller is a local
// desktop webview; tighten AllowOrigins when serving a remote frontend.
// RateLimit keeps a token bucket per client IP and evicts idle buckets;
// GlobalRateLimit shares one bucket across all clients.
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
