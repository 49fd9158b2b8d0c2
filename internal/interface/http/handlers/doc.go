// # Health Checks
//
// Checks are registered by name and run in parallel with a per-check timeout:
//
//	checker := handlers.NewCompositeHealthChecker("v1.0.0")
//	checker.AddCheck("postgres", handlers.NewPingCheck(conn))
//	checker.AddOptionalCheck("redis", handlers.NewPingCheck(cache))
//
// A failing optional check degrades the status message but keeps the
// service ready.
//
// # Middleware
//
//	limiter := handlers.NewKeyedRateLimiter(10, 20)
//	h := handlers.Chain(
//	    handlers.SecurityHeadersMiddleware,
//	    handlers.RequestSizeLimitMiddleware(1<<20),
//	    limiter.Middleware(clientIP),
//	)(mux)
package handlers
