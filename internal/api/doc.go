// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

/*
Package api serves the recommendation engine over HTTP using the Chi router.

# Endpoints

	GET  /api/v1/health                      liveness, engine and hub state
	GET  /api/v1/status                      dataset, table and cache status
	GET  /api/v1/recommendations/{userID}    ?mode=user|item&k=&similarity=
	GET  /api/v1/similar/items/{itemID}      ?k=
	GET  /api/v1/similar/users/{userID}      ?k=&similarity=
	POST /api/v1/rebuild                     start a rebuild (202, or 409 if running)
	GET  /api/v1/ws                          WebSocket rebuild progress stream
	GET  /metrics                            Prometheus metrics

# Responses

Every JSON response uses models.APIResponse:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "query_time_ms": 3, "cached": true}}
	{"status": "error", "data": null, "metadata": {...}, "error": {"code": "NOT_FOUND", "message": "..."}}

Engine errors map to status codes in respondEngineError:

	recommend.ErrUnknownEntity      404 NOT_FOUND
	recommend.ErrNotLoaded          503 NOT_READY
	recommend.ErrRebuildInProgress  409 REBUILD_IN_PROGRESS
	recommend.ErrInvalidParam       400 VALIDATION_ERROR
	context.DeadlineExceeded        504 TIMEOUT

# Middleware

All routes get a request ID (X-Request-ID, propagated into logs), panic
recovery and CORS. API routes are instrumented with Prometheus, logged and
gzip-compressed when the client accepts it. Query endpoints are rate
limited per client IP with httprate.
*/
package api
