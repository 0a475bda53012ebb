// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type requestIDKey struct{}

// GenerateRequestID returns a random UUID.
func GenerateRequestID() string {
	return uuid.NewString()
}

// ContextWithRequestID stores id in ctx together with a logger that
// carries it as request_id, so Ctx needs no per-call work.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	logger := Ctx(ctx).With().Str("request_id", id).Logger()
	return logger.WithContext(context.WithValue(ctx, requestIDKey{}, id))
}

// RequestIDFromContext returns the request ID in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Ctx returns the logger attached to ctx, or the global logger.
//
//	logging.Ctx(r.Context()).Info().Msg("rebuild requested")
func Ctx(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	l := Logger()
	return &l
}
