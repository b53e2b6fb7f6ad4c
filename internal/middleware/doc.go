// Package middleware provides HTTP middleware for the gildr API.
//
// # Available Middleware
//
//   - RequestID, Logger, Recovery: per-request id, structured access log, panic guard
//   - CORS, Compress: cross-origin headers and gzip responses
//   - Auth: bearer token validation; puts the player id in context
//   - GuildOwner: admits only owners of the {id} guild, answering 404 otherwise
//   - RateLimit: sliding window limit per client IP, used on login
//
// Middleware composes with Chain, outermost first:
//
//	handler = middleware.Chain(mux,
//	    middleware.RequestID,
//	    middleware.Logger(logger),
//	    middleware.Recovery,
//	)
//
// # Context Values
//
//   - GetRequestID(ctx): unique request identifier
//   - GetPlayerID(ctx): authenticated player id, or uuid.Nil
package middleware
