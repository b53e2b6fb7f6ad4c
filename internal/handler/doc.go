// Package handler provides HTTP request handlers for the gildr API.
//
// Each handler struct wraps one service and serves one feature area
// (authentication, players, guilds, invites). NewRouter mounts them on a
// standard library ServeMux using method patterns.
//
// # Handler Pattern
//
//   - Constructor function (NewXxxHandler) accepts the service it serves
//   - Methods handle specific HTTP endpoints
//   - Path ids are parsed as UUIDs; a malformed id is a 400
//   - Service errors go through MapServiceError to RFC 9457 Problem Details
//
// # Response Format
//
// Collections are wrapped in a named field ({"guilds": [...]},
// {"players": [...]}, {"invites": [...]}); single records and profiles are
// written bare.
//
// # Authentication
//
// Every /v1 route except POST /v1/players sits behind middleware.Auth.
// Owner-only guild routes additionally pass through middleware.GuildOwner,
// and the guild service checks ownership again.
package handler
