// Package model defines the domain records and wire types for the gildr API.
//
// Three record kinds are persisted: Player, Guild and Invite. Each carries a
// uuid id, a type discriminator matching its file suffix, and a creation
// timestamp in unix milliseconds that is serialized as a JSON string.
//
// Records are plain values. Guild mutators such as WithMember and WithRoster
// return modified copies so a cached value is never changed in place.
//
// # Validation
//
// Constructors and Validate methods return a *ValidationError listing every
// failing field. It matches ErrValidation via errors.Is.
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go.
package model
