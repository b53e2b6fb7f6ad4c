// Package jwt provides bearer token utilities for the gildr API.
//
// Tokens are HS256-signed and carry the player id as the subject claim.
// When no expiration is configured tokens never expire.
//
// # Token Generation
//
//	service, err := jwt.NewService(jwt.Config{
//	    Secret: []byte(secret),
//	    Issuer: "gildr",
//	})
//	token, err := service.SignPlayer(playerID)
//
// # Token Validation
//
//	claims, err := service.Validate(tokenString)
//	if err != nil {
//	    // Invalid or expired token
//	}
//	playerID := claims.PlayerID()
package jwt
