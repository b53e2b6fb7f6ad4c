// Package helpers provides test utility functions for the gildr API.
//
// # Tokens
//
//	tokens := helpers.NewTokens(t)
//	token := tokens.For(player.ID)
//	expired := tokens.Expired(player.ID)
//
// # Requests
//
//	req := helpers.NewRequest(t, http.MethodPost, "/v1/guilds").
//		WithBody(body).
//		WithAuth(tokens, player.ID).
//		Build()
//
// # Assertions
//
//	helpers.AssertProblemDetails(t, rec, http.StatusNotFound, model.ErrCodeNotFound)
//	helpers.AssertValidationError(t, rec, "name")
//	helpers.AssertRecordExists(t, tdb.GuildFiles, guild.ID)
package helpers
