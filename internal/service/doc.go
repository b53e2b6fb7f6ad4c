// Package service implements the business rules of the gildr API.
//
// Services sit between HTTP handlers and the repositories. They own
// password hashing, token issuance, owner checks and the translation of
// repository errors into the sentinels handlers map to responses.
//
// # Service Pattern
//
//   - Constructor function (NewXxxService) accepts its repository dependencies
//   - Each service declares the repository interface it consumes
//   - Errors are returned as sentinel errors from errors.go, or as
//     model.ValidationError for invalid input
//
// # Example Usage
//
//	guilds := service.NewGuildService(guildRepo, playerRepo)
//	guild, err := guilds.Create(ctx, principal, model.GuildRegistration{
//	    Name:        "Knights",
//	    Description: "Round table",
//	})
package service
