// Package repository implements the domain data access layer for gildr.
//
// Repositories compose record stores (usually cache.Store wrapping a
// database.FileStore) and add entity-specific operations: guild membership
// mutation, name lookups and profile resolution.
//
// # Membership Mutation
//
// AddMember, RemovePlayer and UpdateRoster are read-modify-write sequences on
// a whole guild record. They run under a per-guild mutex, re-validate the
// result, reject any change that would leave the guild without an owner, and
// invalidate the guild's cache entry after the write.
//
// # Profiles
//
// Profiles are computed on every call and never cached. Resolving a player's
// guilds scans all guilds, which is fine at the expected guild counts.
//
// # Example Usage
//
//	repo := NewGuildRepository(guilds, players)
//	guild, err := repo.AddMember(ctx, playerID, guildID)
//	if err != nil {
//	    if errors.Is(err, ErrGuildNotFound) {
//	        // Handle not found
//	    }
//	    return err
//	}
package repository
