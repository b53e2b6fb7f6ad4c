// Package database provides file-backed record storage for gildr.
//
// Each record type lives in its own directory, one JSON file per record named
// <id>.<type>.json. A FileStore keeps an in-memory index of the ids it knows
// about, built by scanning the directory when the store is opened and kept up
// to date by Put and Delete.
//
// # Error Handling
//
// Standard errors are defined for common failure cases:
//   - ErrNotFound: Record file does not exist
//   - ErrDecode: Record file exists but is not a valid record
//   - ErrStorage: Filesystem failure
//
// Load reports these distinctly. Get, which implements Store, collapses all of
// them into a false return after logging anything other than ErrNotFound.
//
// # Usage Example
//
//	guilds, err := database.NewFileStore[model.Guild](database.FileStoreConfig{
//	    Dir:   filepath.Join(dataDir, "guilds"),
//	    Kind:  model.KindGuild,
//	    Codec: codec.New(),
//	})
//	if err != nil {
//	    return err // fatal: directory could not be created
//	}
//	g, ok := guilds.Get(ctx, id)
package database
