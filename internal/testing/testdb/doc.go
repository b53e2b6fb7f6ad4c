// Package testdb provides isolated file-backed stores for unit and e2e tests.
//
// Stores are real: records are written as files under t.TempDir(), so tests
// exercise the same codec, index and cache paths as the server.
package testdb
