// Package dbfile inspects and resets the emulator's persistent data files.
//
// The emulator stores table data in SQLite database files inside the
// configured dbPath directory. CheckIntegrity runs a quick integrity check
// against those files before a launch reuses them, catching corruption from
// a previous unclean shutdown up front instead of as opaque emulator
// failures. RemoveDatabases deletes the files so a relaunch starts fresh.
package dbfile
