package domain

import "path/filepath"

const (
	// ScribeDirName is the name of the internal workspace directory.
	ScribeDirName = ".scribe"

	// StoreDirName is the name of the file-per-entry draft store directory.
	StoreDirName = "store"

	// DatabaseFileName is the name of the SQLite draft database.
	DatabaseFileName = "drafts.db"

	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "scribe.yaml"

	// ConfigEnvVar overrides the configuration file path.
	ConfigEnvVar = "SCRIBE_CONFIG"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultScribePath returns the default root directory for scribe state.
func DefaultScribePath() string {
	return ScribeDirName
}

// StorePath returns the file store directory under the given state root.
func StorePath(root string) string {
	return filepath.Join(root, StoreDirName)
}

// DatabasePath returns the SQLite database path under the given state root.
func DatabasePath(root string) string {
	return filepath.Join(root, DatabaseFileName)
}
