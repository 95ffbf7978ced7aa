// Package domain holds the core types and merge rules of lockstep.
package domain

const (
	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "lockstep.yaml"

	// DefaultManifestName is the file name of the package manifest.
	DefaultManifestName = "package.json"

	// DefaultLockfileName is the file name of the lockfile derived from the manifest.
	DefaultLockfileName = "yarn.lock"

	// BackupSuffix is appended to the lockfile path while a regeneration is attempted.
	BackupSuffix = ".backup"

	// GitAttributesFileName is the name of the attributes file routing paths to merge drivers.
	GitAttributesFileName = ".gitattributes"

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// BackupPath returns the sibling path used to back up source.
func BackupPath(source string) string {
	return source + BackupSuffix
}
