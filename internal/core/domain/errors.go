package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrInputRead is returned when one of the driver's input files cannot be read.
	ErrInputRead = zerr.New("failed to read input file")

	// ErrManifestParse is returned when a manifest snapshot is not a valid manifest document.
	ErrManifestParse = zerr.New("failed to parse manifest")

	// ErrManifestMarshal is returned when the merged manifest cannot be serialized.
	ErrManifestMarshal = zerr.New("failed to serialize merged manifest")

	// ErrScopedVersionConflict is returned when a scoped package has versions that cannot be compared.
	ErrScopedVersionConflict = zerr.New("scoped package versions cannot be compared")

	// ErrManifestConflict is returned when a pending manifest merge cannot produce a clean result.
	ErrManifestConflict = zerr.New("manifest merge leaves conflicts")

	// ErrNoMergeInProgress is returned when the commits of the running merge cannot be identified.
	ErrNoMergeInProgress = zerr.New("no merge in progress")

	// ErrOutputWrite is returned when the merge result cannot be written to the current path.
	ErrOutputWrite = zerr.New("failed to write merge result")

	// ErrBackupFailed is returned when the lockfile cannot be copied before regeneration.
	ErrBackupFailed = zerr.New("failed to back up lockfile")

	// ErrRestoreFailed is returned when the lockfile cannot be restored from its backup.
	ErrRestoreFailed = zerr.New("failed to restore lockfile from backup")

	// ErrBackupDigestMismatch is returned when restored content differs from the backed-up content.
	ErrBackupDigestMismatch = zerr.New("restored lockfile does not match backup digest")

	// ErrRegenerationFailed is returned when the package manager could not regenerate the lockfile.
	ErrRegenerationFailed = zerr.New("failed to regenerate lockfile")

	// ErrEmptyInstallCommand is returned when no installer command could be built.
	ErrEmptyInstallCommand = zerr.New("installer command is empty")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when the configuration holds an unusable value.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrUnknownPackageManager is returned when no install command is known for a package manager.
	ErrUnknownPackageManager = zerr.New("unknown package manager, set installer.command explicitly")

	// ErrInvalidArguments is returned when a driver is invoked with the wrong positional arguments.
	ErrInvalidArguments = zerr.New("expected arguments: <ancestor> <current> <other> <marker-size>")

	// ErrNotARepository is returned when install runs outside a Git repository.
	ErrNotARepository = zerr.New("not a git repository")

	// ErrGitConfigFailed is returned when the repository configuration cannot be updated.
	ErrGitConfigFailed = zerr.New("failed to update git configuration")

	// ErrAttributesWriteFailed is returned when .gitattributes cannot be updated.
	ErrAttributesWriteFailed = zerr.New("failed to update .gitattributes")
)

// errorKinds lists the sentinels reported by Kind, most specific first.
var errorKinds = []error{
	ErrInvalidArguments,
	ErrInputRead,
	ErrManifestParse,
	ErrManifestMarshal,
	ErrScopedVersionConflict,
	ErrManifestConflict,
	ErrNoMergeInProgress,
	ErrOutputWrite,
	ErrBackupFailed,
	ErrRestoreFailed,
	ErrBackupDigestMismatch,
	ErrRegenerationFailed,
	ErrEmptyInstallCommand,
	ErrConfigReadFailed,
	ErrConfigParseFailed,
	ErrInvalidConfig,
	ErrUnknownPackageManager,
	ErrNotARepository,
	ErrGitConfigFailed,
	ErrAttributesWriteFailed,
}

// Kind returns the domain sentinel err matches, or nil when err carries none.
// It checks both the error chain and the wrapped message, since adapters wrap
// causes with the sentinel's text.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	for current := err; current != nil; current = errors.Unwrap(current) {
		msg, ok := current.(interface{ Message() string })
		if !ok {
			continue
		}
		for _, kind := range errorKinds {
			if msg.Message() == kind.Error() {
				return kind
			}
		}
	}
	return nil
}
