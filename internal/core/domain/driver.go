package domain

import (
	"path/filepath"
	"strconv"

	"go.trai.ch/zerr"
)

// DriverArgs holds the arguments Git passes to a merge driver.
type DriverArgs struct {
	// Ancestor is the path of the common ancestor version (%O).
	Ancestor string
	// Current is the path of the current ("ours") version (%A); the driver writes its result here.
	Current string
	// Incoming is the path of the other ("theirs") version (%B).
	Incoming string
	// MarkerSize is the conflict-marker size hint (%L). It is accepted but unused.
	MarkerSize int
	// Pathname is the path of the merged file relative to the worktree root (%P), if known.
	Pathname string
}

// ParseDriverArgs validates the four positional arguments of a merge driver invocation.
func ParseDriverArgs(args []string) (DriverArgs, error) {
	if len(args) != 4 {
		return DriverArgs{}, zerr.With(ErrInvalidArguments, "count", len(args))
	}
	for i, arg := range args[:3] {
		if arg == "" {
			return DriverArgs{}, zerr.With(ErrInvalidArguments, "empty_argument", i+1)
		}
	}
	size, err := strconv.Atoi(args[3])
	if err != nil || size < 0 {
		return DriverArgs{}, zerr.With(ErrInvalidArguments, "marker_size", args[3])
	}
	return DriverArgs{
		Ancestor:   args[0],
		Current:    args[1],
		Incoming:   args[2],
		MarkerSize: size,
	}, nil
}

// WorkDir returns the directory the merged file lives in.
// Git runs drivers from the worktree root and hands them temporary files,
// so the pathname wins over the directory of the current path when present.
func (a DriverArgs) WorkDir() string {
	if a.Pathname != "" {
		return filepath.Dir(a.Pathname)
	}
	return filepath.Dir(a.Current)
}

// LockfileOutcome describes how the lockfile driver finished.
type LockfileOutcome int

const (
	// OutcomeDeferred means the manifest still had conflict markers and the lockfile was left as-is.
	OutcomeDeferred LockfileOutcome = iota
	// OutcomeRegenerated means the package manager rebuilt the lockfile.
	OutcomeRegenerated
	// OutcomeFailed means regeneration failed and the lockfile was restored from its backup.
	OutcomeFailed
)

// String returns the outcome name.
func (o LockfileOutcome) String() string {
	switch o {
	case OutcomeDeferred:
		return "deferred"
	case OutcomeRegenerated:
		return "regenerated"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DriverSpec describes a merge driver registered in the repository configuration.
type DriverSpec struct {
	// Name is the driver identifier used in merge.<name> and merge=<name>.
	Name string
	// Description is the human-readable merge.<name>.name value.
	Description string
	// Command is the merge.<name>.driver command line.
	Command string
	// Pattern is the .gitattributes pattern routed to the driver.
	Pattern string
}

// AttributeLine returns the .gitattributes line routing the pattern to the driver.
func (d DriverSpec) AttributeLine() string {
	return d.Pattern + " merge=" + d.Name
}

// InstallResult reports what the install command changed.
type InstallResult struct {
	// Root is the worktree root of the repository.
	Root string
	// AttributesPath is the path of the .gitattributes file.
	AttributesPath string
	// AddedAttributes lists the attribute lines that were appended.
	AddedAttributes []string
}
