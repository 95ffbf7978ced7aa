package domain

import "strings"

const (
	// ManifestDriverName identifies the manifest merge driver in git configuration.
	ManifestDriverName = "package-json-driver"

	// LockfileDriverName identifies the lockfile merge driver in git configuration.
	LockfileDriverName = "yarn-lock-driver"
)

// Drivers returns the two merge drivers for the configured file names, invoking
// the given executable.
func Drivers(executable string, cfg *Config) []DriverSpec {
	exe := ShellQuote(executable)
	return []DriverSpec{
		{
			Name:        ManifestDriverName,
			Description: "lockstep manifest merge driver",
			Command:     exe + " merge-manifest %O %A %B %L --path %P",
			Pattern:     cfg.ManifestName,
		},
		{
			Name:        LockfileDriverName,
			Description: "lockstep lockfile merge driver",
			Command:     exe + " merge-lockfile %O %A %B %L --path %P",
			Pattern:     cfg.LockfileName,
		},
	}
}

// ShellQuote quotes s for the POSIX shell git runs merge drivers with.
// Words made only of safe characters are returned unchanged.
func ShellQuote(s string) string {
	if s != "" && strings.Trim(s, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_./:@+=") == "" {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
