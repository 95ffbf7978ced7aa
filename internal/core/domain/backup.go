package domain

import "io/fs"

// Backup is a byte-identical copy of a file kept while it is being regenerated.
type Backup struct {
	// Source is the file that was backed up.
	Source string
	// Path is the location of the copy.
	Path string
	// Mode is the permission of the source file.
	Mode fs.FileMode
	// Digest is the xxhash of the original content.
	Digest uint64
	// Size is the length of the original content.
	Size int64
}
