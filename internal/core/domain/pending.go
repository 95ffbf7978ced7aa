package domain

import (
	"bytes"

	"go.trai.ch/zerr"
)

// Snapshots holds the three versions of one file in a running merge.
// A nil slice means the file does not exist on that side.
type Snapshots struct {
	Ancestor []byte
	Current  []byte
	Incoming []byte
}

// PendingManifest returns the manifest content the merge will record. A change
// made on one side only is taken as it is, the way Git resolves it without
// calling a driver; changes on both sides go through MergeManifests. A nil
// result means the merge deletes the manifest.
func PendingManifest(s *Snapshots, policy Policy) ([]byte, error) {
	switch {
	case bytes.Equal(s.Current, s.Incoming):
		return s.Current, nil
	case bytes.Equal(s.Ancestor, s.Current):
		return s.Incoming, nil
	case bytes.Equal(s.Ancestor, s.Incoming):
		return s.Current, nil
	case s.Current == nil || s.Incoming == nil:
		return nil, zerr.With(ErrManifestConflict, "reason", "deleted on one side and modified on the other")
	}

	ancestor := NewManifest()
	if s.Ancestor != nil {
		var err error
		if ancestor, err = ParseManifest(s.Ancestor); err != nil {
			return nil, zerr.With(err, "side", "ancestor")
		}
	}
	current, err := ParseManifest(s.Current)
	if err != nil {
		return nil, zerr.With(err, "side", "current")
	}
	incoming, err := ParseManifest(s.Incoming)
	if err != nil {
		return nil, zerr.With(err, "side", "incoming")
	}

	merged, _, err := MergeManifests(ancestor, current, incoming, policy)
	if err != nil {
		return nil, err
	}
	return merged.Marshal()
}
