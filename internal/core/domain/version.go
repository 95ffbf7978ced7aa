package domain

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/hashicorp/go-version"
)

// coercePattern matches the first major[.minor[.patch]] group that is not part
// of a longer run of digits, the same way npm's semver.coerce does.
var coercePattern = regexp.MustCompile(`(?:^|[^\d])(\d{1,16})(?:\.(\d{1,16}))?(?:\.(\d{1,16}))?(?:$|[^\d])`)

// CoerceVersion extracts a comparable version from an arbitrary specifier such
// as "^1.2.3", "~2.1" or "v3". Pre-release and build metadata are dropped.
// It returns false when the specifier holds no numeric version.
func CoerceVersion(spec string) (*version.Version, bool) {
	m := coercePattern.FindStringSubmatch(spec)
	if m == nil {
		return nil, false
	}

	parts := [3]uint64{}
	for i, group := range m[1:4] {
		if group == "" {
			continue
		}
		n, err := strconv.ParseUint(group, 10, 64)
		if err != nil {
			return nil, false
		}
		parts[i] = n
	}

	v, err := version.NewSemver(fmt.Sprintf("%d.%d.%d", parts[0], parts[1], parts[2]))
	if err != nil {
		return nil, false
	}
	return v, true
}
