// Package version holds the client version and the semantic comparison used
// to gate syncing on a minimum server version.
package version

import (
	"strconv"
	"strings"
)

// MinServerVersion is the oldest sync server this client can talk to.
const MinServerVersion = "0.0.3"

// parse splits a version into its major.minor.patch triple. Missing or
// malformed components parse as 0; a leading "v" is tolerated.
func parse(v string) (major, minor, patch int) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	parts := strings.SplitN(v, ".", 3)
	nums := [3]int{}
	for i := 0; i < len(parts) && i < 3; i++ {
		// Drop any prerelease/build suffix on the last component.
		p := parts[i]
		if j := strings.IndexAny(p, "-+"); j >= 0 {
			p = p[:j]
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			n = 0
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2]
}

// IsAtLeast reports whether version is >= minimum, comparing major, then
// minor, then patch.
func IsAtLeast(version, minimum string) bool {
	a1, a2, a3 := parse(version)
	b1, b2, b3 := parse(minimum)
	if a1 != b1 {
		return a1 > b1
	}
	if a2 != b2 {
		return a2 > b2
	}
	return a3 >= b3
}
