package distributor

import (
	"strconv"
	"strings"
)

// compareSemver compares two "MAJOR.MINOR.PATCH" version strings, returning
// -1, 0, or 1. Pre-release/build metadata suffixes are ignored; a
// non-numeric or short component compares as 0, so a malformed version
// never panics, it just compares equal-ish to whatever it can parse.
//
// No third-party semver library appears anywhere in the retrieval pack
// (teacher or siblings), and the comparison this spec needs is a plain
// three-component ordering — not the full SemVer 2.0 precedence rules
// (pre-release tags, build metadata) a dependency like Masterminds/semver
// would buy. Hand-rolling this one comparator is the narrower footprint.
func compareSemver(a, b string) int {
	pa := parseSemver(a)
	pb := parseSemver(b)
	for i := 0; i < 3; i++ {
		if pa[i] != pb[i] {
			if pa[i] < pb[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func parseSemver(v string) [3]int {
	v = strings.SplitN(v, "-", 2)[0] // drop pre-release suffix
	v = strings.SplitN(v, "+", 2)[0] // drop build metadata
	parts := strings.SplitN(v, ".", 3)

	var out [3]int
	for i := 0; i < 3 && i < len(parts); i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			continue
		}
		out[i] = n
	}
	return out
}
