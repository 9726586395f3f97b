package platform

import (
	"strings"
)

// familyMap maps distribution names to their canonical family names.
// This is used to normalize variations of family strings from gopsutil.
var familyMap = map[string]string{
	"debian":    FamilyDebian,
	"ubuntu":    FamilyDebian, // gopsutil might return ubuntu as family
	"mint":      FamilyDebian,
	"pop":       FamilyDebian,
	"rhel":      FamilyRHEL,
	"centos":    FamilyRHEL,
	"rocky":     FamilyRHEL,
	"almalinux": FamilyRHEL,
	"fedora":    FamilyFedora,
	"suse":      FamilySUSE,
	"opensuse":  FamilySUSE,
	"arch":      FamilyArch,
	"manjaro":   FamilyArch,
	"alpine":    FamilyAlpine,
	"gentoo":    FamilyGentoo,
}

// normalizeArch converts architecture names to their Go-style spelling.
// Names that are already canonical, or that we do not recognize, pass
// through unchanged; shell integration works the same on any CPU.
func normalizeArch(arch string) string {
	switch arch {
	case "x86_64":
		return "amd64"
	case "aarch64":
		return "arm64"
	case "i386", "i686":
		return "386"
	default:
		return arch
	}
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
// Uses a package-level lookup table for explicit mapping.
func mapFamily(family string) string {
	normalized := strings.ToLower(strings.TrimSpace(family))
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}

	// Return "unknown" for unrecognized families
	return FamilyUnknown
}
