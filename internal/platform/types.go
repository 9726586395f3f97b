// Package platform answers questions about the machine whelk is running
// on: operating system, architecture, and Linux distribution details.
//
// The answers feed two consumers. Lua configuration files receive a
// read-only "platform" table so users can write platform conditionals,
// and the shell service uses the package to toggle Windows long path
// support. Distribution detection uses gopsutil and falls back to
// OS/arch-only information when it fails.
package platform

import "context"

// Linux distribution family constants.
// These represent canonical family names for grouping related distributions.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint, Pop!_OS
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains platform detection information.
type Info struct {
	OS       string // "linux", "darwin", "windows"
	Arch     string // normalized architecture (e.g., "amd64", "arm64", "ppc64le")
	ArchRaw  string // original GOARCH value
	Platform string // distro ID (Linux only, e.g., "ubuntu", "arch")
	Family   string // canonical family (e.g., "debian", "rhel", "arch")
	Version  string // distro version (Linux only, e.g., "22.04")
}

// Distro contains Linux distribution information.
// This is nil on non-Linux platforms.
type Distro struct {
	ID      string // distro ID (e.g., "ubuntu")
	Family  string // canonical family (e.g., "debian")
	Version string // version (e.g., "22.04")
}

// GetDistro returns distro information if this is a Linux platform.
// Returns nil for non-Linux platforms or if distro detection failed.
func (i *Info) GetDistro() *Distro {
	if i.OS != "linux" || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// Subdir returns the conda-style platform subdirectory name for this
// platform, e.g. "linux-64", "osx-arm64", "win-64". Unrecognized
// combinations fall back to "<os>-<arch>".
func (i *Info) Subdir() string {
	osName := i.OS
	switch i.OS {
	case "darwin":
		osName = "osx"
	case "windows":
		osName = "win"
	}

	arch := i.Arch
	switch i.Arch {
	case "amd64":
		arch = "64"
	case "arm64":
		if i.OS == "linux" {
			arch = "aarch64"
		}
	}

	return osName + "-" + arch
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// IsAMD64 returns true if the architecture is amd64.
func (i *Info) IsAMD64() bool {
	return i.Arch == "amd64"
}

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool {
	return i.Arch == "arm64"
}

// IsAppleSilicon returns true if running on Apple Silicon (macOS + arm64).
func (i *Info) IsAppleSilicon() bool {
	return i.OS == "darwin" && i.Arch == "arm64"
}

// IsDebianFamily returns true if the Linux distribution is Debian-based.
func (i *Info) IsDebianFamily() bool {
	return i.OS == "linux" && i.Family == FamilyDebian
}

// IsRHELFamily returns true if the Linux distribution is RHEL-based.
func (i *Info) IsRHELFamily() bool {
	return i.OS == "linux" && i.Family == FamilyRHEL
}

// IsFedoraFamily returns true if the Linux distribution is Fedora-based.
func (i *Info) IsFedoraFamily() bool {
	return i.OS == "linux" && i.Family == FamilyFedora
}

// IsSUSEFamily returns true if the Linux distribution is SUSE-based.
func (i *Info) IsSUSEFamily() bool {
	return i.OS == "linux" && i.Family == FamilySUSE
}

// IsArchFamily returns true if the Linux distribution is Arch-based.
func (i *Info) IsArchFamily() bool {
	return i.OS == "linux" && i.Family == FamilyArch
}

// IsAlpine returns true if the Linux distribution is Alpine.
func (i *Info) IsAlpine() bool {
	return i.OS == "linux" && i.Family == FamilyAlpine
}

// IsGentoo returns true if the Linux distribution is Gentoo.
func (i *Info) IsGentoo() bool {
	return i.OS == "linux" && i.Family == FamilyGentoo
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
