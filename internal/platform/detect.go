package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect performs platform detection and returns platform information.
// It uses runtime.GOOS and runtime.GOARCH for OS and architecture,
// and gopsutil for Linux distribution details.
//
// On Linux, if gopsutil fails to detect the distribution, distro fields
// stay empty and detection still succeeds. Shell integration does not
// depend on the distribution; only configuration conditionals do.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:      runtime.GOOS,
		ArchRaw: runtime.GOARCH,
		Arch:    normalizeArch(runtime.GOARCH),
	}

	if runtime.GOOS == "linux" {
		platform, family, version, err := host.PlatformInformationWithContext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
			}
			// Graceful fallback: OS and arch are enough for everything
			// except distro-conditional configuration.
			return info, nil
		}

		platform = normalizePlatform(platform)
		family = mapFamily(family)
		version = normalizePlatform(version)

		if platform != "" {
			info.Platform = platform
			info.Family = family
			info.Version = version
		}
	}

	return info, nil
}
