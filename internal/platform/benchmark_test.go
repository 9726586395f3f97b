package platform

import (
	"context"
	"testing"
)

func BenchmarkDetect(b *testing.B) {
	detector := NewDetector()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = detector.Detect(ctx)
	}
}

func BenchmarkNormalizeArch(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = normalizeArch("x86_64")
	}
}

func BenchmarkMapFamily(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = mapFamily("ubuntu")
	}
}

func BenchmarkInfo_Subdir(b *testing.B) {
	info := &Info{
		OS:   "linux",
		Arch: "amd64",
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = info.Subdir()
	}
}
