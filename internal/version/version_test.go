package version

import "testing"

func TestGetVersionDefaultsToDev(t *testing.T) {
	original := Version
	defer func() { Version = original }()

	Version = "dev"
	if GetVersion() != "dev" {
		t.Fatalf("GetVersion() = %q, want dev", GetVersion())
	}
}

func TestGetVersionReflectsLdflagsOverride(t *testing.T) {
	original := Version
	defer func() { Version = original }()

	Version = "v1.2.3"
	if GetVersion() != "v1.2.3" {
		t.Fatalf("GetVersion() = %q, want v1.2.3", GetVersion())
	}
}
