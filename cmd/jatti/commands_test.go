package main

import "testing"

func TestBuildOption(t *testing.T) {
	tests := []struct {
		value     string
		wantDir   string
		wantBuild bool
	}{
		{"", "", false},
		{"true", "", true},
		{"1", "", true},
		{"false", "", false},
		{"testdata/regressions", "testdata/regressions", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			dir, build := buildOption(tt.value)
			if dir != tt.wantDir || build != tt.wantBuild {
				t.Errorf("buildOption(%q) = %q, %v, want %q, %v", tt.value, dir, build, tt.wantDir, tt.wantBuild)
			}
		})
	}
}
