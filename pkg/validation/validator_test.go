package validation

import (
	"strings"
	"testing"
)

type sampleSection struct {
	Root    string `yaml:"root" validate:"required,nodeid"`
	Workers int    `yaml:"workers" validate:"gte=1,lte=64"`
	Backend string `yaml:"backend" validate:"oneof=local s3"`
}

type sampleConfig struct {
	Version    string        `yaml:"version" validate:"version"`
	Simulation sampleSection `yaml:"simulation"`
}

// TestStruct tests tag validation and YAML field naming
func TestStruct(t *testing.T) {
	tests := []struct {
		name      string
		cfg       sampleConfig
		wantError []string
	}{
		{
			name: "valid",
			cfg:  sampleConfig{Version: "v1", Simulation: sampleSection{Root: "RoofTank", Workers: 4, Backend: "local"}},
		},
		{
			name:      "missing root",
			cfg:       sampleConfig{Version: "v1", Simulation: sampleSection{Workers: 4, Backend: "s3"}},
			wantError: []string{"simulation.root: field is required"},
		},
		{
			name:      "root with whitespace",
			cfg:       sampleConfig{Version: "v1", Simulation: sampleSection{Root: "Roof Tank", Workers: 1, Backend: "s3"}},
			wantError: []string{`simulation.root: "Roof Tank" is not a valid node id`},
		},
		{
			name: "several failures are all reported",
			cfg:  sampleConfig{Version: "../v1", Simulation: sampleSection{Root: "R", Workers: 0, Backend: "ftp"}},
			wantError: []string{
				"version: \"../v1\" is not a valid version",
				"simulation.workers: must be at least 1",
				"simulation.backend: must be one of [local s3], got ftp",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.cfg)
			if len(tt.wantError) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			for _, want := range tt.wantError {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not mention %q", err, want)
				}
			}
		})
	}
}

func TestStruct_Nil(t *testing.T) {
	if err := Struct(nil); err == nil {
		t.Error("expected error for nil value")
	}
}

// TestValidateNodeID tests node id validation
func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"RoofTank", false},
		{"Floor1_Inlet.Bath1", false},
		{"", true},
		{"Floor 1", true},
		{"tab\tid", true},
		{strings.Repeat("x", MaxIdentifierLength+1), true},
	}

	for _, tt := range tests {
		err := ValidateNodeID(tt.id)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
		}
	}
}

// TestValidateVersion tests dataset version validation
func TestValidateVersion(t *testing.T) {
	tests := []struct {
		version string
		wantErr bool
	}{
		{"v1", false},
		{"v2.1-rc_1", false},
		{"", true},
		{"../etc", true},
		{"v1/extra", true},
		{"v1..2", true},
		{".hidden", true},
	}

	for _, tt := range tests {
		err := ValidateVersion(tt.version)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVersion(%q) error = %v, wantErr %v", tt.version, err, tt.wantErr)
		}
	}
}
