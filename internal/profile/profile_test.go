package profile

import (
	"os"
	"testing"
)

func TestAIProfileDefaults(t *testing.T) {
	clearAIEnvVars(t)

	profile := &Profile{}
	profile.FromEnv()

	if profile.AIEnabled {
		t.Error("AIEnabled should be false by default")
	}
	if profile.AIBaseURL != "https://api.openai.com/v1" {
		t.Errorf("AIBaseURL default: expected %q, got %q", "https://api.openai.com/v1", profile.AIBaseURL)
	}
	if profile.AIModel != "gpt-4o-mini" {
		t.Errorf("AIModel default: expected %q, got %q", "gpt-4o-mini", profile.AIModel)
	}
}

func TestAIProfileFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envValue string
		field    func(*Profile) string
		expected string
	}{
		{
			name:     "AGENDA_AI_ENABLED=true",
			envVar:   "AGENDA_AI_ENABLED",
			envValue: "true",
			field:    func(p *Profile) string { return boolToString(p.AIEnabled) },
			expected: "true",
		},
		{
			name:     "AGENDA_AI_API_KEY",
			envVar:   "AGENDA_AI_API_KEY",
			envValue: "test-key-123",
			field:    func(p *Profile) string { return p.AIAPIKey },
			expected: "test-key-123",
		},
		{
			name:     "AGENDA_AI_BASE_URL",
			envVar:   "AGENDA_AI_BASE_URL",
			envValue: "https://custom.openai.proxy/v1",
			field:    func(p *Profile) string { return p.AIBaseURL },
			expected: "https://custom.openai.proxy/v1",
		},
		{
			name:     "AGENDA_AI_MODEL",
			envVar:   "AGENDA_AI_MODEL",
			envValue: "gpt-4o",
			field:    func(p *Profile) string { return p.AIModel },
			expected: "gpt-4o",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearAIEnvVars(t)
			t.Setenv(tt.envVar, tt.envValue)

			profile := &Profile{}
			profile.FromEnv()

			actual := tt.field(profile)
			if actual != tt.expected {
				t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, actual)
			}
		})
	}
}

func TestIsAIEnabled(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(*Profile)
		expectedResult bool
	}{
		{
			name: "AIEnabled=false should return false",
			setup: func(p *Profile) {
				p.AIEnabled = false
			},
			expectedResult: false,
		},
		{
			name: "AIEnabled=true but no API key should return false",
			setup: func(p *Profile) {
				p.AIEnabled = true
				p.AIAPIKey = ""
			},
			expectedResult: false,
		},
		{
			name: "AIEnabled=true with API key should return true",
			setup: func(p *Profile) {
				p.AIEnabled = true
				p.AIAPIKey = "test-key"
			},
			expectedResult: true,
		},
		{
			name: "AIEnabled=false with API key should return false",
			setup: func(p *Profile) {
				p.AIEnabled = false
				p.AIAPIKey = "test-key"
			},
			expectedResult: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &Profile{}
			tt.setup(profile)
			result := profile.IsAIEnabled()
			if result != tt.expectedResult {
				t.Errorf("IsAIEnabled(): expected %v, got %v", tt.expectedResult, result)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	dir := t.TempDir()

	profile := &Profile{Mode: "invalid", Data: dir, Driver: "sqlite"}
	if err := profile.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}

	if profile.Mode != "demo" {
		t.Errorf("unknown mode should fall back to demo, got %q", profile.Mode)
	}
	if profile.Practitioner == "" {
		t.Error("Validate() should set a default practitioner")
	}
	if profile.DSN == "" {
		t.Error("Validate() should derive a sqlite DSN from the data directory")
	}
}

// Helper functions

func clearAIEnvVars(t *testing.T) {
	t.Helper()
	aiEnvVars := []string{
		"AGENDA_AI_ENABLED",
		"AGENDA_AI_BASE_URL",
		"AGENDA_AI_API_KEY",
		"AGENDA_AI_MODEL",
	}
	for _, envVar := range aiEnvVars {
		os.Unsetenv(envVar)
	}
}

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
