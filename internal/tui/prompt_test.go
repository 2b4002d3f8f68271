package tui

import (
	"testing"
)

func TestIsInteractive(t *testing.T) {
	// Depends on how tests are run; only ensure it does not panic.
	_ = IsInteractive()
}

func TestShouldPromptDisabledInAutomation(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{name: "GitHub Actions", envVar: "GITHUB_ACTIONS", value: "true"},
		{name: "GitLab CI", envVar: "GITLAB_CI", value: "true"},
		{name: "Jenkins", envVar: "JENKINS_URL", value: "http://jenkins.local"},
		{name: "Generic CI", envVar: "CI", value: "true"},
		{name: "Explicit opt-out", envVar: "PULSEHR_NO_PROMPT", value: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			if ShouldPrompt() {
				t.Errorf("ShouldPrompt() = true with %s=%s, want false", tt.envVar, tt.value)
			}
		})
	}
}

func TestPromptForSelect(t *testing.T) {
	_, err := PromptForSelect("Choose:", []string{})
	if err == nil {
		t.Error("expected error when no options provided, got nil")
	}
}
