package entity

import (
	"strings"
	"testing"
)

func sampleObservation() Observation {
	return Observation{
		Title: "Example",
		Text:  "Some page text",
		Elements: []InteractableElement{
			{ID: 1, Tag: "a", Label: "Home"},
			{ID: 2, Tag: "input", Label: "Search"},
		},
	}
}

func TestObservation_Render(t *testing.T) {
	rendered := sampleObservation().Render()

	for _, want := range []string{
		"Title: Example",
		"Some page text",
		`<a browsemind-id="1"> Home`,
		`<input browsemind-id="2"> Search`,
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("rendered observation missing %q:\n%s", want, rendered)
		}
	}
}

func TestObservation_TruncateCutsText(t *testing.T) {
	obs := sampleObservation()
	obs.Text = strings.Repeat("a", 100)

	truncated := obs.Truncate(10)
	if !truncated.Truncated {
		t.Error("expected Truncated flag")
	}
	if !strings.HasPrefix(truncated.Text, strings.Repeat("a", 10)) {
		t.Errorf("unexpected truncated text: %q", truncated.Text)
	}
	if !strings.Contains(truncated.Text, "truncated") {
		t.Error("truncation marker missing")
	}

	// The original snapshot is untouched.
	if obs.Truncated || len(obs.Text) != 100 {
		t.Error("Truncate must not mutate the receiver")
	}
}

func TestObservation_TruncateNoopUnderLimit(t *testing.T) {
	obs := sampleObservation()
	out := obs.Truncate(1000)
	if out.Truncated || out.Text != obs.Text {
		t.Error("content under the limit must pass through unchanged")
	}
}

func TestObservation_HasElement(t *testing.T) {
	obs := sampleObservation()
	if !obs.HasElement(2) {
		t.Error("element 2 should be present")
	}
	if obs.HasElement(99) {
		t.Error("element 99 should be absent")
	}
}

func TestNewTask_Validation(t *testing.T) {
	if _, err := NewTask("  find cheap flights  ", 100); err != nil {
		t.Fatalf("valid task rejected: %v", err)
	}

	task, _ := NewTask("  spaced  ", 100)
	if task.String() != "spaced" {
		t.Errorf("task not trimmed: %q", task)
	}

	if _, err := NewTask("", 100); err == nil {
		t.Error("empty task must be rejected")
	}
	if _, err := NewTask("   ", 100); err == nil {
		t.Error("whitespace-only task must be rejected")
	}
	if _, err := NewTask(strings.Repeat("x", 101), 100); err == nil {
		t.Error("over-long task must be rejected")
	}
	if _, err := NewTask(strings.Repeat("x", 100), 100); err != nil {
		t.Error("task at the bound must be accepted")
	}
}
