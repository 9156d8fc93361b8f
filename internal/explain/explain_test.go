package explain

import (
	"context"
	"strings"
	"testing"
)

func TestTemplateSentence(t *testing.T) {
	workload := 3
	got := Template{}.Explain(context.Background(), Context{
		WorkType:           "MRI_Brain",
		Priority:           5,
		ResourceName:       "Dana Reyes",
		SkillLevel:         4,
		CasesHandled:       220,
		AvailabilityWindow: "08:00:00 - 16:00:00",
		Workload:           &workload,
	})
	want := "Dana Reyes was assigned to this urgent MRI_Brain request because of their " +
		"skill level 4, experience across 220 similar studies, and availability window " +
		"08:00:00 - 16:00:00 with workload 3."
	if got != want {
		t.Errorf("explanation = %q, want %q", got, want)
	}
}

func TestTemplateUrgencyBoundary(t *testing.T) {
	cases := []struct {
		priority int
		urgency  string
	}{
		{3, "routine"},
		{4, "urgent"},
		{5, "urgent"},
	}
	for _, tc := range cases {
		got := Template{}.Explain(context.Background(), Context{Priority: tc.priority})
		if !strings.Contains(got, "this "+tc.urgency+" ") {
			t.Errorf("priority %d: expected %q urgency in %q", tc.priority, tc.urgency, got)
		}
	}
}

func TestTemplateDefaults(t *testing.T) {
	got := Template{}.Explain(context.Background(), Context{Priority: 2})
	if !strings.HasPrefix(got, "Selected resource was assigned to this routine case request") {
		t.Errorf("unexpected defaults: %q", got)
	}
	if !strings.HasSuffix(got, "with workload N/A.") {
		t.Errorf("nil workload should render as N/A: %q", got)
	}
}

func TestNewProviderSelection(t *testing.T) {
	if _, ok := New(Config{}).(Template); !ok {
		t.Errorf("empty provider should yield the template explainer")
	}
	if _, ok := New(Config{Provider: "something-else"}).(Template); !ok {
		t.Errorf("unknown provider should yield the template explainer")
	}
	if _, ok := New(Config{Provider: "llm"}).(Template); ok {
		t.Errorf("llm provider should not yield the template explainer")
	}
}
