package probe

import (
	"strings"
	"testing"
)

func TestResultEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Result
		want bool
	}{
		{
			name: "same verdict, different reasons",
			a:    Result{Name: "latex", Reason: "ra"},
			b:    Result{Name: "latex", Reason: "rb"},
			want: true,
		},
		{
			name: "different verdict",
			a:    Result{Name: "latex", Present: true},
			b:    Result{Name: "latex"},
			want: false,
		},
		{
			name: "different subject",
			a:    Result{Name: "latex", Present: true},
			b:    Result{Name: "pdflatex", Present: true},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResultString(t *testing.T) {
	present := Result{Name: "latex", Present: true}
	if got := present.String(); !strings.Contains(got, "present") {
		t.Errorf("String = %q", got)
	}

	absent := Result{Name: "latex", Reason: "not found"}
	if got := absent.String(); !strings.Contains(got, "not found") {
		t.Errorf("String = %q, want the reason included", got)
	}
}

func TestNotPresentError(t *testing.T) {
	err := &NotPresentError{Name: "latex_package_tkz_graph", Reason: `"tkz-graph.sty" not found by kpsewhich`}
	msg := err.Error()
	if !strings.Contains(msg, "latex_package_tkz_graph") || !strings.Contains(msg, "not found by kpsewhich") {
		t.Errorf("Error = %q, want name and reason included", msg)
	}
}
