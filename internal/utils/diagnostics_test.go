package utils

import (
	"bytes"
	"strings"
	"testing"
)

func newTestDiagnostics(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	d := NewDiagnosticSystem(level)
	d.SetOutput(&out, &errOut)
	return d, &out, &errOut
}

func TestDiagnosticSystem_Levels(t *testing.T) {
	tests := []struct {
		level   DiagnosticLevel
		out     []string
		missing []string
	}{
		{DiagnosticSilent, nil, []string{"[WARN]", "[INFO]", "[VERBOSE]"}},
		{DiagnosticError, nil, []string{"[WARN]", "[INFO]"}},
		{DiagnosticInfo, []string{"[WARN] w", "[INFO] i", "[SUCCESS] s"}, []string{"[VERBOSE]", "[DEBUG]"}},
		{DiagnosticDebug, []string{"[VERBOSE] v", "[DEBUG] d"}, nil},
	}

	for _, tt := range tests {
		d, out, _ := newTestDiagnostics(tt.level)
		d.Warn("w")
		d.Info("i")
		d.Success("s")
		d.Verbose("v")
		d.Debug("d")

		for _, want := range tt.out {
			if !strings.Contains(out.String(), want) {
				t.Errorf("level %d: output should contain %q, got %q", tt.level, want, out.String())
			}
		}
		for _, unwanted := range tt.missing {
			if strings.Contains(out.String(), unwanted) {
				t.Errorf("level %d: output should not contain %q", tt.level, unwanted)
			}
		}
	}
}

func TestDiagnosticSystem_ErrorsGoToErrorOutput(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticError)
	d.Error("broken %s", "file")

	if out.Len() != 0 {
		t.Errorf("regular output should be empty, got %q", out.String())
	}
	if errOut.String() != "[ERROR] broken file\n" {
		t.Errorf("unexpected error output %q", errOut.String())
	}
}

func TestDiagnosticSystem_SummarySortsKeys(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)
	d.Summary("Done", map[string]interface{}{"b": 2, "a": 1})

	want := "\nDone\n   a: 1\n   b: 2\n\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestDiagnosticSystem_ProgressAndIndent(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)
	d.Indent()
	d.List("item")
	d.StartProgress("client pass")
	d.EndProgress(false, "client pass")
	d.Unindent()
	d.Unindent()
	d.List("top")

	want := "  - item\n  ✗ client pass\n- top\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}
