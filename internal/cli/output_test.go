package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func newTestOutput(t *testing.T, jsonMode bool) (*Output, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.Flags().Bool("json", jsonMode, "")
	cmd.SetOut(buf)
	return NewOutput(cmd), buf
}

func TestOutputJSON(t *testing.T) {
	output, buf := newTestOutput(t, true)

	if !output.IsJSON() {
		t.Fatal("IsJSON should be true")
	}
	if err := output.JSON(map[string]string{"symbol": "AAPL"}); err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["symbol"] != "AAPL" {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestOutputPlainMessages(t *testing.T) {
	output, buf := newTestOutput(t, false)

	output.Success("saved %d rows", 4)
	output.Warning("partial run")

	got := buf.String()
	if !strings.Contains(got, "saved 4 rows") {
		t.Errorf("missing success line: %q", got)
	}
	if !strings.Contains(got, "partial run") {
		t.Errorf("missing warning line: %q", got)
	}
	// Not a terminal under test, so no escape codes.
	if strings.Contains(got, "\033[") {
		t.Errorf("unexpected color codes: %q", got)
	}
}

func TestChangeString(t *testing.T) {
	output, _ := newTestOutput(t, false)

	// Color is disabled off-terminal; the text must pass through either way.
	if got := output.ChangeString(1.5, "+1.50"); got != "+1.50" {
		t.Errorf("ChangeString = %q", got)
	}
	if got := output.ChangeString(-0.5, "-0.50"); got != "-0.50" {
		t.Errorf("ChangeString = %q", got)
	}
}

func TestUpperAll(t *testing.T) {
	got := upperAll([]string{" aapl", "Msft ", "GOOGL"})
	want := []string{"AAPL", "MSFT", "GOOGL"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("upperAll[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
