package ui

import (
	"fmt"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
)

func immediate(fn func()) { fn() }

func TestLogPanel_WriteAndTrim(t *testing.T) {
	test.NewApp()

	panel := newLogPanel(3, immediate)
	for i := 1; i <= 5; i++ {
		n, err := fmt.Fprintf(panel, "line %d\n", i)
		if err != nil || n == 0 {
			t.Fatalf("Write failed: %d %v", n, err)
		}
	}

	lines := panel.Lines()
	if len(lines) != 3 || lines[0] != "line 3" || lines[2] != "line 5" {
		t.Errorf("Unexpected lines: %v", lines)
	}
	if !strings.HasSuffix(panel.Text(), "line 5") {
		t.Errorf("Panel text not rendered: %q", panel.Text())
	}
}

func TestLogPanel_MultiLineWriteAndEmpty(t *testing.T) {
	test.NewApp()

	panel := newLogPanel(0, immediate)
	if _, err := panel.Write([]byte("\n")); err != nil {
		t.Fatal(err)
	}
	if len(panel.Lines()) != 0 {
		t.Error("Blank writes should be ignored")
	}

	if _, err := panel.Write([]byte("a\nb\n")); err != nil {
		t.Fatal(err)
	}
	if got := panel.Lines(); len(got) != 2 || got[1] != "b" {
		t.Errorf("Unexpected lines: %v", got)
	}
}
