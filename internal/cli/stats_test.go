package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/ringavatar/pkg/avatar"
)

func TestDigitRows(t *testing.T) {
	s, err := avatar.Compute("1213")
	if err != nil {
		t.Fatal(err)
	}
	rows := digitRows(&s)
	if len(rows) != avatar.Digits {
		t.Fatalf("got %d rows, want %d", len(rows), avatar.Digits)
	}

	tests := []struct {
		digit int
		want  []string
	}{
		{0, []string{"0", "0", "0.0%", "-", "-", "-"}},
		{1, []string{"1", "2", "50.0%", "0.0°", "180.0°", "2 ×1"}},
		{2, []string{"2", "1", "25.0%", "180.0°", "270.0°", "1 ×1"}},
		{3, []string{"3", "1", "25.0%", "270.0°", "360.0°", "-"}},
	}
	for _, tt := range tests {
		if got := strings.Join(rows[tt.digit], "|"); got != strings.Join(tt.want, "|") {
			t.Errorf("row %d = %s, want %s", tt.digit, got, strings.Join(tt.want, "|"))
		}
	}
}

func TestDigitRowsEmpty(t *testing.T) {
	s, _ := avatar.Compute("")
	for _, row := range digitRows(&s) {
		if row[1] != "0" || row[2] != "-" {
			t.Errorf("empty seed row = %v", row)
		}
	}
}

func TestTopSuccessorTies(t *testing.T) {
	var e avatar.Entry
	e.Next[7] = 2
	e.Next[3] = 2
	if got := topSuccessor(e); got != "3 ×2" {
		t.Errorf("topSuccessor() = %q, want lowest digit on ties", got)
	}
}

func TestTransitionTable(t *testing.T) {
	s, _ := avatar.Compute("1213")
	out := transitionTable(&s).Render()
	for _, want := range []string{"0", "9", "·"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
