package watch

import (
	"strings"
	"testing"
)

func TestDigest(t *testing.T) {
	log := strings.Join([]string{
		" NUCLEAR INTERACTION MODEL",
		"",
		" EVENT  1",
		" some progress line",
		" EVENT  2",
		"",
	}, "\n")

	lines, events := digest(log, 10)
	if events != 2 {
		t.Errorf("expected 2 events, got %d", events)
	}
	if len(lines) != 4 {
		t.Errorf("expected 4 non-empty lines, got %d", len(lines))
	}
}

func TestDigestTail(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("line\n")
	}

	lines, _ := digest(sb.String(), 5)
	if len(lines) != 5 {
		t.Errorf("expected tail of 5 lines, got %d", len(lines))
	}
}

func TestDigestEmpty(t *testing.T) {
	lines, events := digest("", 5)
	if len(lines) != 0 || events != 0 {
		t.Errorf("expected empty digest, got %d lines, %d events", len(lines), events)
	}
}
