package comm

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"goshawk/search"
)

func TestXBoardSession(t *testing.T) {
	out := serveScript(t, strings.Join([]string{
		"xboard",
		"protover 2",
		"new",
		"sd 1",
		"usermove e2e4",
		"ping 7",
		"quit",
	}, "\n"))

	for _, want := range []string{
		"feature myname=\"Goshawk",
		"done=1",
		"pong 7",
		"move ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestXBoardForceModeDoesNotAnswer(t *testing.T) {
	out := serveScript(t, strings.Join([]string{
		"xboard",
		"protover 2",
		"new",
		"force",
		"usermove e2e4",
		"usermove e7e5",
		"ping 1",
		"quit",
	}, "\n"))

	if strings.Contains(out, "move e") {
		t.Errorf("engine answered in force mode:\n%s", out)
	}
	if !strings.Contains(out, "pong 1") {
		t.Errorf("ping lost:\n%s", out)
	}
}

func TestXBoardIllegalMoveRejected(t *testing.T) {
	out := serveScript(t, strings.Join([]string{
		"xboard",
		"new",
		"force",
		"usermove e2e5",
		"quit",
	}, "\n"))

	if !strings.Contains(out, "Illegal move: e2e5") {
		t.Errorf("illegal move accepted:\n%s", out)
	}
}

func TestXBoardLevelParsing(t *testing.T) {
	x := NewXBoard(nil, zerolog.Nop())
	x.level(strings.Fields("40 5 0"))
	if x.mps != 40 || x.myTime != 5*time.Minute || x.inc != 0 {
		t.Errorf("level 40 5 0 parsed as mps=%d base=%v inc=%v", x.mps, x.myTime, x.inc)
	}
	x.level(strings.Fields("0 0:30 2"))
	if x.myTime != 30*time.Second || x.inc != 2*time.Second {
		t.Errorf("level 0 0:30 2 parsed as base=%v inc=%v", x.myTime, x.inc)
	}
}

func TestPostScoreMateConvention(t *testing.T) {
	cases := []struct {
		score int
		want  int
	}{
		{123, 123},
		{-450, -450},
		{search.Infinity - 1, 100001}, // mating in 1
		{search.Infinity - 3, 100002},
		{-(search.Infinity - 2), -100001}, // being mated in 1
		{-(search.Infinity - 4), -100002},
	}
	for _, tc := range cases {
		if got := postScore(tc.score); got != tc.want {
			t.Errorf("postScore(%d) = %d, want %d", tc.score, got, tc.want)
		}
	}
}

func TestLooksLikeMove(t *testing.T) {
	for _, ok := range []string{"e2e4", "a7a8q", "h1h8"} {
		if !looksLikeMove(ok) {
			t.Errorf("%q should look like a move", ok)
		}
	}
	for _, bad := range []string{"hello", "e2", "i2i4", "e9e4", "postx"} {
		if looksLikeMove(bad) {
			t.Errorf("%q should not look like a move", bad)
		}
	}
}
