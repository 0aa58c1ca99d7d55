package terse

import (
	"strings"
	"testing"
)

func TestErrorLinesSurviveMultiLineStrings(t *testing.T) {
	source := "s = STRING\n  first\n  second\nEND\n# note\nn = 1\nn[1] = 2"
	err := runFailure(t, source, Config{})
	if err.Kind != ErrAssign {
		t.Fatalf("expected assignment error, got %v", err)
	}
	if err.Pos.Line != 7 || err.Pos.Column != 2 {
		t.Fatalf("expected 7:2, got %d:%d", err.Pos.Line, err.Pos.Column)
	}
	if !strings.Contains(err.CodeFrame, " 7 | n[1] = 2") {
		t.Fatalf("expected the original line in the code frame, got:\n%s", err.CodeFrame)
	}
}

func TestErrorStringIncludesFrames(t *testing.T) {
	source := "FUNC F\n  x = [1]\n  x[0] = 1\nEND\nF"
	err := runFailure(t, source, Config{})

	msg := err.Error()
	for _, want := range []string{
		"assignment error at 3:4: index must be >= 1, got 0",
		"--> line 3, column 4",
		"at F (3:4)",
		"at F (5:1)",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in:\n%s", want, msg)
		}
	}
}

func TestErrorFramesAreTruncated(t *testing.T) {
	err := runFailure(t, "FUNC R\n  RETURN R\nEND\nR", Config{RecursionLimit: 40})
	if len(err.Frames) != 41 {
		t.Fatalf("expected 41 frames, got %d", len(err.Frames))
	}
	msg := err.Error()
	if !strings.Contains(msg, "... 25 frames omitted ...") {
		t.Fatalf("expected truncation marker in:\n%s", msg)
	}
	if got := strings.Count(msg, "\n  at R"); got != errorFrameHead+errorFrameTail {
		t.Fatalf("expected %d rendered frames, got %d", errorFrameHead+errorFrameTail, got)
	}
}

func TestFormatCodeFrame(t *testing.T) {
	frame := formatCodeFrame("a = 1\n\tb = (", Position{Line: 2, Column: 7})
	want := "  --> line 2, column 7\n 1 | a = 1\n 2 | \tb = (\n   | \t     ^"
	if frame != want {
		t.Fatalf("unexpected frame:\n%q\nwant:\n%q", frame, want)
	}

	source := "x = 1\n\n\n\n\n\n\n\nloop:\nGOTO nowhere"
	frame = formatCodeFrame(source, Position{Line: 10, Column: 6})
	want = "  --> line 10, column 6\n  9 | loop:\n 10 | GOTO nowhere\n    |      ^^^^^^^"
	if frame != want {
		t.Fatalf("unexpected frame:\n%q\nwant:\n%q", frame, want)
	}

	frame = formatCodeFrame("x = 1\n\nPRINT y", Position{Line: 3, Column: 1})
	want = "  --> line 3, column 1\n 3 | PRINT y\n   | ^^^^^"
	if frame != want {
		t.Fatalf("blank line before should be skipped:\n%q\nwant:\n%q", frame, want)
	}

	if got := formatCodeFrame("a", Position{Line: 3, Column: 1}); got != "" {
		t.Fatalf("expected no frame past the end, got %q", got)
	}
	if got := formatCodeFrame("abc", Position{Line: 1, Column: 99}); !strings.HasSuffix(got, "|    ^") {
		t.Fatalf("expected caret clamped to end of line, got %q", got)
	}
}

func TestErrorWithoutPosition(t *testing.T) {
	err := &Error{Kind: ErrExec, Message: "boom"}
	if got := err.Error(); got != "exec error: boom" {
		t.Fatalf("unexpected message %q", got)
	}
}
