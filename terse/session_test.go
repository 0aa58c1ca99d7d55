package terse

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func evalChunk(t *testing.T, s *Session, chunk string) Value {
	t.Helper()
	val, err := s.Eval(context.Background(), chunk)
	if err != nil {
		t.Fatalf("eval %q failed: %v", chunk, err)
	}
	return val
}

func TestSessionCarriesStateAcrossChunks(t *testing.T) {
	s := MustNewEngine(Config{}).NewSession()

	evalChunk(t, s, "x = 1")
	evalChunk(t, s, "FUNC DOUBLE n\n  RETURN n * 2\nEND")
	if got := evalChunk(t, s, "DOUBLE (x + 3)"); got.Number() != 8 {
		t.Fatalf("expected 8, got %v", got)
	}
	evalChunk(t, s, "PRINT (x + 1)")

	if diff := cmp.Diff([]string{"2"}, s.Output()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"DOUBLE"}, s.Functions()); diff != "" {
		t.Fatalf("functions mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionStackSpansChunks(t *testing.T) {
	s := MustNewEngine(Config{}).NewSession()
	evalChunk(t, s, "FUNC SUB a b\n  RETURN a - b\nEND")
	evalChunk(t, s, "10")
	evalChunk(t, s, "4")
	if got := evalChunk(t, s, "r = SUB\nr"); got.Number() != 6 {
		t.Fatalf("expected 6, got %v", got)
	}
}

func TestSessionReturnValue(t *testing.T) {
	s := MustNewEngine(Config{}).NewSession()
	if got := evalChunk(t, s, "RETURN 42\nPRINT 1"); got.Number() != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
	if got := evalChunk(t, s, "y = 1"); !got.IsNull() {
		t.Fatalf("expected NULL for a chunk without expressions, got %v", got)
	}
	if len(s.Output()) != 0 {
		t.Fatalf("expected RETURN to stop the chunk, got %v", s.Output())
	}
}

func TestSessionParseFailureLeavesStateAlone(t *testing.T) {
	s := MustNewEngine(Config{}).NewSession()
	evalChunk(t, s, "x = 1")

	_, err := s.Eval(context.Background(), "FUNC BROKEN a\nx = (")
	var scriptErr *Error
	if !errors.As(err, &scriptErr) || scriptErr.Kind != ErrParse {
		t.Fatalf("expected parse error, got %v", err)
	}

	if got := evalChunk(t, s, "BROKEN"); !got.IsNull() {
		t.Fatalf("expected BROKEN to stay an unbound variable, got %v", got)
	}
	if x, _ := s.Globals().Get("x"); x.Number() != 1 {
		t.Fatalf("expected x to survive, got %v", x)
	}
}

func TestSessionRuntimeErrorKeepsEarlierEffects(t *testing.T) {
	s := MustNewEngine(Config{}).NewSession()
	_, err := s.Eval(context.Background(), "a = 5\nn = 1\nn.x = 2")
	if err == nil {
		t.Fatalf("expected assignment error")
	}
	if !strings.Contains(err.Error(), " 3 | n.x = 2") {
		t.Fatalf("expected code frame from the chunk, got:\n%s", err)
	}
	if a, _ := s.Globals().Get("a"); a.Number() != 5 {
		t.Fatalf("expected a to stay bound, got %v", a)
	}
	if got := evalChunk(t, s, "a + 1"); got.Number() != 6 {
		t.Fatalf("expected the session to keep working, got %v", got)
	}
}

func TestSessionReset(t *testing.T) {
	s := MustNewEngine(Config{}).NewSession()
	evalChunk(t, s, "FUNC F\n  RETURN 1\nEND\nx = 1\nPRINT x")
	s.Reset()

	if names := s.Globals().Names(); len(names) != 0 {
		t.Fatalf("expected no globals, got %v", names)
	}
	if fns := s.Functions(); len(fns) != 0 {
		t.Fatalf("expected no functions, got %v", fns)
	}
	if out := s.Output(); len(out) != 0 {
		t.Fatalf("expected no output, got %v", out)
	}
	if got := evalChunk(t, s, "F"); !got.IsNull() {
		t.Fatalf("expected F to be forgotten, got %v", got)
	}
}
