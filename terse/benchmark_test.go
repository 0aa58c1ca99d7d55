package terse

import (
	"context"
	"testing"
)

func benchmarkScript(b *testing.B, source string) *Script {
	b.Helper()
	engine := MustNewEngine(Config{StepQuota: 5_000_000})
	script, err := engine.Compile(source)
	if err != nil {
		b.Fatalf("compile failed: %v", err)
	}
	return script
}

func runBenchmark(b *testing.B, script *Script) {
	b.Helper()
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if _, err := script.Run(ctx); err != nil {
			b.Fatalf("run failed: %v", err)
		}
	}
}

func BenchmarkArithmeticLoop(b *testing.B) {
	runBenchmark(b, benchmarkScript(b, `total = 0
FOR i FROM 1 TO 1000
  total = total + i * 2
END`))
}

func BenchmarkRecursiveCalls(b *testing.B) {
	runBenchmark(b, benchmarkScript(b, `FUNC FIB n
  IF n < 2
    RETURN n
  END
  RETURN FIB(n - 1) + FIB(n - 2)
END
x = FIB 15`))
}

func BenchmarkArrayBuiltins(b *testing.B) {
	runBenchmark(b, benchmarkScript(b, `items = []
FOR i FROM 1 TO 200
  PUSH items i
END
FOR EACH v IN items
  s = JOIN (SLICE items 1 10) ","
END`))
}

func BenchmarkGotoLoop(b *testing.B) {
	runBenchmark(b, benchmarkScript(b, `n = 0
top:
n = n + 1
IF n < 500
  GOTO top
END`))
}
