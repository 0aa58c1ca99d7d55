package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mgomes/tersescript/terse"
)

const topLevelScope = "<script>"

type lintWarning struct {
	Function string
	Pos      terse.Position
	Message  string
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("terse analyze: script path required")
	}

	scriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	engine := terse.MustNewEngine(terse.Config{})
	script, err := engine.Compile(string(input))
	if err != nil {
		return fmt.Errorf("analysis compile failed: %w", err)
	}

	warnings := analyzeProgram(script.Program())
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		line := max(warning.Pos.Line, 1)
		column := max(warning.Pos.Column, 1)
		fmt.Printf("%s:%d:%d: %s (%s)\n", scriptPath, line, column, warning.Message, warning.Function)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

// linter walks one function body (or the top level) tracking the labels
// GOTO can reach and the loops BREAK and CONTINUE can target.
type linter struct {
	function string
	warnings *[]lintWarning
	// blockLabels holds the label table of every enclosing block.
	blockLabels []map[string]struct{}
	loops       []string
	ifLabels    []string
}

func analyzeProgram(program *terse.Program) []lintWarning {
	warnings := make([]lintWarning, 0)
	top := &linter{function: topLevelScope, warnings: &warnings}
	top.block(program.Statements)

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		if warnings[i].Pos.Column != warnings[j].Pos.Column {
			return warnings[i].Pos.Column < warnings[j].Pos.Column
		}
		return warnings[i].Function < warnings[j].Function
	})
	return warnings
}

func (l *linter) warn(pos terse.Position, format string, args ...any) {
	*l.warnings = append(*l.warnings, lintWarning{
		Function: l.function,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	})
}

// block reports whether control can never fall out of the end of stmts.
// A statement after a jump is unreachable unless it carries a label;
// function declarations are hoisted and linted on their own.
func (l *linter) block(stmts []terse.Statement) bool {
	labels := make(map[string]struct{})
	for _, stmt := range stmts {
		if label := labelOf(stmt); label != "" {
			labels[label] = struct{}{}
		}
	}
	l.blockLabels = append(l.blockLabels, labels)
	defer func() { l.blockLabels = l.blockLabels[:len(l.blockLabels)-1] }()

	terminated := false
	for _, stmt := range stmts {
		if fn, ok := stmt.(*terse.FuncStmt); ok {
			body := &linter{function: fn.Name, warnings: l.warnings}
			body.block(fn.Body)
			continue
		}
		if terminated && labelOf(stmt) == "" {
			l.warn(stmt.Pos(), "unreachable statement")
			continue
		}
		terminated = l.statement(stmt)
	}
	return terminated
}

func (l *linter) statement(stmt terse.Statement) bool {
	switch s := stmt.(type) {
	case *terse.ReturnStmt:
		return true
	case *terse.GotoStmt:
		if !l.labelVisible(s.Label) {
			l.warn(s.Pos(), "GOTO target %s is not in an enclosing block", s.Label)
		}
		return true
	case *terse.BreakStmt:
		l.checkLoopJump("BREAK", s.Label, s.Pos(), true)
		return true
	case *terse.ContinueStmt:
		l.checkLoopJump("CONTINUE", s.Label, s.Pos(), false)
		return true
	case *terse.IfStmt:
		return l.ifStatement(s)
	case *terse.WhileStmt:
		l.loopBody(s.Label, s.Body)
		return false
	case *terse.ForStmt:
		l.loopBody(s.Label, s.Body)
		return false
	case *terse.ForEachStmt:
		l.loopBody(s.Label, s.Body)
		return false
	default:
		return false
	}
}

func (l *linter) ifStatement(stmt *terse.IfStmt) bool {
	l.ifLabels = append(l.ifLabels, stmt.Label)
	defer func() { l.ifLabels = l.ifLabels[:len(l.ifLabels)-1] }()

	all := true
	for _, branch := range stmt.Branches {
		if !l.block(branch.Body) {
			all = false
		}
	}
	if stmt.Alternate == nil {
		return false
	}
	if !l.block(stmt.Alternate) {
		all = false
	}
	// A BREAK aimed at the IF's own label resumes after it.
	return all && stmt.Label == ""
}

func (l *linter) loopBody(label string, body []terse.Statement) {
	l.loops = append(l.loops, label)
	l.block(body)
	l.loops = l.loops[:len(l.loops)-1]
}

func (l *linter) labelVisible(label string) bool {
	for _, labels := range l.blockLabels {
		if _, ok := labels[label]; ok {
			return true
		}
	}
	return false
}

func (l *linter) checkLoopJump(keyword, label string, pos terse.Position, allowIf bool) {
	if label == "" {
		if len(l.loops) == 0 {
			l.warn(pos, "%s outside of a loop", keyword)
		}
		return
	}
	for _, name := range l.loops {
		if name == label {
			return
		}
	}
	for _, name := range l.ifLabels {
		if name == label {
			if !allowIf {
				l.warn(pos, "%s cannot target IF label %s", keyword, label)
			}
			return
		}
	}
	l.warn(pos, "%s %s does not match any enclosing loop", keyword, label)
}

func labelOf(stmt terse.Statement) string {
	switch s := stmt.(type) {
	case *terse.LabelStmt:
		return s.Label
	case *terse.IfStmt:
		return s.Label
	case *terse.WhileStmt:
		return s.Label
	case *terse.ForStmt:
		return s.Label
	case *terse.ForEachStmt:
		return s.Label
	default:
		return ""
	}
}
