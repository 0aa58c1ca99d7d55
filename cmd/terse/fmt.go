package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/mgomes/tersescript/terse"
)

const (
	scriptExt  = ".terse"
	indentUnit = "  "
)

var (
	leadingLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\s*:\s*`)
	lineBreaks   = regexp.MustCompile(`\r\n|\r`)
)

func fmtCommand(args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	write := fs.Bool("w", false, "write result to source files instead of stdout")
	check := fs.Bool("check", false, "fail if any source file needs formatting")
	if err := fs.Parse(args); err != nil {
		return err
	}

	targets := fs.Args()
	if len(targets) == 0 {
		return errors.New("terse fmt: path required")
	}

	files, err := collectScriptFiles(targets)
	if err != nil {
		return err
	}

	changedCount := 0
	for _, path := range files {
		originalBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		original := string(originalBytes)
		formatted := formatSource(original)
		changed := formatted != original
		if changed {
			changedCount++
		}

		switch {
		case *write && changed:
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		case *check && changed:
			fmt.Println(path)
		case !*write && !*check:
			fmt.Print(formatted)
		}
	}

	if *check && changedCount > 0 {
		return fmt.Errorf("terse fmt: %d file(s) need formatting", changedCount)
	}
	return nil
}

// collectScriptFiles expands directories into the .terse files below them.
// Files named explicitly are taken whatever their extension.
func collectScriptFiles(targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	addFile := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			addFile(target)
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() || filepath.Ext(path) != scriptExt {
				return nil
			}
			addFile(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// formatSource re-indents blocks by two spaces, trims trailing whitespace
// and ends the file with exactly one newline. Multi-line STRING bodies are
// copied byte for byte.
func formatSource(source string) string {
	normalized := lineBreaks.ReplaceAllString(source, "\n")
	code, _ := terse.Preprocess(normalized)
	literal := terse.LiteralLines(normalized)

	lines := strings.Split(normalized, "\n")
	codeLines := strings.Split(code, "\n")
	depth := 0
	for i, line := range lines {
		if literal[i+1] {
			continue
		}
		text := strings.TrimSpace(line)
		if text == "" {
			lines[i] = ""
			continue
		}

		first, last := blockWords(codeLines[i])
		if first == "END" || first == "ELSE" {
			depth = max(depth-1, 0)
		}
		lines[i] = strings.Repeat(indentUnit, depth) + text
		if opensBlock(first) && last != "END" {
			depth++
		}
	}

	joined := strings.Join(lines, "\n")
	joined = strings.TrimRight(joined, "\n")
	return joined + "\n"
}

// blockWords returns the first word of a code line, after any label, and
// its last word.
func blockWords(code string) (string, string) {
	code = strings.TrimSpace(code)
	code = leadingLabel.ReplaceAllString(code, "")
	fields := strings.FieldsFunc(code, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ';'
	})
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], fields[len(fields)-1]
}

func opensBlock(word string) bool {
	switch word {
	case "IF", "ELSE", "WHILE", "FOR", "FUNC":
		return true
	default:
		return false
	}
}
