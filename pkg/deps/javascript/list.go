package javascript

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/matzehuels/offpack/pkg/deps"
	errs "github.com/matzehuels/offpack/pkg/errors"
)

// MalformedInputError reports an unusable line or document in user input.
type MalformedInputError struct {
	Line  int    // 1-based line number; 0 when the whole input is at fault
	Input string // Offending line or input name
	Err   error
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %q: %v", e.Line, e.Input, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Input, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// ParseList reads a plain-text package list. Each line names one package
// followed by an optional range:
//
//	# comments and blank lines are ignored
//	lodash ^4.17.0
//	react
//	@types/node@20
//
// A missing range means any version ("*"). The range may contain spaces,
// as in ">=1.2.0 <2.0.0".
func ParseList(r io.Reader) ([]deps.Request, error) {
	var out []deps.Request
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		req, err := parseLine(text)
		if err != nil {
			return nil, &MalformedInputError{Line: line, Input: text, Err: err}
		}
		out = append(out, req)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseLine(text string) (deps.Request, error) {
	fields := strings.Fields(text)
	name, rng := fields[0], strings.Join(fields[1:], " ")
	if len(fields) == 1 {
		name, rng = splitSpec(name)
	}
	if err := errs.ValidatePackageName(name); err != nil {
		return deps.Request{}, err
	}
	if rng == "" {
		rng = "*"
	}
	return deps.Request{Name: name, Range: rng}, nil
}

// splitSpec splits "name@range", leaving the scope marker of
// "@scope/name" alone.
func splitSpec(spec string) (name, rng string) {
	i := strings.LastIndex(spec, "@")
	if i <= 0 {
		return spec, ""
	}
	return spec[:i], spec[i+1:]
}

// TextList parses plain-text package lists with [ParseList].
type TextList struct{}

func (TextList) Type() string { return "list" }

func (TextList) Supports(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".list":
		return true
	}
	return false
}

func (TextList) Parse(r io.Reader) ([]deps.Request, error) { return ParseList(r) }
