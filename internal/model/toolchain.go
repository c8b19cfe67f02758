package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/shlex"
)

// Placeholders recognised in command templates.
const (
	PlaceholderSource = "{src}"
	PlaceholderOutput = "{out}"
	PlaceholderName   = "{name}"
)

// ErrEmptyCommand is returned for a template without any word.
var ErrEmptyCommand = errors.New("empty command template")

// CommandTemplate is a pre-split argument vector with placeholders.
type CommandTemplate struct {
	words []string
}

// ParseCommandTemplate splits a template with shell-like quoting rules. The
// result is only ever executed as an argument vector.
func ParseCommandTemplate(template string) (CommandTemplate, error) {
	words, err := shlex.Split(template)
	if err != nil {
		return CommandTemplate{}, fmt.Errorf("parse command template %q: %w", template, err)
	}

	if len(words) == 0 {
		return CommandTemplate{}, ErrEmptyCommand
	}

	return CommandTemplate{words: words}, nil
}

// MustCommandTemplate is ParseCommandTemplate for literals known to be valid.
func MustCommandTemplate(template string) CommandTemplate {
	t, err := ParseCommandTemplate(template)
	if err != nil {
		panic(err)
	}

	return t
}

// Program returns the first word of the template.
func (t CommandTemplate) Program() string {
	if len(t.words) == 0 {
		return ""
	}

	return t.words[0]
}

// IsZero reports whether the template is unset.
func (t CommandTemplate) IsZero() bool {
	return len(t.words) == 0
}

// Expand substitutes placeholders inside each word.
func (t CommandTemplate) Expand(src, out, name string) []string {
	replacer := strings.NewReplacer(
		PlaceholderSource, src,
		PlaceholderOutput, out,
		PlaceholderName, name,
	)

	args := make([]string, len(t.words))
	for i, w := range t.words {
		args[i] = replacer.Replace(w)
	}

	return args
}

func (t CommandTemplate) String() string {
	return strings.Join(t.words, " ")
}

// Toolchain configures how both sides of a case are built and run.
type Toolchain struct {
	Reference CommandTemplate
	Candidate CommandTemplate
	// CandidateSuffix is the suffix of the file the candidate emits. Empty
	// means the candidate writes a final executable to {out}.
	CandidateSuffix string
	// MaxTime bounds the candidate build and both executable runs.
	MaxTime time.Duration
	// ReferenceTimeout is the sanity bound for trusted reference invocations.
	ReferenceTimeout time.Duration
}

// EmitsIntermediate reports whether an assemble stage is needed.
func (tc Toolchain) EmitsIntermediate() bool {
	return tc.CandidateSuffix != ""
}
