package docweaver

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched through errors.Is against the typed errors below.
var (
	ErrUnknownTag     = errors.New("unknown element type")
	ErrMalformedInput = errors.New("malformed input")
	ErrRecursionLimit = errors.New("recursion limit exceeded")
	ErrFormatArity    = errors.New("format arity mismatch")
)

// Position represents a position in the source document.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// IsZero reports whether the position carries no location information,
// which is the case for hand-built trees.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// ConversionError is the base error type for all conversion failures.
type ConversionError struct {
	Pos     Position // Position where the error occurred
	Message string   // Error message
	Context string   // Surrounding source for context
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s at %s\nContext: %s", e.Message, e.Pos, e.Context)
	}
	return fmt.Sprintf("%s at %s", e.Message, e.Pos)
}

// ParseError reports XML that could not be decoded into a document tree.
type ParseError struct {
	ConversionError
	Err error // underlying decoder error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return "parse: " + e.ConversionError.Error()
}

// Unwrap returns the decoder error.
func (e *ParseError) Unwrap() error { return e.Err }

// UnknownTagError represents an element with no render rule, raised under
// the UnknownError policy.
type UnknownTagError struct {
	ConversionError
	TagName string // effective name that failed the lookup
}

// Error implements the error interface.
func (e *UnknownTagError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("unknown element type %q at %s\nContext: %s", e.TagName, e.Pos, e.Context)
	}
	return fmt.Sprintf("unknown element type %q at %s", e.TagName, e.Pos)
}

// Is matches ErrUnknownTag.
func (e *UnknownTagError) Is(target error) bool { return target == ErrUnknownTag }

// MalformedInputError represents a tree that breaks a structural assumption
// of a render rule, e.g. a doc root without an assembly name.
type MalformedInputError struct {
	ConversionError
	TagName string // element whose rule failed
}

// Error implements the error interface.
func (e *MalformedInputError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("malformed <%s> at %s: %s\nContext: %s", e.TagName, e.Pos, e.Message, e.Context)
	}
	return fmt.Sprintf("malformed <%s> at %s: %s", e.TagName, e.Pos, e.Message)
}

// Is matches ErrMalformedInput.
func (e *MalformedInputError) Is(target error) bool { return target == ErrMalformedInput }

// RecursionLimitError is returned when the tree nests deeper than the
// renderer's configured ceiling.
type RecursionLimitError struct {
	ConversionError
	TagName string
	Limit   int
}

// Error implements the error interface.
func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("recursion limit %d exceeded at <%s> %s", e.Limit, e.TagName, e.Pos)
}

// Is matches ErrRecursionLimit.
func (e *RecursionLimitError) Is(target error) bool { return target == ErrRecursionLimit }

// FormatArityError reports an extractor that produced a different number of
// values than its template has placeholders. It is a rule-authoring bug.
type FormatArityError struct {
	TagName string
	Want    int
	Got     int
}

// Error implements the error interface.
func (e *FormatArityError) Error() string {
	return fmt.Sprintf("rule <%s>: template expects %d values, extractor produced %d", e.TagName, e.Want, e.Got)
}

// Is matches ErrFormatArity.
func (e *FormatArityError) Is(target error) bool { return target == ErrFormatArity }

// NewUnknownTagError creates a new UnknownTagError.
func NewUnknownTagError(pos Position, tagName, source string) *UnknownTagError {
	return &UnknownTagError{
		ConversionError: ConversionError{
			Pos:     pos,
			Message: fmt.Sprintf("Unknown element type %q", tagName),
			Context: extractContext(source, pos),
		},
		TagName: tagName,
	}
}

// NewMalformedInputError creates a new MalformedInputError.
func NewMalformedInputError(pos Position, tagName, message, source string) *MalformedInputError {
	return &MalformedInputError{
		ConversionError: ConversionError{
			Pos:     pos,
			Message: message,
			Context: extractContext(source, pos),
		},
		TagName: tagName,
	}
}

// NewRecursionLimitError creates a new RecursionLimitError.
func NewRecursionLimitError(pos Position, tagName string, limit int) *RecursionLimitError {
	return &RecursionLimitError{
		ConversionError: ConversionError{
			Pos:     pos,
			Message: "document nests too deeply",
		},
		TagName: tagName,
		Limit:   limit,
	}
}

// NewParseError creates a new ParseError.
func NewParseError(pos Position, err error, source string) *ParseError {
	return &ParseError{
		ConversionError: ConversionError{
			Pos:     pos,
			Message: err.Error(),
			Context: extractContext(source, pos),
		},
		Err: err,
	}
}

// extractContext extracts a snippet of text around the error position for context.
// It tries to include a few lines before and after the error.
func extractContext(content string, pos Position) string {
	if content == "" || pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(content, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	startLine := max(0, pos.Line-3)
	endLine := min(len(lines)-1, pos.Line+1)

	var contextBuilder strings.Builder
	for i := startLine; i <= endLine; i++ {
		lineNum := i + 1
		if lineNum == pos.Line {
			prefix := fmt.Sprintf("-> %d: ", lineNum)
			contextBuilder.WriteString(prefix + lines[i] + "\n")

			// Add a pointer to the column if possible
			if pos.Column > 0 && pos.Column <= len(lines[i])+1 {
				contextBuilder.WriteString(strings.Repeat(" ", len(prefix)+pos.Column-1) + "^\n")
			}
		} else {
			contextBuilder.WriteString(fmt.Sprintf("   %d: %s\n", lineNum, lines[i]))
		}
	}

	return contextBuilder.String()
}
