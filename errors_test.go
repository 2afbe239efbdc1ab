package docweaver

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func Test_ExtractContext_Should_Point_At_Column(t *testing.T) {
	got := extractContext("line1\nline2\nline3", Position{Line: 2, Column: 3})
	want := "   1: line1\n-> 2: line2\n" + strings.Repeat(" ", 8) + "^\n   3: line3\n"
	if got != want {
		t.Fatalf("unexpected context:\n%q\nwant:\n%q", got, want)
	}
}

func Test_ExtractContext_Should_Align_Caret_On_Wide_Line_Numbers(t *testing.T) {
	lines := make([]string, 12)
	for i := range lines {
		lines[i] = fmt.Sprintf("row%d", i+1)
	}
	got := extractContext(strings.Join(lines, "\n"), Position{Line: 10, Column: 1})
	want := "-> 10: row10\n" + strings.Repeat(" ", len("-> 10: ")) + "^\n"
	if !strings.Contains(got, want) {
		t.Fatalf("caret not under column 1:\n%s", got)
	}
}

func Test_ExtractContext_Should_Be_Empty_Without_Source(t *testing.T) {
	if got := extractContext("", Position{Line: 1, Column: 1}); got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
	if got := extractContext("a\nb", Position{}); got != "" {
		t.Fatalf("expected empty context for zero position, got %q", got)
	}
	if got := extractContext("a", Position{Line: 9}); got != "" {
		t.Fatalf("expected empty context for out of range line, got %q", got)
	}
}

func Test_Errors_Should_Match_Sentinels(t *testing.T) {
	cases := []struct {
		err    error
		target error
	}{
		{NewUnknownTagError(Position{Line: 1, Column: 2}, "foo", ""), ErrUnknownTag},
		{NewMalformedInputError(Position{Line: 3}, "doc", "missing assembly name", ""), ErrMalformedInput},
		{NewRecursionLimitError(Position{}, "b", 8), ErrRecursionLimit},
		{&FormatArityError{TagName: "x", Want: 2, Got: 1}, ErrFormatArity},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("convert api.xml: %w", tc.err)
		if !errors.Is(wrapped, tc.target) {
			t.Errorf("%T does not match %v", tc.err, tc.target)
		}
	}
}

func Test_Error_Messages(t *testing.T) {
	err := NewUnknownTagError(Position{Line: 4, Column: 7}, "foo", "")
	if got := err.Error(); got != `unknown element type "foo" at line 4, column 7` {
		t.Errorf("unexpected message: %s", got)
	}

	mal := NewMalformedInputError(Position{Line: 1, Column: 1}, "list", `list requires a "type" attribute`, "<list>")
	if !strings.Contains(mal.Error(), "malformed <list> at line 1, column 1") || !strings.Contains(mal.Error(), "Context:") {
		t.Errorf("unexpected message: %s", mal.Error())
	}

	perr := NewParseError(Position{Line: 1}, errors.New("boom"), "")
	if !errors.Is(perr, perr.Err) || !strings.HasPrefix(perr.Error(), "parse: boom") {
		t.Errorf("unexpected parse error: %v", perr)
	}
}
