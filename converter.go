package docweaver

import (
	"fmt"
	"io"
	"os"
)

// Converter turns documentation trees into Markdown. Its configuration is
// fixed at construction, so one Converter may serve concurrent calls.
type Converter struct {
	rules        *RuleTable
	policy       UnknownTagPolicy
	sink         WarningSink
	assemblyName string
	maxDepth     int
	systemLinks  bool
	parseOpts    []ParseOption
}

// NewConverter returns a converter over rules, or over DefaultRules when
// rules is nil. Unknown elements fail the conversion unless a different
// policy is configured.
func NewConverter(rules *RuleTable, opts ...func(*Converter)) *Converter {
	if rules == nil {
		rules = DefaultRules()
	}
	c := &Converter{
		rules:    rules,
		policy:   UnknownError,
		sink:     Discard,
		maxDepth: DefaultMaxDepth,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithUnknownPolicy sets what happens to elements without a render rule.
func WithUnknownPolicy(p UnknownTagPolicy) func(*Converter) {
	return func(c *Converter) { c.policy = p }
}

// WithWarningSink sets where UnknownWarn reports go.
func WithWarningSink(s WarningSink) func(*Converter) {
	return func(c *Converter) {
		if s != nil {
			c.sink = s
		}
	}
}

// WithAssemblyName binds an assembly name for trees converted without a
// doc root, such as a single member fragment.
func WithAssemblyName(name string) func(*Converter) {
	return func(c *Converter) { c.assemblyName = name }
}

// WithMaxDepth overrides DefaultMaxDepth. Zero or less disables the limit.
func WithMaxDepth(n int) func(*Converter) {
	return func(c *Converter) { c.maxDepth = n }
}

// WithSystemLinks links cross-references into the System namespace to the
// MSDN library instead of to in-document anchors.
func WithSystemLinks(enabled bool) func(*Converter) {
	return func(c *Converter) { c.systemLinks = enabled }
}

// WithParseOptions sets the options ConvertString and ConvertReader parse with.
func WithParseOptions(opts ...ParseOption) func(*Converter) {
	return func(c *Converter) { c.parseOpts = append(c.parseOpts, opts...) }
}

// Context returns the context a conversion starts from.
func (c *Converter) Context() ConversionContext {
	return ConversionContext{
		AssemblyName: c.assemblyName,
		Policy:       c.policy,
		Sink:         c.sink,
	}
}

// Convert renders n and collapses redundant blank lines. On error no
// output is returned.
func (c *Converter) Convert(n Node) (string, error) {
	if n == nil {
		return "", fmt.Errorf("convert: nil node")
	}
	r := NewRenderer(c.rules, c.maxDepth)
	r.systemLinks = c.systemLinks
	out, err := r.Render(n, c.Context())
	if err != nil {
		return "", err
	}
	return RemoveRedundantLineBreaks(out), nil
}

// ConvertString parses s and converts the resulting document.
func (c *Converter) ConvertString(s string) (string, error) {
	doc, err := ParseString(s, c.parseOpts...)
	if err != nil {
		return "", err
	}
	return c.Convert(doc)
}

// ConvertReader parses everything read from r and converts it.
func (c *Converter) ConvertReader(r io.Reader) (string, error) {
	doc, err := Parse(r, c.parseOpts...)
	if err != nil {
		return "", err
	}
	return c.Convert(doc)
}

// ToMarkdown converts an XML documentation string with the default rules.
// Unknown elements are an error.
func ToMarkdown(s string) (string, error) {
	return NewConverter(nil, WithWarningSink(NewWriterSink(os.Stderr))).ConvertString(s)
}
