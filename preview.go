package docweaver

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// previewEngine is stateless and safe to share.
var previewEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// previewPolicy keeps the generated heading ids so anchor links resolve.
var previewPolicy = sync.OnceValue(func() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	return policy
})

// MarkdownParser exposes the parser used for previews so callers and tests
// can inspect the structure of generated Markdown.
func MarkdownParser() parser.Parser {
	return previewEngine.Parser()
}

// RenderHTML renders generated Markdown to sanitized HTML with
// GitHub-flavoured extensions, matching what a repository host would display.
func RenderHTML(markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := previewEngine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown preview: %w", err)
	}
	return previewPolicy().SanitizeBytes(buf.Bytes()), nil
}
