package docweaver

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convert(t *testing.T, src string, opts ...func(*Converter)) string {
	t.Helper()
	out, err := NewConverter(nil, opts...).ConvertString(src)
	require.NoError(t, err)
	return out
}

func Test_Converter(t *testing.T) {
	t.Run("should render a document with assembly heading, member heading and separator", func(t *testing.T) {
		src := `<doc><assembly><name>MyLib</name></assembly><members><member name="T:MyLib.Foo"><summary>Does <b>stuff</b>.</summary></member></members></doc>`
		want := "# MyLib #\n\n## Type Foo\n\nDoes **stuff**.\n\n---\n\n"
		if diff := cmp.Diff(want, convert(t, src)); diff != "" {
			t.Fatalf("unexpected markdown (-want +got):\n%s", diff)
		}
	})

	t.Run("should render a local anchor reference", func(t *testing.T) {
		assert.Equal(t, "[Local](#local-anchor)", convert(t, `<see cref="!:#local-anchor">Local</see>`))
	})

	t.Run("should label an empty local anchor with its fragment", func(t *testing.T) {
		assert.Equal(t, "[top](#top)", convert(t, `<see cref="!:#top"/>`))
	})

	t.Run("should render a bullet list", func(t *testing.T) {
		src := `<list type="bullet"><item><description>first</description></item><item><description>second</description></item></list>`
		assert.Equal(t, "* first\n* second\n", convert(t, src))
	})

	t.Run("should fall back to bullets for unrecognised list types", func(t *testing.T) {
		src := `<list type="fancy"><item>one</item></list>`
		assert.Equal(t, "* one\n", convert(t, src))
	})

	t.Run("should number every entry with 1.", func(t *testing.T) {
		src := `<list type="number"><item><term>x</term><description>y</description></item><item>plain</item></list>`
		assert.Equal(t, "1. x: y\n1. plain\n", convert(t, src))
	})

	t.Run("should render a table list with its own header", func(t *testing.T) {
		src := `<list type="table"><listheader><term>Key</term><term>Value</term></listheader>` +
			`<item><term>a</term><term>1</term></item><item><term>b</term><term>2</term></item></list>`
		assert.Equal(t, "\n| Key | Value |\n| --- | --- |\n| a | 1 |\n| b | 2 |\n\n", convert(t, src))
	})

	t.Run("should render a table list with the default header", func(t *testing.T) {
		src := `<list type="table"><item><term>a</term><term>1</term></item></list>`
		assert.Equal(t, "\n| Name | Description |\n|-----|------|\n| a | 1 |\n\n", convert(t, src))
	})

	t.Run("should emit the parameter table header only for the first param", func(t *testing.T) {
		src := `<member name="M:Lib.F(System.Int32,System.Int32)"><param name="x">the x</param><param name="y">the y</param></member>`
		want := "## Method Lib.F(System.Int32,System.Int32)\n\n" +
			"\n| Name | Description |\n|-----|------|\n|x: |the x|\n|y: |the y|\n\n\n---\n"
		assert.Equal(t, RemoveRedundantLineBreaks(want), convert(t, src))
	})

	t.Run("should treat a typeparam after a non-param sibling as the first row", func(t *testing.T) {
		src := `<member name="T:Box"><summary>s</summary><typeparam name="T">item</typeparam></member>`
		out := convert(t, src)
		assert.Contains(t, out, "| Name | Description |\n|-----|------|\n|T: |item|\n")
	})

	t.Run("should keep a typeparam that follows a param as a plain row", func(t *testing.T) {
		src := `<member name="M:F"><param name="a">A</param><typeparam name="T">B</typeparam></member>`
		out := convert(t, src)
		assert.Equal(t, 1, strings.Count(out, "| Name | Description |"))
		assert.Contains(t, out, "|a: |A|\n|T: |B|\n")
	})

	t.Run("should link page references through the normalised member name", func(t *testing.T) {
		src := `<doc><assembly><name>MyLib</name></assembly><members>` +
			`<member name="T:MyLib.Foo"><summary>See <see cref="T:MyLib.Bar"/>.</summary></member></members></doc>`
		assert.Contains(t, convert(t, src), "See [Type Bar](#type-bar).")
	})

	t.Run("should render seealso as a heading link", func(t *testing.T) {
		src := `<seealso cref="M:Foo.Bar(System.String)">bar</seealso>`
		assert.Equal(t, "##### See also: [bar](#method-foobarsystemstring)\n", convert(t, src))
	})

	t.Run("should link System references to MSDN when enabled", func(t *testing.T) {
		src := `<see cref="T:System.String"/>`
		assert.Equal(t, "[Type System.String](#type-systemstring)", convert(t, src))
		assert.Equal(t,
			"[Type System.String](https://msdn.microsoft.com/en-us/library/System.String)",
			convert(t, src, WithSystemLinks(true)))
	})

	t.Run("should strip the assembly bound by WithAssemblyName without a doc root", func(t *testing.T) {
		src := `<member name="P:Acme.Widget.Size"><value>pixels</value></member>`
		out := convert(t, src, WithAssemblyName("Acme"))
		assert.True(t, strings.HasPrefix(out, "## Property Widget.Size\n\n**Value**: pixels"), out)
	})

	t.Run("should render inline and block wraps", func(t *testing.T) {
		cases := []struct{ src, want string }{
			{`<i>x</i>`, "*x*"},
			{`<b>x</b>`, "**x**"},
			{`<u>x</u>`, "**x**"},
			{`<c>x</c>`, " `x` "},
			{`<b>a<i>b<u>c</u></i></b>`, "**a*b**c*****"},
			{`<para>x</para>`, "x\n\n"},
			{`<p>x</p>`, "x\n\n"},
			{`<returns>x</returns>`, "**Returns**: x\n\n"},
			{`<value>x</value>`, "**Value**: x\n\n"},
			{`<example>x</example>`, "##### Example: x\n\n"},
			{`<version>2.1</version>`, "*Added in 2.1*"},
			{`<a href="https://x.io">site</a>`, "[site](https://x.io)"},
			{`<a href="https://x.io"/>`, "[https://x.io](https://x.io)"},
			{`<paramref name="count"/>`, "`count`"},
			{`<exception cref="T:System.ArgumentNullException">when null</exception>`,
				"[[T:System.ArgumentNullException|T:System.ArgumentNullException]]: when null\n\n"},
			{`<preliminary/>`, "**[This is preliminary documentation and subject to change.]**"},
			{`<preliminary>beta</preliminary>`, "**beta**"},
			{`<none>ignored</none>`, ""},
		}
		for _, tc := range cases {
			assert.Equal(t, tc.want, convert(t, tc.src), tc.src)
		}
	})

	t.Run("should prefix quoted blocks line by line", func(t *testing.T) {
		assert.Equal(t, "\n\n> line\n\n", convert(t, `<remarks>line</remarks>`))
		assert.Equal(t, "\n\n> a\n> \n> b\n\n", convert(t, `<blockquote><para>a</para>b</blockquote>`))
	})

	t.Run("should join platform entries", func(t *testing.T) {
		src := `<platform><os>Windows</os><frameworks><compact>true</compact></frameworks></platform>`
		assert.Equal(t, "*Available on Windows, Compact Framework*", convert(t, src))
		src = `<platform><frameworks><compact>false</compact></frameworks></platform>`
		assert.Equal(t, "*Available on .NET Framework*", convert(t, src))
	})

	t.Run("should dedent and fence code", func(t *testing.T) {
		src := "<code lang=\"csharp\">\n        var x = 1;\n        if (x) {\n            y();\n        }\n    </code>"
		want := "\n\n###### csharp code\n\n```\n    var x = 1;\n    if (x) {\n        y();\n    }\n```\n\n"
		assert.Equal(t, want, convert(t, src))
	})

	t.Run("should escape and collapse text", func(t *testing.T) {
		src := "<summary>a &lt; b &amp; \"c\"\n   next\tline</summary>"
		assert.Equal(t, "a &lt; b &amp; &quot;c&quot; next line\n\n", convert(t, src))
	})
}

func Test_Converter_UnknownPolicy(t *testing.T) {
	src := `<summary>Keep <foo>dropped <b>x</b></foo> this</summary>`

	t.Run("should fail without output when policy is error", func(t *testing.T) {
		out, err := NewConverter(nil).ConvertString(src)
		require.Error(t, err)
		assert.Empty(t, out)
		assert.True(t, errors.Is(err, ErrUnknownTag))

		var tagErr *UnknownTagError
		require.True(t, errors.As(err, &tagErr))
		assert.Equal(t, "foo", tagErr.TagName)
		assert.Equal(t, 1, tagErr.Pos.Line)
		assert.Equal(t, 15, tagErr.Pos.Column)
		assert.Contains(t, tagErr.Context, "-> 1:")
	})

	t.Run("should warn once and drop the element with its children", func(t *testing.T) {
		sink := &CollectingSink{}
		out, err := NewConverter(nil, WithUnknownPolicy(UnknownWarn), WithWarningSink(sink)).ConvertString(src)
		require.NoError(t, err)
		assert.Equal(t, "Keep  this\n\n", out)
		assert.Equal(t, []string{`Unknown element type "foo" on line 1, pos 15`}, sink.Warnings())
	})

	t.Run("should drop silently when policy is accept", func(t *testing.T) {
		sink := &CollectingSink{}
		out, err := NewConverter(nil, WithUnknownPolicy(UnknownAccept), WithWarningSink(sink)).ConvertString(src)
		require.NoError(t, err)
		assert.Equal(t, "Keep  this\n\n", out)
		assert.Empty(t, sink.Warnings())
	})

	t.Run("should warn once per unknown element", func(t *testing.T) {
		sink := &CollectingSink{}
		_, err := NewConverter(nil, WithUnknownPolicy(UnknownWarn), WithWarningSink(sink)).
			ConvertString(`<summary><x/><y/><x/></summary>`)
		require.NoError(t, err)
		assert.Len(t, sink.Warnings(), 3)
	})
}

func Test_Converter_Should_Report_Malformed_Input(t *testing.T) {
	cases := map[string]string{
		"doc without assembly": `<doc><members/></doc>`,
		"list without type":    `<summary><list><item>x</item></list></summary>`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := NewConverter(nil).ConvertString(src)
			require.Error(t, err)
			assert.Empty(t, out)
			assert.True(t, errors.Is(err, ErrMalformedInput), err.Error())
		})
	}
}

func Test_Converter_Should_Render_Doc_Without_Members(t *testing.T) {
	assert.Equal(t, "# Empty #\n\n", convert(t, `<doc><assembly><name>Empty</name></assembly></doc>`))
}

func Test_Converter_Should_Be_Safe_For_Concurrent_Use(t *testing.T) {
	conv := NewConverter(nil, WithUnknownPolicy(UnknownAccept))
	docs := []string{
		`<doc><assembly><name>A</name></assembly><members><member name="T:A.X"><summary>x</summary></member></members></doc>`,
		`<doc><assembly><name>B</name></assembly><members><member name="T:B.Y"><summary>y</summary></member></members></doc>`,
	}
	want := []string{
		"# A #\n\n## Type X\n\nx\n\n---\n\n",
		"# B #\n\n## Type Y\n\ny\n\n---\n\n",
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := conv.ConvertString(docs[i%2])
			if err != nil || got != want[i%2] {
				errs <- got
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("unexpected concurrent result: %q", got)
	}
}

func Test_ToMarkdown(t *testing.T) {
	out, err := ToMarkdown(`<summary>hi</summary>`)
	require.NoError(t, err)
	assert.Equal(t, "hi\n\n", out)

	_, err = ToMarkdown(`<summary><bogus/></summary>`)
	assert.ErrorIs(t, err, ErrUnknownTag)
}
