package docweaver

import (
	"regexp"
	"strings"
)

// Member ID kind prefixes as written by the compiler's documentation output.
var memberKinds = map[string]string{
	"N:": "Namespace",
	"T:": "Type",
	"F:": "Field",
	"P:": "Property",
	"M:": "Method",
	"E:": "Event",
	"!:": "Error",
}

var (
	// Characters disallowed in an anchor fragment, plus parentheses and '.'.
	anchorStrip = regexp.MustCompile(`["#%<>\[\\\]^` + "`" + `{|}().]`)
	msdnStrip   = regexp.MustCompile(`((^(([A-Z]:)|(\w+\s)))|(\(.+\)))`)
	msdnMatch   = regexp.MustCompile(`^(([A-Z]:)|(\w+\s))System\.`)
)

// NormalizeMemberName turns a member ID such as "M:MyLib.Foo.Bar" into its
// display form. A leading assembly segment right after the kind prefix is
// dropped when it equals assembly, then the prefix is spelled out:
// "M:MyLib.Foo.Bar" with assembly "MyLib" becomes "Method Foo.Bar".
func NormalizeMemberName(raw, assembly string) string {
	name := raw
	if assembly != "" && len(name) > 2 && name[1] == ':' && strings.HasPrefix(name[2:], assembly+".") {
		name = name[:2] + name[2+len(assembly)+1:]
	}
	if len(name) >= 2 {
		if kind, ok := memberKinds[name[:2]]; ok {
			name = kind + " " + name[2:]
		}
	}
	return name
}

// ToAnchor converts heading text to an in-document link target.
func ToAnchor(text string) string {
	return "#" + strings.ToLower(strings.ReplaceAll(anchorStrip.ReplaceAllString(text, ""), " ", "-"))
}

// ToMsdnLink converts a display name to a link into the MSDN library.
func ToMsdnLink(text string) string {
	return "https://msdn.microsoft.com/en-us/library/" + msdnStrip.ReplaceAllString(text, "")
}

// ToLink links names in the System namespace to MSDN and everything else to
// an in-document anchor.
func ToLink(text string) string {
	if msdnMatch.MatchString(text) {
		return ToMsdnLink(text)
	}
	return ToAnchor(text)
}
