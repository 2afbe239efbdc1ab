// Package docweaver converts XML API documentation, the member/summary/param
// files emitted by documentation compilers, into Markdown.
//
// A Converter walks a parsed tree with a table of render rules keyed by
// element name. Elements without a rule are handled by an UnknownTagPolicy:
// fail, warn through a WarningSink, or silently render nothing.
//
//	md, err := docweaver.NewConverter(nil,
//		docweaver.WithUnknownPolicy(docweaver.UnknownWarn),
//		docweaver.WithWarningSink(docweaver.NewWriterSink(os.Stderr)),
//	).ConvertString(xmlSource)
package docweaver
