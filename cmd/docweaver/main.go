// Docweaver converts XML documentation files, as emitted by .NET compilers,
// into Markdown.
//
// Usage:
//
//	# Convert one file to stdout
//	docweaver convert MyLib.xml
//
//	# Convert several files, writing MyLib.md and Other.md next to them
//	docweaver convert MyLib.xml Other.xml
//
//	# Keep converting while the file changes, warning on unknown elements
//	docweaver convert --policy warn --watch -o docs/MyLib.md MyLib.xml
//
//	# Render an HTML preview
//	docweaver convert --format html -o MyLib.html MyLib.xml
package main

func main() {
	Execute()
}
