// Package pdf implements the object model, lexer, parser, cross-reference
// handling and filter pipeline needed to read and render a PDF document.
//
// A Document is opened from a source.ChunkSource, which may only have part
// of the underlying file loaded at any time:
//
//	src := source.NewMemorySource(data)
//	doc, err := pdf.Open(src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cat, err := doc.Catalog()
//
// The following types implement native PDF objects and all satisfy the
// Object interface:
//
//	Array
//	Boolean
//	Dict
//	HexString
//	Name
//	Null
//	Number
//	Operator
//	Reference
//	*Stream
//	String
//
// Indirect references are resolved with Resolve, or with one of the typed
// Get* helpers (GetDict, GetArray, GetName, ...), each of which follows a
// reference chain and reports a *MalformedFileError if the resolved value
// has the wrong type.
//
// This package only supports reading; there is no writer.
package pdf
