// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>

package content

// scannerError reports a malformed content-stream token, in the same
// small-typed-error style as pdf.MalformedFileError.
type scannerError struct {
	msg string
}

func (err *scannerError) Error() string {
	return "content stream: " + err.msg
}
