// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>

package pdf

import (
	"bytes"
	"testing"
	"time"
)

// nopGetter is a Getter that never has anything to resolve; tests that only
// pass direct (non-Reference) objects to the Get* helpers use it to avoid
// building a full Document.
type nopGetter struct{}

func (nopGetter) GetMeta() *MetaInfo { return &MetaInfo{} }
func (nopGetter) Get(Reference, bool) (Object, error) {
	return nil, &MalformedFileError{Err: errNoDate} // never expected to be called
}

func pdfString(t *testing.T, obj Object) string {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := obj.PDF(buf); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestNumberPDF(t *testing.T) {
	cases := []struct {
		n    Number
		want string
	}{
		{0, "0"},
		{3, "3"},
		{-17, "-17"},
		{3.5, "3.5"},
		{0.125, "0.125"},
	}
	for _, c := range cases {
		if got := pdfString(t, c.n); got != c.want {
			t.Errorf("Number(%v).PDF() = %q, want %q", float64(c.n), got, c.want)
		}
	}
}

func TestStringPDFEscaping(t *testing.T) {
	s := String("a(b)c\\d\ne")
	got := pdfString(t, s)
	want := `(a\(b\)c\\d\ne)`
	if got != want {
		t.Errorf("String.PDF() = %q, want %q", got, want)
	}
}

func TestHexStringPDF(t *testing.T) {
	s := HexString([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	got := pdfString(t, s)
	want := "<deadbeef>"
	if got != want {
		t.Errorf("HexString.PDF() = %q, want %q", got, want)
	}
}

func TestNamePDFEscaping(t *testing.T) {
	n := Name("A#B C")
	got := pdfString(t, n)
	want := "/A#23B#20C"
	if got != want {
		t.Errorf("Name.PDF() = %q, want %q", got, want)
	}
}

func TestArrayPDF(t *testing.T) {
	a := Array{Number(1), Name("Foo"), nil}
	got := pdfString(t, a)
	want := "[1 /Foo null]"
	if got != want {
		t.Errorf("Array.PDF() = %q, want %q", got, want)
	}
}

func TestDictPreservesInsertionOrder(t *testing.T) {
	d := NewDict()
	d.Set("Zed", Number(1))
	d.Set("Alpha", Number(2))
	d.Set("Mid", Number(3))
	d.Set("Alpha", Number(4)) // overwrite should not move position

	keys := d.Keys()
	want := []Name{"Zed", "Alpha", "Mid"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
	if d.Get("Alpha") != Number(4) {
		t.Errorf("Get(Alpha) = %v, want 4", d.Get("Alpha"))
	}

	got := pdfString(t, d)
	want2 := "<< /Zed 1 /Alpha 4 /Mid 3 >>"
	if got != want2 {
		t.Errorf("Dict.PDF() = %q, want %q", got, want2)
	}
}

func TestDictDelete(t *testing.T) {
	d := NewDict()
	d.Set("A", Number(1))
	d.Set("B", Number(2))
	d.Delete("A")
	if d.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", d.Len())
	}
	if d.Get("A") != nil {
		t.Errorf("Get(A) = %v, want nil", d.Get("A"))
	}
	if d.Get("B") != Number(2) {
		t.Errorf("Get(B) = %v, want 2", d.Get("B"))
	}
}

func TestReferenceString(t *testing.T) {
	ref := NewReference(12, 3)
	if got, want := ref.String(), "12 3 R"; got != want {
		t.Errorf("Reference.String() = %q, want %q", got, want)
	}
	if got, want := pdfString(t, ref), "12 3 R"; got != want {
		t.Errorf("Reference.PDF() = %q, want %q", got, want)
	}
}

func TestGetDictTypedRejectsWrongType(t *testing.T) {
	d := NewDict()
	d.Set("Type", Name("Page"))
	_, err := GetDictTyped(nopGetter{}, d, "Pages")
	if err == nil {
		t.Fatal("expected error for mismatched /Type, got nil")
	}
}

func TestGetDictTypedAcceptsMatchingType(t *testing.T) {
	d := NewDict()
	d.Set("Type", Name("Pages"))
	got, err := GetDictTyped(nopGetter{}, d, "Pages")
	if err != nil {
		t.Fatal(err)
	}
	if got.Get("Type") != Name("Pages") {
		t.Errorf("got %v", got)
	}
}

func TestAsTextStringUTF16(t *testing.T) {
	s := String(append([]byte{0xFE, 0xFF}, 0x00, 'h', 0x00, 'i'))
	got := s.AsTextString()
	if got != "hi" {
		t.Errorf("AsTextString() = %q, want %q", got, "hi")
	}
}

func TestAsTextStringPDFDoc(t *testing.T) {
	s := String("hello")
	got := s.AsTextString()
	if got != "hello" {
		t.Errorf("AsTextString() = %q, want %q", got, "hello")
	}
}

func TestAsDate(t *testing.T) {
	cases := []struct {
		in   string
		want string // RFC3339 in UTC
	}{
		{"D:20230115120000Z", "2023-01-15T12:00:00Z"},
		{"D:20230115", "2023-01-15T00:00:00Z"},
	}
	for _, c := range cases {
		d, err := AsDate(String(c.in))
		if err != nil {
			t.Errorf("AsDate(%q): %v", c.in, err)
			continue
		}
		got := time.Time(d).UTC().Format(time.RFC3339)
		if got != c.want {
			t.Errorf("AsDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAsDateRejectsGarbage(t *testing.T) {
	_, err := AsDate(String("not a date"))
	if err == nil {
		t.Fatal("expected error for invalid date string")
	}
}
