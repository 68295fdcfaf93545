// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>

package pdf

import (
	"errors"

	"golang.org/x/text/language"
)

// Catalog represents a PDF document catalog. The only required field is
// Pages, the root of the page tree.
//
// Kept from the teacher's catalog.go, trimmed to the fields SPEC_FULL.md's
// components F/G/H actually consume (page tree root, language, viewer
// layout/mode, outline/metadata references); the teacher's much larger
// field list also covers forms, optional content, digital signatures and
// Web Capture, none of which this spec's read/render scope reaches.
type Catalog struct {
	// Version (optional, PDF 1.4) overrides the file header's version.
	Version Version

	// Pages is the root of the document's page tree.
	Pages Reference

	// PageLabels (optional) is a number tree of page label dictionaries.
	PageLabels Object

	// ViewerPreferences (optional) controls how a viewer should present
	// the document.
	ViewerPreferences Object

	// PageLayout (optional) is one of SinglePage, OneColumn, TwoColumnLeft,
	// TwoColumnRight, TwoPageLeft, TwoPageRight.
	PageLayout Name

	// PageMode (optional) is one of UseNone, UseOutlines, UseThumbs,
	// FullScreen, UseOC, UseAttachments.
	PageMode Name

	// Outlines (optional) is the root of the document outline hierarchy.
	Outlines Reference

	// OpenAction (optional) is a destination or action to perform when the
	// document is opened.
	OpenAction Object

	// Metadata (optional, PDF 1.4) is a reference to an XMP metadata
	// stream.
	Metadata Reference

	// Lang (optional, PDF 1.4) is the natural language for text in the
	// document.
	Lang language.Tag
}

// ExtractCatalog reads obj (expected to resolve to a /Type /Catalog
// dictionary) into a *Catalog.
func ExtractCatalog(r Getter, obj Object) (*Catalog, error) {
	dict, err := GetDictTyped(r, obj, "Catalog")
	if err != nil {
		return nil, err
	}
	if dict.Len() == 0 {
		return nil, &MalformedFileError{Err: errors.New("catalog dictionary is missing")}
	}

	var pages Reference
	if ref, ok := dict.Get("Pages").(Reference); ok {
		pages = ref
	} else {
		return nil, &MalformedFileError{Err: errors.New("catalog is missing required /Pages entry")}
	}

	pageLayout, _ := GetName(r, dict.Get("PageLayout"))
	pageMode, _ := GetName(r, dict.Get("PageMode"))

	var outlines, metadata Reference
	if ref, ok := dict.Get("Outlines").(Reference); ok {
		outlines = ref
	}
	if ref, ok := dict.Get("Metadata").(Reference); ok {
		metadata = ref
	}

	var lang language.Tag
	if dict.Get("Lang") != nil {
		langStr, err := GetTextString(r, dict.Get("Lang"))
		if err == nil && langStr != "" {
			lang, _ = language.Parse(string(langStr))
		}
	}

	var version Version
	if name, err := GetName(r, dict.Get("Version")); err == nil && name != "" {
		version, _ = ParseVersion(string(name))
	}

	return &Catalog{
		Version:           version,
		Pages:             pages,
		PageLabels:        dict.Get("PageLabels"),
		ViewerPreferences: dict.Get("ViewerPreferences"),
		PageLayout:        pageLayout,
		PageMode:          pageMode,
		Outlines:          outlines,
		OpenAction:        dict.Get("OpenAction"),
		Metadata:          metadata,
		Lang:              lang,
	}, nil
}
