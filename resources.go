// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>

package pdf

// Resources represents a page or XObject's /Resources dictionary: the
// named lookup tables content-stream operators index into (for example,
// "/F1 Tf" names a font in Font, "/Im0 Do" names an XObject in XObject).
//
// Grounded on the Context.Resources usage in content/extract.go and the
// pdf.Resources literal built by reader/reader_test.go's FuzzReader.
type Resources struct {
	ExtGState  Dict
	ColorSpace Dict
	Pattern    Dict
	Shading    Dict
	XObject    Dict
	Font       Dict
	Properties Dict
}

// ExtractResources decodes obj as a /Resources dictionary.
func ExtractResources(r Getter, obj Object) (*Resources, error) {
	dict, err := GetDict(r, obj)
	if err != nil {
		return nil, err
	}
	res := &Resources{}
	for name, field := range map[Name]*Dict{
		"ExtGState":  &res.ExtGState,
		"ColorSpace": &res.ColorSpace,
		"Pattern":    &res.Pattern,
		"Shading":    &res.Shading,
		"XObject":    &res.XObject,
		"Font":       &res.Font,
		"Properties": &res.Properties,
	} {
		sub, err := GetDict(r, dict.Get(name))
		if err != nil {
			return nil, err
		}
		*field = sub
	}
	return res, nil
}
