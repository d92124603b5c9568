package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Photo is the single profile photo reference of a resume.
type Photo struct {
	Photolink *string `json:"photolink"`
}

func (p Photo) clone() Photo {
	if p.Photolink == nil {
		return p
	}
	link := *p.Photolink
	return Photo{Photolink: &link}
}

// PhotoShape records which JSON shape a PhotoValue was decoded from.
type PhotoShape int

const (
	// PhotoShapeNone: the member was absent or null.
	PhotoShapeNone PhotoShape = iota
	// PhotoShapeList: [{"photo": url}] or [{"photolink": url}].
	PhotoShapeList
	// PhotoShapeObject: {"photolink": url}.
	PhotoShapeObject
)

func (s PhotoShape) String() string {
	switch s {
	case PhotoShapeNone:
		return "none"
	case PhotoShapeList:
		return "list"
	case PhotoShapeObject:
		return "object"
	}
	return fmt.Sprintf("PhotoShape(%d)", int(s))
}

// PhotoValue is the "photos" member of a resume.
//
// Editors have emitted it both as an array of entries and as a plain object.
// Decoding accepts either and remembers which one it saw, so the outbound
// translator can apply its precedence rules. Encoding always produces the
// canonical object {"photolink": ...}.
type PhotoValue struct {
	Shape PhotoShape
	Link  *string
}

// NewPhotoValue returns a canonical object-shaped value for link.
func NewPhotoValue(link string) PhotoValue {
	return PhotoValue{Shape: PhotoShapeObject, Link: &link}
}

// URL returns the link or "".
func (v PhotoValue) URL() string {
	if v.Link == nil {
		return ""
	}
	return *v.Link
}

func (v PhotoValue) clone() PhotoValue {
	if v.Link == nil {
		return v
	}
	link := *v.Link
	return PhotoValue{Shape: v.Shape, Link: &link}
}

// MarshalJSON writes the canonical object shape.
func (v PhotoValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(Photo{Photolink: v.Link})
}

// photoEntry is one element of the list shape. Both keys have been used.
type photoEntry struct {
	Photo     json.RawMessage `json:"photo"`
	Photolink *string         `json:"photolink"`
}

// UnmarshalJSON accepts null, the list shape and the object shape.
func (v *PhotoValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*v = PhotoValue{}

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return nil

	case data[0] == '[':
		var entries []photoEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("model: decoding photo list: %w", err)
		}
		v.Shape = PhotoShapeList
		if len(entries) > 0 {
			v.Link = entries[0].link()
		}
		return nil

	case data[0] == '{':
		var p Photo
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("model: decoding photo object: %w", err)
		}
		v.Shape = PhotoShapeObject
		v.Link = p.Photolink
		return nil
	}

	return fmt.Errorf("model: unsupported photo value %s", string(data))
}

// link prefers the nested "photo" member, which may itself be a string or a
// {"photolink"} object, and falls back to "photolink".
func (e photoEntry) link() *string {
	if len(e.Photo) > 0 && !bytes.Equal(e.Photo, []byte("null")) {
		var s string
		if err := json.Unmarshal(e.Photo, &s); err == nil && s != "" {
			return &s
		}
		var p Photo
		if err := json.Unmarshal(e.Photo, &p); err == nil && p.Photolink != nil && *p.Photolink != "" {
			return p.Photolink
		}
	}
	if e.Photolink != nil && *e.Photolink != "" {
		return e.Photolink
	}
	return nil
}
