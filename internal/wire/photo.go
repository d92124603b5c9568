package wire

import "github.com/zadnan82/newcv-sub002/internal/model"

// PhotoSource names one of the recognised places a photo link can come from,
// in precedence order: a lower value wins.
type PhotoSource int

const (
	// PhotoFromList: "photos" sent as [{"photo"|"photolink": url}].
	PhotoFromList PhotoSource = iota
	// PhotoFromObject: "photos" sent as {"photolink": url}.
	PhotoFromObject
	// PhotoFromDirect: the legacy {"photo": {"photolink": url}} member.
	PhotoFromDirect
	// PhotoFromFallback: the photos of the resume currently held by the store.
	PhotoFromFallback
	// PhotoFromDefault: nothing matched; the link is "".
	PhotoFromDefault
)

func (s PhotoSource) String() string {
	switch s {
	case PhotoFromList:
		return "list"
	case PhotoFromObject:
		return "object"
	case PhotoFromDirect:
		return "direct"
	case PhotoFromFallback:
		return "fallback"
	case PhotoFromDefault:
		return "default"
	}
	return "unknown"
}

// PhotoCandidate is one link found in one source.
type PhotoCandidate struct {
	Source PhotoSource
	Link   string
}

// PhotoCandidates collects every non-empty link in r and fallback, tagged
// with its source. fallback may be nil.
func PhotoCandidates(r, fallback *model.Resume) []PhotoCandidate {
	var out []PhotoCandidate
	if r != nil {
		if link := r.Photos.URL(); link != "" {
			switch r.Photos.Shape {
			case model.PhotoShapeList:
				out = append(out, PhotoCandidate{Source: PhotoFromList, Link: link})
			case model.PhotoShapeObject:
				out = append(out, PhotoCandidate{Source: PhotoFromObject, Link: link})
			case model.PhotoShapeNone:
				// A link cannot be decoded without a shape.
			}
		}
		if r.Photo != nil && r.Photo.Photolink != nil && *r.Photo.Photolink != "" {
			out = append(out, PhotoCandidate{Source: PhotoFromDirect, Link: *r.Photo.Photolink})
		}
	}
	if fallback != nil {
		if link := fallback.Photos.URL(); link != "" {
			out = append(out, PhotoCandidate{Source: PhotoFromFallback, Link: link})
		}
	}
	return out
}

// PickPhoto returns the highest-precedence candidate regardless of the
// order of cands, or ("", PhotoFromDefault) when there is none.
func PickPhoto(cands []PhotoCandidate) (string, PhotoSource) {
	best := PhotoCandidate{Source: PhotoFromDefault}
	for _, c := range cands {
		if c.Link != "" && c.Source < best.Source {
			best = c
		}
	}
	return best.Link, best.Source
}

// ResolvePhotolink is PickPhoto over PhotoCandidates(r, fallback).
func ResolvePhotolink(r, fallback *model.Resume) (string, PhotoSource) {
	return PickPhoto(PhotoCandidates(r, fallback))
}
