package interfaces

import "context"

// ImageRendition maps density labels ("1x", "2x", "4x") to resolved URLs.
type ImageRendition map[string]string

// ResolvedImage is the serialized shape the public read API emits for images.
type ResolvedImage struct {
	ImageURL ImageRendition `json:"imageUrl"`
	Licence  map[string]any `json:"licence,omitempty"`
}

// MediaResolver expands a stored image reference (an opaque storage path plus
// licence metadata) into public-facing renditions. The storage and resizing
// pipeline is an external collaborator.
type MediaResolver interface {
	ResolveImage(ctx context.Context, path string, licence map[string]any) (*ResolvedImage, error)
}

// TaxaLinker reports taxonomy identifiers linked to a content item. Taxonomy
// search itself is out of scope; the public read API only echoes the links.
type TaxaLinker interface {
	LinkedTaxa(ctx context.Context, contentID string) ([]string, error)
}
