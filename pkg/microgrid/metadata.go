package microgrid

// Fuse is the protective device at a grid connection point.
type Fuse struct {
	// Rated current of the fuse, in amperes.
	MaxCurrent float64
}

// ComponentMetadata is category specific metadata attached to a component.
type ComponentMetadata interface {
	Category() ComponentCategory

	componentMetadata()
}

// GridMetadata is the metadata of a grid connection point.
type GridMetadata struct {
	// nil when the wire record carried no grid metadata.
	Fuse *Fuse
}

func (GridMetadata) Category() ComponentCategory {
	return ComponentCategoryGrid
}

func (GridMetadata) componentMetadata() {}

// ResolveMetadata builds the typed metadata for category.
//
// The rated fuse current is passed through unchecked, zero and negative values
// included. Categories without metadata resolve to nil.
func ResolveMetadata(category ComponentCategory, raw RawComponentMetadata) ComponentMetadata {
	switch category {
	case ComponentCategoryGrid:
		if raw.Grid == nil {
			return GridMetadata{}
		}
		return GridMetadata{Fuse: &Fuse{MaxCurrent: raw.Grid.RatedFuseCurrent}}
	default:
		return nil
	}
}

func metadataEqual(a, b ComponentMetadata) bool {
	switch am := a.(type) {
	case nil:
		return b == nil
	case GridMetadata:
		bm, ok := b.(GridMetadata)
		if !ok {
			return false
		}
		if am.Fuse == nil || bm.Fuse == nil {
			return am.Fuse == nil && bm.Fuse == nil
		}
		return *am.Fuse == *bm.Fuse
	default:
		return false
	}
}

// ensure interface compliance
var _ ComponentMetadata = GridMetadata{}
