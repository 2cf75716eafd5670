package microgrid

// ComponentId identifies a component in a microgrid. Id 0 is reserved for the
// grid connection point.
type ComponentId uint64

// Component is a single device of the microgrid.
//
// The identity of a component is its Id alone. Two values with the same Id
// are the same entity even when the other fields differ; such a pair is a
// data integrity problem of the caller (see Conflicts), it is not reconciled
// here. Use Equal or Key rather than == when comparing components.
type Component struct {
	Id       ComponentId
	Name     string
	Category ComponentCategory
	// nil when the category has no sub-type or the code was unknown.
	Type ComponentType
	// nil when the category has no metadata.
	Metadata ComponentMetadata
}

// NewComponent builds a Component from a wire record. The category is
// resolved first and drives the type and metadata resolution.
//
// The only error is ErrInvalidCategory. Invalid combinations are still
// returned, IsValid reports them.
func NewComponent(raw RawComponent) (Component, error) {
	category, err := ResolveCategory(raw.Category)
	if err != nil {
		return Component{}, err
	}
	return Component{
		Id:       ComponentId(raw.Id),
		Name:     raw.Name,
		Category: category,
		Type:     ResolveType(category, rawTypeCode(category, raw.Metadata)),
		Metadata: ResolveMetadata(category, raw.Metadata),
	}, nil
}

// IsValid reports whether c is a positive id component of a known category
// or the zero id grid connection point.
//
// ComponentCategoryUnspecified counts as a known category, so components of
// categories this package does not model yet remain valid.
func (c Component) IsValid() bool {
	return (c.Id > 0 && c.Category.IsKnown()) ||
		(c.Id == 0 && c.Category == ComponentCategoryGrid)
}

// Key is the identity of c, suitable as a map key.
func (c Component) Key() ComponentId {
	return c.Id
}

// Equal compares identities only.
func (c Component) Equal(other Component) bool {
	return c.Id == other.Id
}

// Conflicts reports whether other claims the same identity as c with a
// different payload.
func (c Component) Conflicts(other Component) bool {
	return c.Equal(other) && !c.samePayload(other)
}

func (c Component) samePayload(other Component) bool {
	return c.Name == other.Name &&
		c.Category == other.Category &&
		c.Type == other.Type &&
		metadataEqual(c.Metadata, other.Metadata)
}

// InverterType returns the inverter sub-type of c, if any.
func (c Component) InverterType() (InverterType, bool) {
	t, ok := c.Type.(InverterType)
	return t, ok
}

// Fuse returns the grid fuse of c, if any.
func (c Component) Fuse() (Fuse, bool) {
	gm, ok := c.Metadata.(GridMetadata)
	if !ok || gm.Fuse == nil {
		return Fuse{}, false
	}
	return *gm.Fuse, true
}
