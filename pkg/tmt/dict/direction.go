package dict

// DirectionKind reports which direction acquired a genuinely new endpoint
// when an entry was inserted.
//
// The source is ambiguous about the tie-break when both sides of an insert
// are new (spec.md §9 Open Questions); this implementation resolves new-pair
// inserts to AToB, treating A->B as the conventional primary direction, and
// documents the choice here rather than guessing silently.
type DirectionKind int

const (
	// AToB: the B-side endpoint was new (including the case where both
	// sides were new — the chosen tie-break for brand-new pairs).
	AToB DirectionKind = iota
	// BToA: the A-side endpoint was new, B-side already existed.
	BToA
	// Invariant: both endpoints already existed; either a new edge was
	// added between them, or metadata was merged into an existing edge.
	Invariant
)

func (d DirectionKind) String() string {
	switch d {
	case AToB:
		return "AToB"
	case BToA:
		return "BToA"
	case Invariant:
		return "Invariant"
	default:
		return "Unknown"
	}
}
