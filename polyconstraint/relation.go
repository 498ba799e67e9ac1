package polyconstraint

// ConRelation is a bitmask of the relations a shape can hold with a single
// constraint (spec §6 relation_with(constraint)), mirroring PPL's
// Poly_Con_Relation: a shape can simultaneously be included in the
// constraint's half-space and saturate it (lie entirely on its boundary).
type ConRelation uint8

const (
	// ConNothing is the empty relation: none of the flags below hold.
	ConNothing ConRelation = 0
	// ConIsDisjoint holds when the shape has no point satisfying c.
	ConIsDisjoint ConRelation = 1 << iota
	// ConStrictlyIntersects holds when some points of the shape satisfy c
	// and some do not.
	ConStrictlyIntersects
	// ConIsIncluded holds when every point of the shape satisfies c.
	ConIsIncluded
	// ConSaturates holds when every point of the shape satisfies c's
	// underlying expression with equality (the shape lies on c's boundary
	// hyperplane).
	ConSaturates
)

// Implies reports whether every flag set in want is also set in r.
func (r ConRelation) Implies(want ConRelation) bool { return r&want == want }

// GenRelation is the relation a shape can hold with a single generator
// (spec §6 relation_with(generator)), mirroring PPL's Poly_Gen_Relation.
type GenRelation uint8

const (
	// GenNothing holds when g is not already subsumed by the shape.
	GenNothing GenRelation = 0
	// GenSubsumes holds when adding g to the shape's generator system
	// would not enlarge it: a point/closure point already inside the
	// shape, or a line/ray already in its recession cone.
	GenSubsumes GenRelation = 1
)

// Implies reports whether every flag set in want is also set in r.
func (r GenRelation) Implies(want GenRelation) bool { return r&want == want }
