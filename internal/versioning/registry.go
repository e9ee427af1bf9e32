package versioning

// RelationKind classifies how a row references a versioned entity.
type RelationKind int

const (
	// RelationToOne is a foreign-key column on the referencing table. A
	// unique index on that column makes it an effective one-to-one.
	RelationToOne RelationKind = iota
	// RelationManyToMany is a foreign-key column on a join table.
	RelationManyToMany
)

// Relation describes one place in the schema that holds a reference to a
// versioned entity: the table carrying the foreign key and the column that
// stores the target id.
type Relation struct {
	// Name labels the relation in errors and logs, e.g. "share_links.file_id".
	Name   string
	Table  string
	Column string
	Kind   RelationKind
}

// Registry is the relation index: an explicit table mapping an entity kind to
// every relation that points at it. It is registered once at startup, so no
// schema reflection happens at transition time.
//
// Structural links must not be registered: the draft→live link is maintained
// by the workflow itself, and owned associations (a file's own tag rows) are
// handled by CopyRelations and association cleanup, not by rewiring.
type Registry struct {
	relations map[string][]Relation
}

// NewRegistry returns an empty relation registry.
func NewRegistry() *Registry {
	return &Registry{relations: make(map[string][]Relation)}
}

// Register adds relations pointing at the given entity kind. Not safe for
// concurrent use; call during startup only.
func (r *Registry) Register(kind string, rels ...Relation) {
	r.relations[kind] = append(r.relations[kind], rels...)
}

// Related returns every registered relation pointing at the given kind. The
// returned slice is a copy; callers may not mutate registry state through it.
func (r *Registry) Related(kind string) []Relation {
	rels := r.relations[kind]
	out := make([]Relation, len(rels))
	copy(out, rels)
	return out
}
