package versioning

import "testing"

func TestRegistryRelatedReturnsRegistered(t *testing.T) {
	reg := NewRegistry()
	reg.Register("docs",
		Relation{Name: "doc_links.doc_id", Table: "doc_links", Column: "doc_id", Kind: RelationToOne},
	)
	reg.Register("docs",
		Relation{Name: "doc_pins.doc_id", Table: "doc_pins", Column: "doc_id", Kind: RelationToOne},
	)

	rels := reg.Related("docs")
	if len(rels) != 2 {
		t.Fatalf("expected 2 relations, got %d", len(rels))
	}
	if rels[0].Table != "doc_links" || rels[1].Table != "doc_pins" {
		t.Fatalf("unexpected relation order: %v", rels)
	}
}

func TestRegistryRelatedUnknownKind(t *testing.T) {
	reg := NewRegistry()
	if rels := reg.Related("nothing"); len(rels) != 0 {
		t.Fatalf("expected no relations for unknown kind, got %v", rels)
	}
}

func TestRegistryRelatedReturnsCopy(t *testing.T) {
	reg := NewRegistry()
	reg.Register("docs",
		Relation{Name: "doc_links.doc_id", Table: "doc_links", Column: "doc_id", Kind: RelationToOne},
	)

	rels := reg.Related("docs")
	rels[0].Column = "mutated"

	if got := reg.Related("docs"); got[0].Column != "doc_id" {
		t.Fatal("expected callers not to be able to mutate the registry")
	}
}

func TestVersionedValidateRejectsInvalidStates(t *testing.T) {
	one := uint(1)

	live := Versioned{IsLive: true, LiveID: &one}
	if err := live.Validate(); err == nil {
		t.Fatal("expected a live record with a live link to be invalid")
	}

	draft := Versioned{IsLive: false, DeletionRequested: true}
	if err := draft.Validate(); err == nil {
		t.Fatal("expected a draft carrying a deletion request to be invalid")
	}

	ok := Versioned{IsLive: false, LiveID: &one}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected a linked draft to validate, got %v", err)
	}
}
