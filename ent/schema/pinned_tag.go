package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// PinnedTag is one entry in an owner's ordered pinned-tag list. Positions
// are dense, 0..n-1.
type PinnedTag struct {
	ent.Schema
}

func (PinnedTag) Fields() []ent.Field {
	return []ent.Field{
		field.String("owner").
			NotEmpty(),
		field.String("tag").
			NotEmpty(),
		field.Int("position").
			NonNegative(),
	}
}

func (PinnedTag) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner", "tag").Unique(),
		index.Fields("owner", "position"),
	}
}
