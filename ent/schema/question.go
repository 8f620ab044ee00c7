package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Question is a flashcard with its scheduling state.
type Question struct {
	ent.Schema
}

func (Question) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable().
			Comment("UUID assigned on create"),
		field.String("owner").
			NotEmpty().
			Immutable(),
		field.Text("text").
			NotEmpty(),
		field.Text("answer"),
		field.Enum("state").
			Values("new", "learning", "review"),
		field.Int("learning_step").
			Comment("Position in the learning steps; meaningful only while learning"),
		field.Float("interval_days"),
		field.Float("efactor").
			Comment("Easiness factor, unclamped"),
		field.Int("times_failed").
			Default(0),
		field.Time("last_reviewed").
			Optional().
			Nillable(),
		field.Bool("is_favorite").
			Default(false),
		field.String("content_hash").
			Optional().
			Comment("SHA-256 of normalized content, set for imported questions"),
		field.Time("created").
			Immutable(),
		field.Time("modified"),
		field.Int64("revision").
			Comment("Bumped on every save; stale writes are rejected"),
	}
}

func (Question) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner"),
		index.Fields("owner", "content_hash").Unique(),
	}
}
