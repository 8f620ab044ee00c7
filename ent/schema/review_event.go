package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ReviewEvent records one answered review and the schedule it produced.
type ReviewEvent struct {
	ent.Schema
}

func (ReviewEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (ReviewEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("question_id").
			NotEmpty(),
		field.String("owner").
			NotEmpty(),
		field.String("response").
			NotEmpty().
			Comment("again, hard, good or easy"),
		field.String("from_state").
			NotEmpty(),
		field.String("to_state").
			NotEmpty(),
		field.Float("interval_days").
			Comment("Interval after the review"),
		field.Float("efactor").
			Comment("Easiness factor after the review"),
	}
}

func (ReviewEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner"),
		index.Fields("question_id"),
	}
}
