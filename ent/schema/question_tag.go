package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuestionTag links a question to one tag name. The owner is copied from
// the question so tag listings never need a join.
type QuestionTag struct {
	ent.Schema
}

func (QuestionTag) Fields() []ent.Field {
	return []ent.Field{
		field.String("question_id").
			NotEmpty(),
		field.String("tag").
			NotEmpty().
			MaxLen(64),
		field.String("owner").
			NotEmpty(),
	}
}

func (QuestionTag) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("question_id", "tag").Unique(),
		index.Fields("owner", "tag"),
	}
}
