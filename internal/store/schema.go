package store

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	model "github.com/abhisek/drill/ent/schema"
)

const (
	questionsTable    = "questions"
	questionTagsTable = "question_tags"
	pinnedTagsTable   = "pinned_tags"
	reviewEventsTable = "review_events"
)

var (
	// questionsColumns holds the columns for the "questions" table.
	questionsColumns = columns(model.Question{}.Fields())
	// QuestionsTable holds the schema information for the "questions" table.
	QuestionsTable = &schema.Table{
		Name:       questionsTable,
		Columns:    questionsColumns,
		PrimaryKey: []*schema.Column{questionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "question_owner", Columns: []*schema.Column{questionsColumns[1]}},
			{Name: "question_owner_content_hash", Unique: true, Columns: []*schema.Column{questionsColumns[1], questionsColumns[11]}},
		},
	}

	// questionTagsColumns holds the columns for the "question_tags" table.
	// owner is copied from the question so tag queries need no join.
	questionTagsColumns = columns(model.QuestionTag{}.Fields())
	// QuestionTagsTable holds the schema information for the "question_tags" table.
	QuestionTagsTable = &schema.Table{
		Name:       questionTagsTable,
		Columns:    questionTagsColumns,
		PrimaryKey: []*schema.Column{questionTagsColumns[0], questionTagsColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "question_tags_questions_question",
				Columns:    []*schema.Column{questionTagsColumns[0]},
				RefColumns: []*schema.Column{questionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "questiontag_owner_tag", Columns: []*schema.Column{questionTagsColumns[2], questionTagsColumns[1]}},
		},
	}

	// pinnedTagsColumns holds the columns for the "pinned_tags" table.
	pinnedTagsColumns = columns(model.PinnedTag{}.Fields())
	// PinnedTagsTable holds the schema information for the "pinned_tags" table.
	PinnedTagsTable = &schema.Table{
		Name:       pinnedTagsTable,
		Columns:    pinnedTagsColumns,
		PrimaryKey: []*schema.Column{pinnedTagsColumns[0], pinnedTagsColumns[1]},
		Indexes: []*schema.Index{
			{Name: "pinnedtag_owner_position", Columns: []*schema.Column{pinnedTagsColumns[0], pinnedTagsColumns[2]}},
		},
	}

	// reviewEventsColumns holds the columns for the "review_events" table.
	reviewEventsColumns = append(
		[]*schema.Column{{Name: "id", Type: field.TypeInt, Increment: true}},
		columns(model.EventMixin{}.Fields(), model.ReviewEvent{}.Fields())...,
	)
	// ReviewEventsTable holds the schema information for the "review_events" table.
	ReviewEventsTable = &schema.Table{
		Name:       reviewEventsTable,
		Columns:    reviewEventsColumns,
		PrimaryKey: []*schema.Column{reviewEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "reviewevent_owner", Columns: []*schema.Column{reviewEventsColumns[4]}},
			{Name: "reviewevent_question_id", Columns: []*schema.Column{reviewEventsColumns[3]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		QuestionsTable,
		QuestionTagsTable,
		PinnedTagsTable,
		ReviewEventsTable,
	}
)

func init() {
	QuestionTagsTable.ForeignKeys[0].RefTable = QuestionsTable
}

// columns converts entity fields to migrate columns, in declaration order.
// Enums are stored as plain strings; only constant defaults carry over.
func columns(fields ...[]ent.Field) []*schema.Column {
	var cols []*schema.Column
	for _, fs := range fields {
		for _, f := range fs {
			d := f.Descriptor()
			col := &schema.Column{
				Name:     d.Name,
				Type:     d.Info.Type,
				Size:     int64(d.Size),
				Nullable: d.Optional,
				Unique:   d.Unique,
			}
			if col.Type == field.TypeEnum {
				col.Type = field.TypeString
			}
			switch v := d.Default.(type) {
			case bool, int, int64, float64, string:
				col.Default = v
			}
			cols = append(cols, col)
		}
	}
	return cols
}
