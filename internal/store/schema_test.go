package store

import (
	"math"
	"slices"
	"testing"

	"entgo.io/ent"
	entschema "entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	model "github.com/abhisek/drill/ent/schema"
)

func fieldNames(fields ...[]ent.Field) []string {
	var names []string
	for _, fs := range fields {
		for _, f := range fs {
			names = append(names, f.Descriptor().Name)
		}
	}
	return names
}

func columnNames(cols []*entschema.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func TestTablesFollowEntitySchema(t *testing.T) {
	tests := []struct {
		table *entschema.Table
		want  []string
	}{
		{QuestionsTable, fieldNames(model.Question{}.Fields())},
		{QuestionTagsTable, fieldNames(model.QuestionTag{}.Fields())},
		{PinnedTagsTable, fieldNames(model.PinnedTag{}.Fields())},
		{ReviewEventsTable, append([]string{"id"},
			fieldNames(model.EventMixin{}.Fields(), model.ReviewEvent{}.Fields())...)},
	}

	for _, tt := range tests {
		t.Run(tt.table.Name, func(t *testing.T) {
			got := columnNames(tt.table.Columns)
			if !slices.Equal(got, tt.want) {
				t.Errorf("columns = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColumnsCarryFieldAttributes(t *testing.T) {
	byName := func(table *entschema.Table, name string) *entschema.Column {
		t.Helper()
		for _, c := range table.Columns {
			if c.Name == name {
				return c
			}
		}
		t.Fatalf("%s has no column %s", table.Name, name)
		return nil
	}

	if c := byName(QuestionsTable, "state"); c.Type != field.TypeString {
		t.Errorf("state type = %v, want string", c.Type)
	}
	if c := byName(QuestionsTable, "text"); c.Size != math.MaxInt32 {
		t.Errorf("text size = %d, want %d", c.Size, math.MaxInt32)
	}
	for _, name := range []string{"last_reviewed", "content_hash"} {
		if c := byName(QuestionsTable, name); !c.Nullable {
			t.Errorf("%s is not nullable", name)
		}
	}
	if c := byName(QuestionsTable, "owner"); c.Nullable {
		t.Error("owner is nullable")
	}
	if c := byName(QuestionsTable, "times_failed"); c.Default != 0 {
		t.Errorf("times_failed default = %v, want 0", c.Default)
	}
	if c := byName(QuestionsTable, "is_favorite"); c.Default != false {
		t.Errorf("is_favorite default = %v, want false", c.Default)
	}
	if c := byName(ReviewEventsTable, "sequence"); !c.Unique {
		t.Error("sequence is not unique")
	}
	if c := byName(ReviewEventsTable, "timestamp"); c.Default != nil {
		t.Errorf("timestamp default = %v, want none", c.Default)
	}
	if c := byName(ReviewEventsTable, "id"); !c.Increment {
		t.Error("review event id does not autoincrement")
	}

	// Index definitions pick columns by position.
	idx := QuestionsTable.Indexes[1]
	if got := columnNames(idx.Columns); !slices.Equal(got, []string{"owner", "content_hash"}) {
		t.Errorf("%s columns = %v", idx.Name, got)
	}
}

func TestReviewEventUsesEventMixin(t *testing.T) {
	mixins := model.ReviewEvent{}.Mixin()
	if len(mixins) != 1 {
		t.Fatalf("mixins = %d, want 1", len(mixins))
	}
	if _, ok := mixins[0].(model.EventMixin); !ok {
		t.Errorf("mixin = %T, want schema.EventMixin", mixins[0])
	}
}
