package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Task holds the schema definition for the Task entity.
type Task struct {
	ent.Schema
}

// Fields of the Task. The id is the implicit auto-increment integer
// assigned by the store.
func (Task) Fields() []ent.Field {
	return []ent.Field{
		field.String("title").
			NotEmpty().
			Comment("Task title, trimmed and validated before persistence"),

		field.Text("description").
			Optional().
			Nillable().
			Comment("Detailed description; absent when the client sent none"),

		field.Enum("priority").
			Values("Low", "Medium", "High").
			Default("Medium").
			Comment("Canonical priority label"),

		field.Enum("status").
			Values("Todo", "InProgress", "Done").
			Default("Todo").
			Comment("Canonical status label"),

		field.Time("due_date").
			Optional().
			Nillable().
			Comment("Due date truncated to UTC midnight; time of day carries no meaning"),

		field.Bool("is_deleted").
			Default(false).
			Comment("Soft-delete flag; hidden from listings, reversible via restore"),

		field.Time("created_at").
			Default(time.Now).
			Immutable().
			Comment("Set once at creation"),

		field.Time("updated_at").
			Optional().
			Nillable().
			Comment("Set on every mutation after creation; absent until the first one"),
	}
}

// Edges of the Task.
func (Task) Edges() []ent.Edge {
	return nil
}

// Indexes of the Task.
func (Task) Indexes() []ent.Index {
	return []ent.Index{
		// Index on status for filtering
		index.Fields("status"),

		// Index on priority for filtering
		index.Fields("priority"),

		// Listing always excludes soft-deleted rows
		index.Fields("is_deleted"),

		// Due-date range and overdue filters
		index.Fields("due_date"),

		// Index on created_at for the default sort
		index.Fields("created_at"),
	}
}
