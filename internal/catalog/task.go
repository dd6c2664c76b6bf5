package catalog

import (
	"context"

	"entrybase-server/internal/entry/domain"
)

// TaskSchema declares the tasks resource that ships with the server. It
// doubles as the reference for how a resource type is assembled: fields,
// defaults, enum choices and custom actions, no bespoke endpoint code.
func TaskSchema() (domain.ResourceSchema, error) {
	return domain.NewResourceSchemaBuilder().
		WithName("tasks").
		WithFields([]domain.FieldDefinition{
			{Key: "title", Kind: domain.FieldKindShortText, Required: true},
			{Key: "description", Kind: domain.FieldKindLongText},
			{Key: "isCompleted", Kind: domain.FieldKindBoolean, DefaultValue: false},
			{Key: "dueDate", Kind: domain.FieldKindDate},
			{Key: "priority", Kind: domain.FieldKindEnum, DefaultValue: "medium", Choices: []domain.Choice{
				{Value: "low", Label: "Low"},
				{Value: "medium", Label: "Medium"},
				{Value: "high", Label: "High"},
			}},
		}).
		WithActions([]domain.ActionDefinition{
			{Key: "markComplete", Handler: setCompletion(true)},
			{Key: "markIncomplete", Handler: setCompletion(false)},
		}).
		WithSearchableFields("title", "description").
		WithDefaultListFields("title", "priority", "dueDate", "isCompleted").
		WithDefaultSort(domain.FieldKeyCreatedAt, domain.SortDescending).
		Build()
}

func setCompletion(done bool) domain.ActionHandler {
	return func(ctx context.Context, handle domain.ActionHandle, _ map[string]any) (any, error) {
		if err := handle.SetField("isCompleted", done); err != nil {
			return nil, err
		}
		if err := handle.Save(ctx); err != nil {
			return nil, err
		}

		record := handle.Record()
		return map[string]any{
			"id":     record.ID,
			"fields": record.FieldValues(),
		}, nil
	}
}
