package appcontent

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-appcontent/content"
	"github.com/goliatone/go-appcontent/internal/microcontent"
	"github.com/goliatone/go-appcontent/internal/navigation"
)

// Models returns every bun model the module persists, in dependency order.
func Models() []any {
	return []any{
		(*content.TemplateContent)(nil),
		(*content.LocalizedTemplateContent)(nil),
		(*content.SlugTrail)(nil),
		(*content.FlagAssignment)(nil),
		(*microcontent.Item)(nil),
		(*microcontent.Localization)(nil),
		(*navigation.Navigation)(nil),
		(*navigation.LocalizedNavigation)(nil),
		(*navigation.NavigationEntry)(nil),
		(*navigation.LocalizedNavigationEntry)(nil),
	}
}

// RegisterModels registers the module's models with the bun DB so relations
// resolve. Call it before running queries against a fresh bun.DB.
func RegisterModels(db *bun.DB) {
	db.RegisterModel(Models()...)
}

// CreateSchema creates every table the module needs. Intended for embedded
// setups and tests; production deployments usually run managed migrations.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	RegisterModels(db)
	for _, model := range Models() {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
