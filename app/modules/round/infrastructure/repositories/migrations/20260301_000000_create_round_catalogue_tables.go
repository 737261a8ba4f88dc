package roundmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	rounddb "github.com/Black-And-White-Club/archery-scorer/app/modules/round/infrastructure/repositories"
)

var catalogueModels = []any{
	(*rounddb.Round)(nil),
	(*rounddb.SubType)(nil),
	(*rounddb.ArrowCount)(nil),
	(*rounddb.Distance)(nil),
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating round catalogue tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, model := range catalogueModels {
				if _, err := tx.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
					return fmt.Errorf("failed to create %T table: %w", model, err)
				}
			}
			if _, err := tx.NewCreateIndex().
				Model((*rounddb.Distance)(nil)).
				Index("idx_round_distances_round_sub_type").
				IfNotExists().
				Column("round_id", "sub_type_id").
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create round_distances index: %w", err)
			}

			fmt.Println("Round catalogue tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping round catalogue tables...")

		for i := len(catalogueModels) - 1; i >= 0; i-- {
			if _, err := db.NewDropTable().Model(catalogueModels[i]).IfExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop %T table: %w", catalogueModels[i], err)
			}
		}

		fmt.Println("Round catalogue tables dropped successfully!")
		return nil
	})
}
