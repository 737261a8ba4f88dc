package shootmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	shootdb "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating shoots and arrows tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*shootdb.Shoot)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create shoots table: %w", err)
			}
			if _, err := tx.NewCreateIndex().
				Model((*shootdb.Shoot)(nil)).
				Index("idx_shoots_archer_shot_at").
				IfNotExists().
				Column("archer_id", "shot_at").
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create shoots index: %w", err)
			}

			// The composite primary key makes arrow numbers unique per shoot.
			if _, err := tx.NewCreateTable().
				Model((*shootdb.Arrow)(nil)).
				IfNotExists().
				ForeignKey(`("shoot_id") REFERENCES "shoots" ("id") ON DELETE CASCADE`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create arrows table: %w", err)
			}

			fmt.Println("Shoots and arrows tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping shoots and arrows tables...")

		if _, err := db.NewDropTable().Model((*shootdb.Arrow)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*shootdb.Shoot)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Shoots and arrows tables dropped successfully!")
		return nil
	})
}
