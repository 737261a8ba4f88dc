package shootmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	shootdb "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating score_sheet_exports table...")

		if _, err := db.NewCreateTable().
			Model((*shootdb.ScoreSheetExport)(nil)).
			IfNotExists().
			ForeignKey(`("shoot_id") REFERENCES "shoots" ("id") ON DELETE CASCADE`).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create score_sheet_exports table: %w", err)
		}

		fmt.Println("score_sheet_exports table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping score_sheet_exports table...")

		if _, err := db.NewDropTable().Model((*shootdb.ScoreSheetExport)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("score_sheet_exports table dropped successfully!")
		return nil
	})
}
