package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	companyaliasDatamodel "github.com/frahmantamala/payroll-bridge/internal/core/datamodel/companyalias"
)

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the company alias table",
	Long:  `Copy the company aliases from configuration into the company_aliases table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(initializeDependencies, seedAliases)
	},
}

func seedAliases(deps *Dependencies) error {
	if deps.Gorm == nil {
		return errors.New("seed needs database.source to be configured")
	}

	if clearData {
		result := deps.Gorm.Where("1 = 1").Delete(&companyaliasDatamodel.CompanyAlias{})
		if result.Error != nil {
			return fmt.Errorf("failed to clear company aliases: %w", result.Error)
		}
		fmt.Println("Cleared company aliases:", result.RowsAffected)
	}

	seeded, err := deps.Companies.SeedAliases()
	if err != nil {
		return fmt.Errorf("failed to seed company aliases: %w", err)
	}
	fmt.Println("Seeded company aliases:", seeded)
	return nil
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing aliases before seeding")
}
