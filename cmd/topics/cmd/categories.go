package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Print the active category table",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func runCategories(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	table, err := cfg.CategoryTable()
	if err != nil {
		return err
	}
	for i, c := range table.Categories() {
		fmt.Fprintf(cmd.OutOrStdout(), "%d  %s\t%s\n", i, headStyle.Render(c.Name), strings.Join(c.SeedTerms, ", "))
	}
	return nil
}
