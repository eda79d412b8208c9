package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/peterkuimelis/deckbuilder/internal/card"
	"github.com/peterkuimelis/deckbuilder/internal/catalog"
)

// CatalogCmd returns the catalog command group.
func CatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Build and inspect the card catalog",
	}
	cmd.AddCommand(catalogBuildCmd())
	cmd.AddCommand(catalogInfoCmd())
	cmd.AddCommand(catalogSearchCmd())
	return cmd
}

func catalogBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile a YAML card list into the binary catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString("from")
			out, _ := cmd.Flags().GetString("out")

			data, err := catalog.ParseYAMLFile(from)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", from, err)
			}
			if err := catalog.SaveFile(out, data); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d cards to %s\n", data.Len(), out)
			return nil
		},
	}
	cmd.Flags().String("from", "cards.yaml", "YAML card list")
	cmd.Flags().String("out", catalog.DataFilename, "binary catalog to write")
	return cmd
}

func catalogInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Summarize the configured catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, cfg, err := loadCatalog(cmd)
			if err != nil {
				return err
			}

			var monsters, extra, spells, traps, aliases int
			for id, c := range cat.All() {
				switch {
				case c.Type.IsExtraDeckMonster():
					extra++
				case c.Type.IsMonster():
					monsters++
				case c.Type.IsSpell():
					spells++
				case c.Type.IsTrap():
					traps++
				}
				aliases += len(cat.Aliases(id))
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Catalog: %s\n", cfg.Catalog.Path)
			fmt.Fprintf(w, "  Cards:     %d\n", cat.Len())
			fmt.Fprintf(w, "  Main deck monsters:  %d\n", monsters)
			fmt.Fprintf(w, "  Extra deck monsters: %d\n", extra)
			fmt.Fprintf(w, "  Spells:    %d\n", spells)
			fmt.Fprintf(w, "  Traps:     %d\n", traps)
			fmt.Fprintf(w, "  Alternate passwords: %d\n", aliases)
			return nil
		},
	}
}

func catalogSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [name]",
		Short: "Find cards by name or card text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := catalog.Filter{}
			if len(args) == 1 {
				filter.Name = args[0]
			}
			filter.Text, _ = cmd.Flags().GetString("text")
			limit, _ := cmd.Flags().GetInt("limit")
			if filter.Name == "" && filter.Text == "" {
				return fmt.Errorf("give a name or --text to search for")
			}

			cat, _, err := loadCatalog(cmd)
			if err != nil {
				return err
			}

			ids := cat.Search(filter, limit)
			w := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(w, "No cards found")
				return nil
			}
			fmt.Fprintf(w, "Found %d card(s):\n\n", len(ids))
			for _, id := range ids {
				c, _ := cat.Card(id)
				fmt.Fprintln(w, formatCardLine(c))
			}
			return nil
		},
	}
	cmd.Flags().String("text", "", "substring of the card text")
	cmd.Flags().Int("limit", 20, "maximum results (0 for all)")
	return cmd
}

// formatCardLine renders a card as "password  name  [type] limit".
func formatCardLine(c *card.Card) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-10d %s", c.Password, color.New(color.Bold).Sprint(c.Name))
	fmt.Fprintf(&sb, " %s", typeColor(c.Type).Sprintf("[%s]", c.Type))
	if c.Limit != card.Unlimited {
		fmt.Fprintf(&sb, " %s", color.New(color.FgRed).Sprint(c.Limit))
	}
	return sb.String()
}

// typeColor follows the card frame colours.
func typeColor(t card.Type) *color.Color {
	switch {
	case t.IsExtraDeckMonster():
		return color.New(color.FgHiMagenta)
	case t.IsMonster():
		return color.New(color.FgYellow)
	case t.IsSpell():
		return color.New(color.FgGreen)
	case t.IsTrap():
		return color.New(color.FgHiRed)
	default:
		return color.New(color.FgWhite)
	}
}
