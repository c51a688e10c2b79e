// -- cmd/layout.go --
package cmd

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/humantyper/internal/keyboard"
)

// newLayoutCmd groups the read-only keyboard geometry commands.
func newLayoutCmd() *cobra.Command {
	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect keyboard layout families",
		// Layout inspection needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	}

	layoutCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the registered layout families",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range keyboard.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	})

	layoutCmd.AddCommand(&cobra.Command{
		Use:   "show <family>",
		Short: "Print every shift level of a family as a grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := keyboard.Lookup(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, level := range family.Levels {
				rows, cols := level.Shape()
				fmt.Fprintf(out, "# level %d (%d keys, %dx%d)\n%s\n", i, level.Len(), rows, cols, level.String())
			}
			return nil
		},
	})

	layoutCmd.AddCommand(&cobra.Command{
		Use:   "distance <family> <a> <b>",
		Short: "Print the key distance between two characters on the same shift level",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := keyboard.Lookup(args[0])
			if err != nil {
				return err
			}
			a, err := singleRune(args[1])
			if err != nil {
				return err
			}
			b, err := singleRune(args[2])
			if err != nil {
				return err
			}
			level, err := family.Find(a)
			if err != nil {
				return err
			}
			d, err := level.Distance(a, b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.4f\n", d)
			return nil
		},
	})

	neighborsCmd := &cobra.Command{
		Use:   "neighbors <family> <char>",
		Short: "List the keys closest to a character",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := keyboard.Lookup(args[0])
			if err != nil {
				return err
			}
			r, err := singleRune(args[1])
			if err != nil {
				return err
			}
			level, err := family.Find(r)
			if err != nil {
				return err
			}
			count, _ := cmd.Flags().GetInt("count")
			neighbors, err := level.Nearest(r, count)
			if err != nil {
				return err
			}
			for _, n := range neighbors {
				fmt.Fprintf(cmd.OutOrStdout(), "%c\t%.4f\n", n.Char, n.Distance)
			}
			return nil
		},
	}
	neighborsCmd.Flags().IntP("count", "n", 3, "Number of neighbours to print; negative prints all.")
	layoutCmd.AddCommand(neighborsCmd)

	return layoutCmd
}

func singleRune(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("expected a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// layoutSummary is used by `config show` to annotate the configured family.
func layoutSummary(name string) string {
	family, err := keyboard.Lookup(name)
	if err != nil {
		return err.Error()
	}
	parts := make([]string, 0, len(family.Levels))
	for _, level := range family.Levels {
		parts = append(parts, fmt.Sprintf("%d", level.Len()))
	}
	return fmt.Sprintf("%s: %d levels (%s keys)", family.Name, len(family.Levels), strings.Join(parts, "/"))
}
