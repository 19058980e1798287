package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDetectVariantCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detect-variant",
		Short: "Resolve and print the repository variant",
		Long: `Runs the full resolution and prints the variant, the signal it came from and
the current branch. A branch that does not match the variant is reported as a
warning; the command still succeeds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.resolver().Resolve(cmd.Context())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Repository variant: %s (source: %s)\n", res.Variant, res.Source)
			if res.Adopted {
				fmt.Fprintf(out, "Created marker file %s\n", a.path("marker-file"))
			}
			if res.Branch == "" {
				fmt.Fprintln(out, "Branch: unknown")
				return nil
			}
			fmt.Fprintf(out, "Branch: %s\n", res.Branch)
			if w := res.Consistency().Warning(); w != "" {
				fmt.Fprintf(out, "Warning: %s\n", w)
			}
			return nil
		},
	}
}
