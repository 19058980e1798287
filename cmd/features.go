package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stockroom-app/variantd/pkg/gate"
	"github.com/stockroom-app/variantd/pkg/model"
)

func newFeaturesCmd(a *app) *cobra.Command {
	var (
		variant string
		all     bool
	)
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Show which features are enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if all {
				fmt.Fprintln(out, matrixTable())
				return nil
			}

			var v model.Variant
			if variant != "" {
				parsed, err := model.ParseVariant(variant)
				if err != nil {
					return err
				}
				v = parsed
			} else {
				v = a.resolver().Resolve(cmd.Context()).Variant
			}

			fmt.Fprintf(out, "Features for variant %s\n", v)
			fmt.Fprintln(out, featureTable(gate.New(v)))
			return nil
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "variant to show instead of the resolved one")
	cmd.Flags().BoolVar(&all, "all", false, "show the availability matrix for every variant")
	return cmd
}
