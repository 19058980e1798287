package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stockroom-app/variantd/pkg/branch"
	"github.com/stockroom-app/variantd/pkg/gate"
	"github.com/stockroom-app/variantd/pkg/model"
	"github.com/stockroom-app/variantd/pkg/version"
)

func newSetVariantCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-variant <" + model.VariantList() + ">",
		Short: "Write the marker file and browser asset for a variant",
		Long: `Validates the variant, then writes the marker file, the generated browser
asset and the version manifest, and prints which features the variant enables.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := model.ParseVariant(args[0])
			if err != nil {
				_ = cmd.Usage()
				return err
			}

			p := a.persister()
			info := version.Info(v, a.v.GetString("environment"))
			if err := p.Persist(v, &info); err != nil {
				return err
			}

			if name, ok := a.branches(a.dir()).Current(cmd.Context()); ok {
				if c := branch.Check(v, name); !c.Consistent {
					log.Warn(c.Warning())
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Repository variant set to %s\n", v)
			fmt.Fprintf(out, "  marker file:      %s\n", p.MarkerPath)
			fmt.Fprintf(out, "  browser asset:    %s\n", p.AssetPath)
			fmt.Fprintf(out, "  version manifest: %s\n\n", p.VersionPath)
			fmt.Fprintln(out, featureTable(gate.New(v)))
			return nil
		},
	}
}
