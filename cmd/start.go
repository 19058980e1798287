package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stockroom-app/variantd/pkg/model"
	"github.com/stockroom-app/variantd/pkg/provider"
	"github.com/stockroom-app/variantd/pkg/runtime"
	"github.com/stockroom-app/variantd/pkg/service"
	"github.com/stockroom-app/variantd/pkg/version"
)

func (a *app) findService(name string) (service.IService, error) {
	registeredServices := map[string]service.IService{
		"http": &service.HTTPService{
			HTTPServiceConfiguration: &service.HTTPServiceConfiguration{
				Port: a.v.GetInt32("port"),
			},
			VersionFor: a.versionInfo,
		},
	}
	v, ok := registeredServices[name]
	if !ok {
		return nil, fmt.Errorf("unknown service provider %q", name)
	}
	log.Debugf("Using %s service-provider", name)
	return v, nil
}

func (a *app) findProvider(name string) (provider.IProvider, error) {
	registeredProviders := map[string]provider.IProvider{
		"resolve": &provider.ResolverProvider{
			Resolver: a.resolver(),
		},
		"asset": &provider.AssetProvider{
			URI: a.path("asset-file"),
		},
	}
	v, ok := registeredProviders[name]
	if !ok {
		return nil, fmt.Errorf("unknown variant source %q", name)
	}
	log.Debugf("Using %s variant source", name)
	return v, nil
}

func newStartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Serve the feature gate over HTTP",
		Long: `Resolves the variant once and serves it to the UI layer:

  GET /api/variant          the served variant and version info
  GET /api/features         every feature with its enabled state
  GET /api/features/{key}   one feature; unknown keys are disabled
  GET /repository-type.js   the browser asset for the served variant
  GET /metrics              Prometheus metrics

With --source=asset the variant is read from the generated browser asset
instead of being resolved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			providerImpl, err := a.findProvider(a.v.GetString("source"))
			if err != nil {
				return err
			}
			serviceImpl, err := a.findService(a.v.GetString("service-provider"))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runtime.Start(ctx, serviceImpl, providerImpl)
		},
	}

	cmd.Flags().Int32P("port", "p", 8080, "Port to listen on")
	cmd.Flags().StringP("service-provider", "s", "http", "Set a serve provider e.g. http")
	cmd.Flags().String("source", "resolve", "variant source: resolve or asset")
	return cmd
}

// versionInfo prefers the generated manifest when it matches the served
// variant, and builds one otherwise.
func (a *app) versionInfo(served model.Variant) model.VersionInfo {
	if info, err := version.Load(a.path("version-file")); err == nil && info.Variant == served {
		return info
	} else if err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("ignoring version manifest")
	}
	return version.Info(served, a.v.GetString("environment"))
}
