package provider

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/stockroom-app/variantd/pkg/gate"
	"github.com/stockroom-app/variantd/pkg/model"
	"github.com/stockroom-app/variantd/pkg/persister"
)

// AssetProvider derives the variant from a generated browser asset, the
// same artifact a statically bundled front end reads. No resolution runs.
type AssetProvider struct {
	URI    string
	Logger log.FieldLogger

	gate *gate.Gate
}

func (p *AssetProvider) Initialize(context.Context) error {
	if p.URI == "" {
		return fmt.Errorf("no asset path set")
	}
	v, err := persister.ReadAsset(p.URI)
	if err != nil {
		return fmt.Errorf("read variant asset %s: %w", p.URI, err)
	}
	p.gate = gate.New(v)
	logger := p.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	logger.WithFields(log.Fields{"variant": v, "asset": p.URI}).Info("serving repository variant from asset")
	return nil
}

func (p *AssetProvider) Gate() *gate.Gate {
	return p.gate
}

func (p *AssetProvider) Source() model.Source {
	return model.AssetSource
}
