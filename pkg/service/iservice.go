package service

import (
	"context"

	"github.com/stockroom-app/variantd/pkg/provider"
)

// IService exposes a provider's gate to clients until ctx is done.
type IService interface {
	Serve(ctx context.Context, p provider.IProvider) error
}
