package provider

import (
	"context"

	"github.com/stockroom-app/variantd/pkg/gate"
	"github.com/stockroom-app/variantd/pkg/model"
)

// IProvider produces the gate served for the lifetime of a process.
// Initialize is called once; Gate and Source are valid afterwards.
type IProvider interface {
	Initialize(ctx context.Context) error
	Gate() *gate.Gate
	Source() model.Source
}

// IWatcher is implemented by providers that can report drift of their
// underlying source while the process runs.
type IWatcher interface {
	Watch(ctx context.Context) error
}
