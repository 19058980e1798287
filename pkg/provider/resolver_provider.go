package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/stockroom-app/variantd/pkg/gate"
	"github.com/stockroom-app/variantd/pkg/model"
	"github.com/stockroom-app/variantd/pkg/resolver"
)

// ResolverProvider resolves the variant once at start-up. The marker file
// is watched afterwards, but a change only produces a warning: the served
// variant stays fixed until the process restarts.
type ResolverProvider struct {
	Resolver *resolver.Resolver
	Logger   log.FieldLogger
	// OnDrift, if set, is called with the new marker variant whenever it
	// disagrees with the served one.
	OnDrift func(marker model.Variant)

	resolution resolver.Resolution
	gate       *gate.Gate
}

func (p *ResolverProvider) Initialize(ctx context.Context) error {
	if p.Resolver == nil {
		return errors.New("no resolver set")
	}
	p.resolution = p.Resolver.Resolve(ctx)
	if c := p.resolution.Consistency(); !c.Consistent {
		p.logger().Warn(c.Warning())
	}
	p.gate = gate.New(p.resolution.Variant)
	p.logger().WithFields(log.Fields{
		"variant": p.resolution.Variant,
		"source":  p.resolution.Source,
	}).Info("serving repository variant")
	return nil
}

func (p *ResolverProvider) Gate() *gate.Gate {
	return p.gate
}

func (p *ResolverProvider) Source() model.Source {
	return p.resolution.Source
}

// Resolution returns the result of the start-up resolution.
func (p *ResolverProvider) Resolution() resolver.Resolution {
	return p.resolution
}

// Watch blocks until ctx is done, logging a warning whenever the marker
// file changes to a variant other than the one being served.
func (p *ResolverProvider) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	marker := filepath.Clean(p.Resolver.MarkerPath)
	// watch the directory so that replacement and re-creation are seen
	if err := watcher.Add(filepath.Dir(marker)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != marker {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.checkMarker(marker)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger().WithError(err).Error("marker watcher error")
		}
	}
}

func (p *ResolverProvider) checkMarker(path string) {
	data, err := os.ReadFile(path)
	if err != nil || len(strings.TrimSpace(string(data))) == 0 {
		// occasionally the write event fires before the content lands; the
		// following event carries it
		return
	}
	v, err := model.ParseVariant(string(data))
	if err != nil {
		p.logger().WithField("path", path).Warnf("marker file changed to unrecognised content: %v", err)
		return
	}
	if v == p.gate.Variant() {
		return
	}
	p.logger().WithFields(log.Fields{
		"path":    path,
		"serving": p.gate.Variant(),
		"marker":  v,
	}).Warn("marker file changed; restart to apply the new variant")
	if p.OnDrift != nil {
		p.OnDrift(v)
	}
}

func (p *ResolverProvider) logger() log.FieldLogger {
	if p.Logger == nil {
		return log.StandardLogger()
	}
	return p.Logger
}
