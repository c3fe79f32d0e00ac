package templates

import (
	"context"
	"fmt"
	"sync"

	"EnigmaNetz/Enigma-Capture-Console/internal/logger"
)

// Catalog serves built-in plus user templates from a cache that is
// refreshed from the store after every save.
type Catalog struct {
	store Store
	log   *logger.Logger

	mu     sync.RWMutex
	cached []CaptureTemplate
}

// NewCatalog creates a catalog. Call Refresh to load user templates.
func NewCatalog(store Store, log *logger.Logger) *Catalog {
	if log == nil {
		log = logger.Discard()
	}
	return &Catalog{
		store:  store,
		log:    log,
		cached: Builtin(),
	}
}

// Refresh reloads the cache. When the store cannot be read only the built-in
// templates are served and the error is returned for the caller to report.
func (c *Catalog) Refresh(ctx context.Context) error {
	all := Builtin()
	user, err := c.store.List(ctx)
	if err != nil {
		c.log.Warn("Could not load user templates: %v", err)
	} else {
		all = append(all, user...)
	}

	c.mu.Lock()
	c.cached = all
	c.mu.Unlock()
	return err
}

// Templates returns a copy of the cached templates.
func (c *Catalog) Templates() []CaptureTemplate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]CaptureTemplate, len(c.cached))
	copy(out, c.cached)
	return out
}

// Save validates t, rejects duplicate names, stores it and refreshes the cache.
func (c *Catalog) Save(ctx context.Context, t CaptureTemplate) error {
	if err := Validate(t); err != nil {
		return err
	}
	if _, exists := Find(t.Name, c.Templates()); exists {
		return &SaveError{Name: t.Name, Reason: "a template with this name already exists"}
	}
	if err := c.store.Save(ctx, t); err != nil {
		return fmt.Errorf("could not save template: %w", err)
	}
	c.log.Info("Saved capture template %q (%s, %ds)", t.Name, t.BPFFilter, t.EffectiveDuration())
	if err := c.Refresh(ctx); err != nil {
		return fmt.Errorf("template saved but reload failed: %w", err)
	}
	return nil
}
