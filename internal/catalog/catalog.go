// Package catalog holds the built-in disease registry served by the API
// and the MCP tools. The registry is immutable and in-memory; callers get
// copies, never shared slices.
package catalog

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/genehive/genehive-server/internal/domain"
)

// builtins is the disease set shipped with the service, in display order.
var builtins = []domain.Disease{
	{
		ID:          "huntington",
		Name:        "Huntington's Disease",
		Type:        domain.Dominant,
		Prevalence:  0.0001,
		Penetrance:  0.95,
		Description: "A progressive brain disorder caused by a defective gene.",
		Color:       "#ef4444",
	},
	{
		ID:          "cystic-fibrosis",
		Name:        "Cystic Fibrosis",
		Type:        domain.Recessive,
		Prevalence:  0.0004,
		Penetrance:  0.99,
		Description: "A genetic disorder affecting the lungs and digestive system.",
		Color:       "#3b82f6",
	},
	{
		ID:          "color-blindness",
		Name:        "Color Blindness",
		Type:        domain.XLinked,
		Prevalence:  0.08,
		Penetrance:  0.95,
		Description: "Difficulty distinguishing certain colors.",
		Color:       "#10b981",
	},
	{
		ID:          "diabetes-t2",
		Name:        "Type 2 Diabetes",
		Type:        domain.Multifactorial,
		Prevalence:  0.11,
		Penetrance:  0.8,
		Description: "A chronic condition affecting blood sugar regulation.",
		Color:       "#f59e0b",
	},
	{
		ID:          "heart-disease",
		Name:        "Coronary Heart Disease",
		Type:        domain.Multifactorial,
		Prevalence:  0.06,
		Penetrance:  0.7,
		Description: "Disease of the blood vessels supplying the heart.",
		Color:       "#ef4444",
	},
}

// Catalog is an in-memory, read-only disease registry.
type Catalog struct {
	diseases []domain.Disease
	byID     map[string]int
	log      *logrus.Logger
}

// NewCatalog creates the registry from the built-in disease set.
func NewCatalog(logger *logrus.Logger) *Catalog {
	c := &Catalog{
		diseases: builtins,
		byID:     make(map[string]int, len(builtins)),
		log:      logger,
	}
	for i, d := range builtins {
		c.byID[d.ID] = i
	}

	c.log.WithField("diseases", len(c.diseases)).Debug("Disease catalog initialized")
	return c
}

// List returns all diseases in display order. The returned slice is a copy.
func (c *Catalog) List() []domain.Disease {
	out := make([]domain.Disease, len(c.diseases))
	copy(out, c.diseases)
	return out
}

// Get retrieves a disease by its ID.
func (c *Catalog) Get(id string) (domain.Disease, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Disease{}, fmt.Errorf("disease %q: %w", id, domain.ErrNotFound)
	}
	return c.diseases[i], nil
}
