package catalog

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genehive/genehive-server/internal/domain"
)

func newTestCatalog() *Catalog {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewCatalog(logger)
}

func TestCatalogList(t *testing.T) {
	c := newTestCatalog()

	diseases := c.List()
	require.Len(t, diseases, 5)

	// Display order is fixed.
	expectedIDs := []string{"huntington", "cystic-fibrosis", "color-blindness", "diabetes-t2", "heart-disease"}
	for i, id := range expectedIDs {
		assert.Equal(t, id, diseases[i].ID)
	}

	for _, d := range diseases {
		assert.NoError(t, d.Validate())
		assert.True(t, d.Type.IsValid())
	}
}

func TestCatalogListReturnsCopy(t *testing.T) {
	c := newTestCatalog()

	first := c.List()
	first[0].Name = "mutated"

	again := c.List()
	assert.Equal(t, "Huntington's Disease", again[0].Name)
}

func TestCatalogGet(t *testing.T) {
	c := newTestCatalog()

	tests := []struct {
		name      string
		id        string
		wantType  domain.DiseaseType
		wantPrev  float64
		wantPen   float64
		expectErr bool
	}{
		{"huntington", "huntington", domain.Dominant, 0.0001, 0.95, false},
		{"cystic fibrosis", "cystic-fibrosis", domain.Recessive, 0.0004, 0.99, false},
		{"color blindness", "color-blindness", domain.XLinked, 0.08, 0.95, false},
		{"type 2 diabetes", "diabetes-t2", domain.Multifactorial, 0.11, 0.8, false},
		{"heart disease", "heart-disease", domain.Multifactorial, 0.06, 0.7, false},
		{"unknown id", "porphyria", "", 0, 0, true},
		{"empty id", "", "", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := c.Get(tt.id)
			if tt.expectErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, d.ID)
			assert.Equal(t, tt.wantType, d.Type)
			assert.Equal(t, tt.wantPrev, d.Prevalence)
			assert.Equal(t, tt.wantPen, d.Penetrance)
		})
	}
}
