package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/repositories"
)

func TestProductRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(2)

	box := newTemplate(t, 1, "BOX", 10, 11)
	box.Variants[0].DefaultCode = "BOX-R"
	box.Variants[1].DefaultCode = "BOX-B"
	require.NoError(t, repo.LoadTemplates([]*entities.ProductTemplate{box}))

	p, err := repo.GetProduct(ctx, 11)
	require.NoError(t, err)
	assert.Same(t, box.Variants[1], p)
	assert.Same(t, box, p.Template)

	p, err = repo.GetProductByCode(ctx, "BOX-R")
	require.NoError(t, err)
	assert.Equal(t, entities.ProductID(10), p.ID)

	tmpl, err := repo.GetTemplate(ctx, 1)
	require.NoError(t, err)
	assert.Same(t, box, tmpl)

	_, err = repo.GetProduct(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = repo.GetTemplate(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// Re-saving drops variants that disappeared
	replacement := newTemplate(t, 1, "BOX", 12)
	replacement.Variants[0].DefaultCode = "BOX-G"
	require.NoError(t, repo.SaveTemplate(ctx, replacement))

	_, err = repo.GetProductByCode(ctx, "BOX-R")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = repo.GetProduct(ctx, 12)
	require.NoError(t, err)

	all, err := repo.ListTemplates(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUoMRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUoMRepository()

	dozens := &entities.UoM{ID: 2, Name: "Dozens", Ratio: decimal.NewFromInt(12), Rounding: decimal.NewFromInt(1)}
	require.NoError(t, repo.SaveUoM(ctx, units))
	require.NoError(t, repo.SaveUoM(ctx, dozens))

	got, err := repo.GetUoMByName(ctx, "Dozens")
	require.NoError(t, err)
	assert.Same(t, dozens, got)

	got, err = repo.GetUoM(ctx, 1)
	require.NoError(t, err)
	assert.Same(t, units, got)

	renamed := &entities.UoM{ID: 2, Name: "Dozen", Ratio: decimal.NewFromInt(12)}
	require.NoError(t, repo.SaveUoM(ctx, renamed))
	_, err = repo.GetUoMByName(ctx, "Dozens")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	all, err := repo.ListUoMs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*entities.UoM{units, renamed}, all)
}
