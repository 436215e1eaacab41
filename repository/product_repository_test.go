package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront-backend/models"
	"storefront-backend/repository"
)

func seedCatalog(t *testing.T) *repository.MemoryProductRepository {
	t.Helper()
	repo := repository.NewMemoryProductRepository()
	products := []models.Product{
		{ID: "p1", Name: "CCTV Camera", Price: 120.0, Category: "Security", Stock: 10},
		{ID: "p2", Name: "Network Switch", Price: 80.0, Category: "Networking", Stock: 5},
		{ID: "p3", Name: "Patch Cable", Price: 4.5, Category: "Networking", Stock: 200},
	}
	for _, p := range products {
		assert.NoError(t, repo.Upsert(context.Background(), p))
	}
	return repo
}

func TestProductRepo_UpsertRequiresName(t *testing.T) {
	repo := repository.NewMemoryProductRepository()

	assert.Error(t, repo.Upsert(context.Background(), models.Product{ID: "p1", Price: 10}))
}

func TestProductRepo_SearchByName(t *testing.T) {
	repo := seedCatalog(t)

	results, err := repo.Search(context.Background(), "cctv")

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "CCTV Camera", results[0].Name)
}

func TestProductRepo_SearchByCategory(t *testing.T) {
	repo := seedCatalog(t)

	results, err := repo.Search(context.Background(), "networking")

	assert.NoError(t, err)
	assert.Len(t, results, 2)
	// sorted by name
	assert.Equal(t, "Network Switch", results[0].Name)
	assert.Equal(t, "Patch Cable", results[1].Name)
}

func TestProductRepo_SearchEmptyQueryReturnsAll(t *testing.T) {
	repo := seedCatalog(t)

	results, err := repo.Search(context.Background(), "")

	assert.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestProductRepo_DeductStock(t *testing.T) {
	repo := seedCatalog(t)

	err := repo.DeductStock(context.Background(), []models.LineItem{
		{Name: "CCTV Camera", Quantity: 2},
		{Name: "Network Switch", Quantity: 1},
	})

	assert.NoError(t, err)
	camera, _ := repo.FindByName(context.Background(), "CCTV Camera")
	assert.Equal(t, 8, camera.Stock)
	sw, _ := repo.FindByName(context.Background(), "Network Switch")
	assert.Equal(t, 4, sw.Stock)
}

func TestProductRepo_DeductStock_AllOrNothing(t *testing.T) {
	repo := seedCatalog(t)

	err := repo.DeductStock(context.Background(), []models.LineItem{
		{Name: "CCTV Camera", Quantity: 2},
		{Name: "Network Switch", Quantity: 6}, // only 5 in stock
	})

	assert.ErrorIs(t, err, repository.ErrInsufficientStock)

	// the satisfiable line was not deducted either
	camera, _ := repo.FindByName(context.Background(), "CCTV Camera")
	assert.Equal(t, 10, camera.Stock)
}

func TestProductRepo_DeductStock_DuplicateLinesShareStock(t *testing.T) {
	repo := seedCatalog(t)

	// two lines for the same product; together they exceed the 5 in stock
	err := repo.DeductStock(context.Background(), []models.LineItem{
		{Name: "Network Switch", Quantity: 3},
		{Name: "Network Switch", Quantity: 3},
	})

	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	sw, _ := repo.FindByName(context.Background(), "Network Switch")
	assert.Equal(t, 5, sw.Stock)
}

func TestProductRepo_DeductStock_DuplicateLinesWithinStock(t *testing.T) {
	repo := seedCatalog(t)

	err := repo.DeductStock(context.Background(), []models.LineItem{
		{Name: "Network Switch", Quantity: 2},
		{Name: "Network Switch", Quantity: 3},
	})

	assert.NoError(t, err)
	sw, _ := repo.FindByName(context.Background(), "Network Switch")
	assert.Equal(t, 0, sw.Stock)
}

func TestProductRepo_DeductStock_UnknownItemsSkipped(t *testing.T) {
	repo := seedCatalog(t)

	err := repo.DeductStock(context.Background(), []models.LineItem{
		{Name: "Custom Installation", Quantity: 1},
		{Name: "CCTV Camera", Quantity: 1},
	})

	assert.NoError(t, err)
	camera, _ := repo.FindByName(context.Background(), "CCTV Camera")
	assert.Equal(t, 9, camera.Stock)
}

func TestProductRepo_Restock(t *testing.T) {
	repo := seedCatalog(t)
	items := []models.LineItem{{Name: "CCTV Camera", Quantity: 3}}

	assert.NoError(t, repo.DeductStock(context.Background(), items))
	repo.Restock(context.Background(), items)

	camera, _ := repo.FindByName(context.Background(), "CCTV Camera")
	assert.Equal(t, 10, camera.Stock)
}

func TestProductRepo_RestockUnknownItemNoop(t *testing.T) {
	repo := seedCatalog(t)

	repo.Restock(context.Background(), []models.LineItem{{Name: "Custom Installation", Quantity: 2}})

	results, err := repo.Search(context.Background(), "")
	assert.NoError(t, err)
	assert.Len(t, results, 3)
}
