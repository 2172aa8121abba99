package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/medipos/internal/medicine/domain"
	"github.com/smallbiznis/medipos/internal/medicine/repository"
	"github.com/smallbiznis/medipos/internal/storecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, name string) (domain.Service, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&domain.Medicine{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, node
}

func testCtx(storeID int64) context.Context {
	ctx := storecontext.WithStoreID(context.Background(), storeID)
	return storecontext.WithRole(ctx, storecontext.RoleAdmin)
}

func TestCreate_ReturnsMedicine(t *testing.T) {
	svc, node := newTestService(t, "medicine_create_ok")
	ctx := testCtx(node.Generate().Int64())

	resp, err := svc.Create(ctx, domain.CreateRequest{
		Name:         "Amoxicillin",
		Manufacturer: "Acme Pharma",
		BatchNumber:  "AMX-001",
		Quantity:     40,
		SellingPrice: 12.50,
		CostPrice:    8.00,
		GSTPerUnit:   0.60,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Amoxicillin", resp.Name)
	assert.Equal(t, 40, resp.Quantity)
	assert.Equal(t, 10, resp.ReorderLevel)
	assert.False(t, resp.LowStock)
}

func TestCreate_RejectsDuplicateBatch(t *testing.T) {
	svc, node := newTestService(t, "medicine_create_dup")
	ctx := testCtx(node.Generate().Int64())

	req := domain.CreateRequest{
		Name:         "Ibuprofen",
		BatchNumber:  "IBU-7",
		Quantity:     5,
		SellingPrice: 4,
	}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrDuplicateBatch)
}

func TestCreate_SameBatchDifferentStores(t *testing.T) {
	svc, node := newTestService(t, "medicine_create_cross_store")

	req := domain.CreateRequest{
		Name:         "Cetirizine",
		BatchNumber:  "CTZ-1",
		Quantity:     5,
		SellingPrice: 3,
	}
	_, err := svc.Create(testCtx(node.Generate().Int64()), req)
	require.NoError(t, err)

	_, err = svc.Create(testCtx(node.Generate().Int64()), req)
	assert.NoError(t, err)
}

func TestCreate_Validation(t *testing.T) {
	svc, node := newTestService(t, "medicine_create_invalid")
	ctx := testCtx(node.Generate().Int64())

	_, err := svc.Create(ctx, domain.CreateRequest{BatchNumber: "B1", SellingPrice: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "X", SellingPrice: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidBatch)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "X", BatchNumber: "B1", SellingPrice: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "X", BatchNumber: "B1", Quantity: -2})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = svc.Create(context.Background(), domain.CreateRequest{Name: "X", BatchNumber: "B1"})
	assert.ErrorIs(t, err, domain.ErrInvalidStore)
}

func TestRestock_IncreasesQuantity(t *testing.T) {
	svc, node := newTestService(t, "medicine_restock")
	ctx := testCtx(node.Generate().Int64())

	created, err := svc.Create(ctx, domain.CreateRequest{
		Name:         "Metformin",
		BatchNumber:  "MET-3",
		Quantity:     2,
		SellingPrice: 6,
	})
	require.NoError(t, err)
	assert.True(t, created.LowStock)

	resp, err := svc.Restock(ctx, created.ID, 18)
	require.NoError(t, err)
	assert.Equal(t, 20, resp.Quantity)
	assert.False(t, resp.LowStock)

	_, err = svc.Restock(ctx, created.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestAdjust_OverwritesQuantity(t *testing.T) {
	svc, node := newTestService(t, "medicine_adjust")
	ctx := testCtx(node.Generate().Int64())

	created, err := svc.Create(ctx, domain.CreateRequest{
		Name:         "Aspirin",
		BatchNumber:  "ASP-1",
		Quantity:     30,
		SellingPrice: 2,
	})
	require.NoError(t, err)

	resp, err := svc.Adjust(ctx, created.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, resp.Quantity)

	resp, err = svc.Adjust(ctx, created.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Quantity)

	_, err = svc.Adjust(ctx, created.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestList_Filters(t *testing.T) {
	svc, node := newTestService(t, "medicine_list")
	ctx := testCtx(node.Generate().Int64())

	lowReorder := 3
	_, err := svc.Create(ctx, domain.CreateRequest{
		Name: "Paracetamol", BatchNumber: "P-1", Quantity: 2,
		ReorderLevel: &lowReorder, SellingPrice: 5,
	})
	require.NoError(t, err)

	soon := time.Now().UTC().AddDate(0, 0, 10)
	_, err = svc.Create(ctx, domain.CreateRequest{
		Name: "Azithromycin", BatchNumber: "A-1", Quantity: 50,
		SellingPrice: 9, ExpiryDate: &soon,
	})
	require.NoError(t, err)

	all, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	low, err := svc.List(ctx, domain.ListRequest{LowStock: true})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Paracetamol", low[0].Name)

	expiring, err := svc.List(ctx, domain.ListRequest{ExpiringDays: 30})
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "Azithromycin", expiring[0].Name)

	search, err := svc.List(ctx, domain.ListRequest{Search: "azithro"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "Azithromycin", search[0].Name)
}

func TestUpdate_PartialFields(t *testing.T) {
	svc, node := newTestService(t, "medicine_update")
	ctx := testCtx(node.Generate().Int64())

	created, err := svc.Create(ctx, domain.CreateRequest{
		Name:         "Omeprazole",
		BatchNumber:  "OMP-2",
		Quantity:     12,
		SellingPrice: 7.5,
		CostPrice:    5,
	})
	require.NoError(t, err)

	newPrice := 8.25
	resp, err := svc.Update(ctx, domain.UpdateRequest{
		ID:           created.ID,
		SellingPrice: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, 8.25, resp.SellingPrice)
	assert.Equal(t, 5.00, resp.CostPrice)
	assert.Equal(t, "OMP-2", resp.BatchNumber)

	bad := -1.0
	_, err = svc.Update(ctx, domain.UpdateRequest{ID: created.ID, SellingPrice: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.Update(ctx, domain.UpdateRequest{ID: "not-a-number"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
