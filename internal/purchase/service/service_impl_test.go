package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	meddomain "github.com/smallbiznis/medipos/internal/medicine/domain"
	medrepository "github.com/smallbiznis/medipos/internal/medicine/repository"
	"github.com/smallbiznis/medipos/internal/purchase/domain"
	"github.com/smallbiznis/medipos/internal/purchase/repository"
	"github.com/smallbiznis/medipos/internal/storecontext"
	supplierdomain "github.com/smallbiznis/medipos/internal/supplier/domain"
	supplierrepository "github.com/smallbiznis/medipos/internal/supplier/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, name string) (*gorm.DB, domain.Service, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&meddomain.Medicine{},
		&supplierdomain.Supplier{},
		&domain.PurchaseOrder{},
		&domain.PurchaseOrderItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Repo:      repository.Provide(),
		Medicines: medrepository.Provide(),
		Suppliers: supplierrepository.Provide(),
	})
	return db, svc, node
}

func seedSupplier(t *testing.T, db *gorm.DB, node *snowflake.Node, storeID int64, active bool) *supplierdomain.Supplier {
	t.Helper()

	sup := &supplierdomain.Supplier{
		ID:      node.Generate().Int64(),
		StoreID: storeID,
		Name:    "HealthCo Distribution",
		Active:  active,
	}
	require.NoError(t, db.Create(sup).Error)
	// GORM replaces a zero-value bool with the column's default:true on
	// insert, so persist an inactive flag with an explicit update.
	if !active {
		require.NoError(t, db.Model(sup).Update("active", false).Error)
	}
	return sup
}

func seedMedicine(t *testing.T, db *gorm.DB, node *snowflake.Node, storeID int64, quantity int, cost float64) *meddomain.Medicine {
	t.Helper()

	m := &meddomain.Medicine{
		ID:           node.Generate().Int64(),
		StoreID:      storeID,
		Name:         "Paracetamol",
		BatchNumber:  fmt.Sprintf("B-%d", node.Generate().Int64()),
		Quantity:     quantity,
		ReorderLevel: 5,
		SellingPrice: 10,
		CostPrice:    cost,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func testCtx(storeID int64) context.Context {
	ctx := storecontext.WithStoreID(context.Background(), storeID)
	return storecontext.WithRole(ctx, storecontext.RoleDealer)
}

func TestCreate_TotalsLines(t *testing.T) {
	db, svc, node := newTestService(t, "purchase_create")
	storeID := node.Generate().Int64()
	sup := seedSupplier(t, db, node, storeID, true)
	med := seedMedicine(t, db, node, storeID, 4, 6)

	ctx := testCtx(storeID)
	resp, err := svc.Create(ctx, domain.CreateRequest{
		SupplierID: snowflake.ID(sup.ID).String(),
		Lines: []domain.LineRequest{
			{MedicineID: snowflake.ID(med.ID).String(), Quantity: 20, UnitCost: 5.50},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusOrdered, resp.Status)
	assert.Equal(t, 110.00, resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 110.00, resp.Items[0].LineTotal)
}

func TestCreate_RejectsInactiveSupplier(t *testing.T) {
	db, svc, node := newTestService(t, "purchase_inactive_supplier")
	storeID := node.Generate().Int64()
	sup := seedSupplier(t, db, node, storeID, false)
	med := seedMedicine(t, db, node, storeID, 4, 6)

	_, err := svc.Create(testCtx(storeID), domain.CreateRequest{
		SupplierID: snowflake.ID(sup.ID).String(),
		Lines: []domain.LineRequest{
			{MedicineID: snowflake.ID(med.ID).String(), Quantity: 1, UnitCost: 2},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSupplier)
}

func TestReceive_RestocksAndUpdatesCost(t *testing.T) {
	db, svc, node := newTestService(t, "purchase_receive")
	storeID := node.Generate().Int64()
	sup := seedSupplier(t, db, node, storeID, true)
	med := seedMedicine(t, db, node, storeID, 4, 6)

	ctx := testCtx(storeID)
	created, err := svc.Create(ctx, domain.CreateRequest{
		SupplierID: snowflake.ID(sup.ID).String(),
		Lines: []domain.LineRequest{
			{MedicineID: snowflake.ID(med.ID).String(), Quantity: 20, UnitCost: 5.50},
		},
	})
	require.NoError(t, err)

	received, err := svc.Receive(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReceived, received.Status)
	require.NotNil(t, received.ReceivedAt)

	var updated meddomain.Medicine
	require.NoError(t, db.First(&updated, "id = ?", med.ID).Error)
	assert.Equal(t, 24, updated.Quantity)
	assert.Equal(t, 5.50, updated.CostPrice)

	// Received orders cannot be received or cancelled again.
	_, err = svc.Receive(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotReceivable)
	_, err = svc.Cancel(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotReceivable)
}

func TestCancel_LeavesStockUntouched(t *testing.T) {
	db, svc, node := newTestService(t, "purchase_cancel")
	storeID := node.Generate().Int64()
	sup := seedSupplier(t, db, node, storeID, true)
	med := seedMedicine(t, db, node, storeID, 4, 6)

	ctx := testCtx(storeID)
	created, err := svc.Create(ctx, domain.CreateRequest{
		SupplierID: snowflake.ID(sup.ID).String(),
		Lines: []domain.LineRequest{
			{MedicineID: snowflake.ID(med.ID).String(), Quantity: 10, UnitCost: 3},
		},
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	var updated meddomain.Medicine
	require.NoError(t, db.First(&updated, "id = ?", med.ID).Error)
	assert.Equal(t, 4, updated.Quantity)
	assert.Equal(t, 6.00, updated.CostPrice)
}
