package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	meddomain "github.com/smallbiznis/medipos/internal/medicine/domain"
	medrepository "github.com/smallbiznis/medipos/internal/medicine/repository"
	"github.com/smallbiznis/medipos/internal/order/domain"
	"github.com/smallbiznis/medipos/internal/order/repository"
	"github.com/smallbiznis/medipos/internal/storecontext"
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
		&domain.Order{},
		&domain.OrderItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Repo:      repository.Provide(),
		Medicines: medrepository.Provide(),
	})
	return db, svc, node
}

func seedMedicine(t *testing.T, db *gorm.DB, node *snowflake.Node, storeID int64, name string, quantity int, price, cost, gst float64) *meddomain.Medicine {
	t.Helper()

	m := &meddomain.Medicine{
		ID:           node.Generate().Int64(),
		StoreID:      storeID,
		Name:         name,
		Manufacturer: "Acme Pharma",
		BatchNumber:  "B-" + name,
		Quantity:     quantity,
		ReorderLevel: 5,
		SellingPrice: price,
		CostPrice:    cost,
		GSTPerUnit:   gst,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func testCtx(storeID int64, role string) context.Context {
	ctx := storecontext.WithStoreID(context.Background(), storeID)
	return storecontext.WithRole(ctx, role)
}

func TestSubmit_CompletesAndDecrementsStock(t *testing.T) {
	db, svc, node := newTestService(t, "order_submit_ok")
	storeID := node.Generate().Int64()
	med := seedMedicine(t, db, node, storeID, "Paracetamol", 10, 10, 7, 1)

	ctx := testCtx(storeID, storecontext.RoleAdmin)
	resp, err := svc.Submit(ctx, domain.SubmitRequest{
		Lines: []domain.LineRequest{
			{MedicineID: snowflake.ID(med.ID).String(), Quantity: 3, DiscountPercent: 10},
		},
		PaymentMethod:  domain.PaymentCash,
		DiscountAmount: 5,
		Mode:           domain.ModeComplete,
	})
	require.NoError(t, err)

	// 30 - 3 + 3 = 30, minus global discount 5.
	assert.Equal(t, 30.00, resp.Subtotal)
	assert.Equal(t, 5.00, resp.DiscountAmount)
	assert.Equal(t, 25.00, resp.GrandTotal)
	assert.Equal(t, 3, resp.ItemCount)
	assert.Equal(t, domain.StatusCompleted, resp.Status)
	assert.Equal(t, domain.PaymentStatusPaid, resp.PaymentStatus)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 30.00, resp.Items[0].LineTotal)

	var m meddomain.Medicine
	require.NoError(t, db.Where("id = ?", med.ID).Take(&m).Error)
	assert.Equal(t, 7, m.Quantity)

	var count int64
	require.NoError(t, db.Model(&domain.OrderItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmit_DuplicateLinesReconcileCumulatively(t *testing.T) {
	db, svc, node := newTestService(t, "order_submit_dup")
	storeID := node.Generate().Int64()
	med := seedMedicine(t, db, node, storeID, "Ibuprofen", 5, 100, 0, 0)

	ctx := testCtx(storeID, storecontext.RoleAdmin)
	_, err := svc.Submit(ctx, domain.SubmitRequest{
		Lines: []domain.LineRequest{
			{MedicineID: snowflake.ID(med.ID).String(), Quantity: 3},
			{MedicineID: snowflake.ID(med.ID).String(), Quantity: 3},
		},
		PaymentMethod: domain.PaymentCash,
	})

	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Shortages, 1)
	assert.Equal(t, "Ibuprofen", stockErr.Shortages[0].Name)
	assert.Equal(t, 6, stockErr.Shortages[0].Requested)
	assert.Equal(t, 5, stockErr.Shortages[0].Available)

	// Nothing persisted, nothing decremented.
	var m meddomain.Medicine
	require.NoError(t, db.Where("id = ?", med.ID).Take(&m).Error)
	assert.Equal(t, 5, m.Quantity)
}

func TestSubmit_ShortageEnumeratesEveryLineAndRollsBack(t *testing.T) {
	db, svc, node := newTestService(t, "order_submit_rollback")
	storeID := node.Generate().Int64()
	ok := seedMedicine(t, db, node, storeID, "Amoxicillin", 50, 20, 12, 0)
	low1 := seedMedicine(t, db, node, storeID, "Insulin", 2, 500, 350, 0)
	low2 := seedMedicine(t, db, node, storeID, "Cetirizine", 1, 5, 3, 0)

	ctx := testCtx(storeID, storecontext.RoleAdmin)
	_, err := svc.Submit(ctx, domain.SubmitRequest{
		Lines: []domain.LineRequest{
			{MedicineID: snowflake.ID(ok.ID).String(), Quantity: 10},
			{MedicineID: snowflake.ID(low1.ID).String(), Quantity: 5},
			{MedicineID: snowflake.ID(low2.ID).String(), Quantity: 4},
		},
		PaymentMethod: domain.PaymentCard,
	})

	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Shortages, 2)
	assert.Equal(t, "Insulin", stockErr.Shortages[0].Name)
	assert.Equal(t, "Cetirizine", stockErr.Shortages[1].Name)

	// The sufficient line's decrement must have been rolled back too.
	var m meddomain.Medicine
	require.NoError(t, db.Where("id = ?", ok.ID).Take(&m).Error)
	assert.Equal(t, 50, m.Quantity)

	var count int64
	require.NoError(t, db.Model(&domain.Order{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestSubmit_EmptyCartRejected(t *testing.T) {
	_, svc, node := newTestService(t, "order_submit_empty")
	ctx := testCtx(node.Generate().Int64(), storecontext.RoleAdmin)

	_, err := svc.Submit(ctx, domain.SubmitRequest{
		PaymentMethod: domain.PaymentCash,
	})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestSubmit_MissingPaymentMethodRejected(t *testing.T) {
	db, svc, node := newTestService(t, "order_submit_nopay")
	storeID := node.Generate().Int64()
	med := seedMedicine(t, db, node, storeID, "Aspirin", 10, 5, 3, 0)

	ctx := testCtx(storeID, storecontext.RoleAdmin)
	_, err := svc.Submit(ctx, domain.SubmitRequest{
		Lines: []domain.LineRequest{
			{MedicineID: snowflake.ID(med.ID).String(), Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPayment)
}

func TestSubmit_PendingModeStillDecrements(t *testing.T) {
	db, svc, node := newTestService(t, "order_submit_pending")
	storeID := node.Generate().Int64()
	med := seedMedicine(t, db, node, storeID, "Omeprazole", 8, 12, 8, 0.5)

	ctx := testCtx(storeID, storecontext.RoleDealer)
	resp, err := svc.Submit(ctx, domain.SubmitRequest{
		Lines: []domain.LineRequest{
			{MedicineID: snowflake.ID(med.ID).String(), Quantity: 2},
		},
		PaymentMethod: domain.PaymentUPI,
		Mode:          domain.ModePending,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, resp.Status)
	assert.Equal(t, domain.PaymentStatusDue, resp.PaymentStatus)

	var m meddomain.Medicine
	require.NoError(t, db.Where("id = ?", med.ID).Take(&m).Error)
	assert.Equal(t, 6, m.Quantity)
}

func TestSubmit_ProfitSuppressedForCounterRole(t *testing.T) {
	db, svc, node := newTestService(t, "order_profit_roles")
	storeID := node.Generate().Int64()
	med := seedMedicine(t, db, node, storeID, "Metformin", 100, 10, 6, 0)

	req := domain.SubmitRequest{
		Lines: []domain.LineRequest{
			{MedicineID: snowflake.ID(med.ID).String(), Quantity: 5},
		},
		PaymentMethod: domain.PaymentCash,
	}

	counterResp, err := svc.Submit(testCtx(storeID, storecontext.RoleCounter), req)
	require.NoError(t, err)
	assert.Equal(t, 0.00, counterResp.Profit)

	adminResp, err := svc.Submit(testCtx(storeID, storecontext.RoleAdmin), req)
	require.NoError(t, err)
	// (10-6)*5 = 20
	assert.Equal(t, 20.00, adminResp.Profit)

	// Suppression is presentation only: the stored figure survives.
	var stored domain.Order
	require.NoError(t, db.Where("store_id = ? AND grand_total = ?", storeID, counterResp.GrandTotal).
		Order("created_at ASC").First(&stored).Error)
	assert.Equal(t, 20.00, stored.Profit)
}

func TestValidate_ReportsMaxAllowedCumulatively(t *testing.T) {
	db, svc, node := newTestService(t, "order_validate")
	storeID := node.Generate().Int64()
	med := seedMedicine(t, db, node, storeID, "Azithromycin", 5, 100, 0, 0)

	ctx := testCtx(storeID, storecontext.RoleCounter)

	resp, err := svc.Validate(ctx, domain.ValidateRequest{
		MedicineID: snowflake.ID(med.ID).String(),
		Quantity:   5,
	})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, 5, resp.MaxAllowed)

	resp, err = svc.Validate(ctx, domain.ValidateRequest{
		MedicineID:       snowflake.ID(med.ID).String(),
		Quantity:         1,
		ExistingQuantity: 5,
	})
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, 5, resp.MaxAllowed)
	assert.NotEmpty(t, resp.Message)

	_ = db
}

func TestGet_ReturnsItemsAndHonorsRole(t *testing.T) {
	db, svc, node := newTestService(t, "order_get")
	storeID := node.Generate().Int64()
	med := seedMedicine(t, db, node, storeID, "Losartan", 20, 15, 9, 0)

	adminCtx := testCtx(storeID, storecontext.RoleAdmin)
	created, err := svc.Submit(adminCtx, domain.SubmitRequest{
		Lines: []domain.LineRequest{
			{MedicineID: snowflake.ID(med.ID).String(), Quantity: 2},
		},
		PaymentMethod: domain.PaymentCash,
	})
	require.NoError(t, err)

	fetched, err := svc.Get(testCtx(storeID, storecontext.RoleCounter), created.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, "Losartan", fetched.Items[0].Name)
	assert.Equal(t, 0.00, fetched.Profit)
	assert.Equal(t, 0.00, fetched.Items[0].Profit)

	_ = db
}
