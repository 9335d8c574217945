package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigbestmart/bnbmart-backend/internal/app/model"
)

func TestBuildBulkOrderWorkbook(t *testing.T) {
	created := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
	orders := []model.Order{
		{
			OrderNumber: "BNB-AAAA1111",
			ClientID:    "client-1",
			Type:        model.OrderTypeBulk,
			Status:      model.OrderStatusPendingReview,
			CreatedAt:   created,
			OrderItems: []model.OrderItem{
				{Name: "Rice 5kg", Quantity: 50, UnitPrice: 80, IsBulk: true},
				{Name: "Soap", Quantity: 100, UnitPrice: 15, IsBulk: true},
			},
		},
		{
			OrderNumber: "BNB-BBBB2222",
			ClientID:    "client-2",
			Type:        model.OrderTypeBulk,
			Status:      model.OrderStatusPendingReview,
			CreatedAt:   created,
			OrderItems: []model.OrderItem{
				{Name: "Detergent", Quantity: 20, UnitPrice: 45, IsBulk: true},
			},
		},
	}

	f, err := buildBulkOrderWorkbook(orders)
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Bulk Orders"
	assert.Equal(t, []string{sheet}, f.GetSheetList())

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 4) // header plus one row per order item

	assert.Equal(t, bulkReportHeader, rows[0])

	assert.Equal(t, "BNB-AAAA1111", rows[1][0])
	assert.Equal(t, "client-1", rows[1][1])
	assert.Equal(t, "Rice 5kg", rows[1][3])
	assert.Equal(t, "50", rows[1][4])
	assert.Equal(t, "4000", rows[1][6]) // 80*50
	assert.Equal(t, "pending_review", rows[1][7])

	assert.Equal(t, "Soap", rows[2][3])
	assert.Equal(t, "BNB-BBBB2222", rows[3][0])
	assert.Equal(t, "Detergent", rows[3][3])
}

func TestBuildBulkOrderWorkbook_NoItems(t *testing.T) {
	orders := []model.Order{
		{
			OrderNumber: "BNB-CCCC3333",
			ClientID:    "client-1",
			Type:        model.OrderTypeBulk,
			Status:      model.OrderStatusPendingReview,
		},
	}

	f, err := buildBulkOrderWorkbook(orders)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bulk Orders")
	require.NoError(t, err)
	assert.Len(t, rows, 1) // header only
}
