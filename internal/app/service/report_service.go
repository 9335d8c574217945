package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bigbestmart/bnbmart-backend/internal/app/model"
	"github.com/bigbestmart/bnbmart-backend/internal/app/repository"
	"github.com/bigbestmart/bnbmart-backend/internal/storage"
	"github.com/bigbestmart/bnbmart-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const reportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportService exports bulk-order submissions for the fulfillment team.
type ReportService interface {
	// ExportBulkOrders builds an xlsx workbook of the bulk orders created on
	// the given day and uploads it to S3. Returns the uploaded file URL, or
	// "" when the day had no bulk orders.
	ExportBulkOrders(ctx context.Context, day time.Time) (string, error)
}

type reportService struct {
	orderRepo repository.OrderRepository
	uploader  *storage.S3Storage
	prefix    string
}

func NewReportService(orderRepo repository.OrderRepository, uploader *storage.S3Storage, prefix string) ReportService {
	if prefix == "" {
		prefix = "reports/bulk-orders"
	}
	return &reportService{
		orderRepo: orderRepo,
		uploader:  uploader,
		prefix:    prefix,
	}
}

func (s *reportService) ExportBulkOrders(ctx context.Context, day time.Time) (string, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	orders, err := s.orderRepo.FindBulkOrdersBetween(from, to)
	if err != nil {
		logger.Error("Failed to load bulk orders for report", err, map[string]interface{}{
			"day": from.Format("2006-01-02"),
		})
		return "", err
	}

	if len(orders) == 0 {
		logger.Info("No bulk orders for report day, skipping export", map[string]interface{}{
			"day": from.Format("2006-01-02"),
		})
		return "", nil
	}

	workbook, err := buildBulkOrderWorkbook(orders)
	if err != nil {
		return "", err
	}
	defer workbook.Close()

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to serialize bulk order workbook", err, nil)
		return "", err
	}

	key := fmt.Sprintf("%s/%s.xlsx", s.prefix, from.Format("2006-01-02"))
	url, err := s.uploader.Upload(ctx, key, buf.Bytes(), reportContentType)
	if err != nil {
		logger.Error("Failed to upload bulk order report", err, map[string]interface{}{
			"key": key,
		})
		return "", err
	}

	logger.Info("Bulk order report exported", map[string]interface{}{
		"day":    from.Format("2006-01-02"),
		"orders": len(orders),
		"url":    url,
	})
	return url, nil
}

var bulkReportHeader = []string{
	"Order Number", "Client ID", "Created At", "Product", "Quantity",
	"Unit Price", "Line Total", "Order Status",
}

// buildBulkOrderWorkbook renders one row per order item.
func buildBulkOrderWorkbook(orders []model.Order) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Bulk Orders"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, title := range bulkReportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	row := 2
	for _, order := range orders {
		for _, item := range order.OrderItems {
			values := []interface{}{
				order.OrderNumber,
				order.ClientID,
				order.CreatedAt.Format(time.RFC3339),
				item.Name,
				item.Quantity,
				item.UnitPrice,
				item.UnitPrice * float64(item.Quantity),
				string(order.Status),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, err
				}
			}
			row++
		}
	}

	return f, nil
}
