package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bigbestmart/bnbmart-backend/config"
	"github.com/bigbestmart/bnbmart-backend/internal/app/model"
	"github.com/bigbestmart/bnbmart-backend/internal/app/repository"
	"github.com/bigbestmart/bnbmart-backend/internal/db"
)

// Seeds the product catalog from an XLSX workbook. Expected columns:
//
//	name | description | price | old_price | shipping | category | stock |
//	image_url | bulk_min_qty | bulk_price | bulk_discount_pct | bulk_enabled
//
// The first row is treated as a header and skipped.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			fmt.Printf("Failed to import %q: %v\n", products[i].Name, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", imported)
}

func readProductsFromXLSX(filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 7 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		if name == "" {
			skippedCount++
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil || price <= 0 {
			skippedCount++
			continue
		}

		product := model.Product{
			Name:           name,
			Description:    strings.TrimSpace(row[1]),
			Price:          price,
			ShippingAmount: parseFloatCell(row, 4, 0),
			Category:       model.ProductCategory(strings.TrimSpace(cell(row, 5))),
			StockQuantity:  int(parseFloatCell(row, 6, 0)),
			ImageURL:       strings.TrimSpace(cell(row, 7)),
		}

		if oldPrice := parseFloatCell(row, 3, 0); oldPrice > product.Price {
			product.OldPrice = &oldPrice
		}

		// Optional bulk tier columns
		if bulkPrice := parseFloatCell(row, 9, 0); bulkPrice > 0 {
			product.BulkTier = &model.BulkTier{
				MinQuantity:        int(parseFloatCell(row, 8, 1)),
				BulkPrice:          bulkPrice,
				DiscountPercentage: parseFloatCell(row, 10, 0),
				IsBulkEnabled:      strings.EqualFold(strings.TrimSpace(cell(row, 11)), "true"),
			}
		}

		products = append(products, product)
	}

	if skippedCount > 0 {
		fmt.Printf("Skipped rows: %d\n", skippedCount)
	}

	return products, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseFloatCell(row []string, idx int, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell(row, idx)), 64)
	if err != nil {
		return defaultValue
	}
	return v
}
