//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"pawcart/internal/model"

	"github.com/shopspring/decimal"
)

// generateSampleCoupons writes gzipped JSON-lines coupon seed files for local
// runs. Load them with COUPON_SEED_FILES=data/coupons/base.jsonl.gz,...
// SAVE10 appears in both files; the seasonal file's definition wins because
// later files override earlier ones.
func main() {
	dataDir := "data/coupons"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	minAmount := func(v int64) *decimal.Decimal {
		d := decimal.NewFromInt(v)
		return &d
	}
	inactive := false

	files := map[string][]model.CouponRequest{
		"base.jsonl.gz": {
			{Code: "SAVE10", Percent: 10},
			{Code: "WELCOME5", Percent: 5},
			{Code: "BIGBASKET", Percent: 15, MinAmount: minAmount(100)},
			{Code: "RETIRED20", Percent: 20, Status: &inactive},
		},
		"seasonal.jsonl.gz": {
			{Code: "SAVE10", Percent: 12},
			{Code: "PUPPYLOVE", Percent: 25, MinAmount: minAmount(50)},
		},
	}

	for filename, coupons := range files {
		filePath := filepath.Join(dataDir, filename)

		if err := createCouponFile(filePath, coupons); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d coupons\n", filePath, len(coupons))
	}

	fmt.Println("\nSample coupon files created successfully!")
}

func createCouponFile(filePath string, coupons []model.CouponRequest) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	enc := json.NewEncoder(gzipWriter)
	for _, coupon := range coupons {
		if err := enc.Encode(coupon); err != nil {
			return fmt.Errorf("failed to write coupon %s: %w", coupon.Code, err)
		}
	}

	return nil
}
