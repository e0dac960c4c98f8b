package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"localprice/internal/repository"

	"github.com/xuri/excelize/v2"
)

type ReportService interface {
	// ValidatedPricesXLSX builds the admin export workbook of all prices
	// validated in the trailing `days` window.
	ValidatedPricesXLSX(ctx context.Context, days int) ([]byte, string, error)
}

type reportService struct {
	prices repository.PriceRepository
}

func NewReportService(prices repository.PriceRepository) ReportService {
	return &reportService{prices: prices}
}

func (s *reportService) ValidatedPricesXLSX(ctx context.Context, days int) ([]byte, string, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	prices, err := s.prices.ListValidatedSince(ctx, since)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Validated prices"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Product", "Locality", "Unit", "Amount", "Observed", "Submitter", "Validated at"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", err
		}
	}

	for row, p := range prices {
		amount, _ := p.Amount.Float64()
		validatedAt := ""
		if p.ValidatedAt != nil {
			validatedAt = p.ValidatedAt.Format("2006-01-02 15:04")
		}
		values := []interface{}{
			p.Product.Name,
			p.Locality.Name,
			p.Unit.Name,
			amount,
			p.ObservedAt.Format("2006-01-02"),
			p.Submitter.Username,
			validatedAt,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("validated-prices-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
