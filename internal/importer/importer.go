package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products.
// Expected headers: key, sku, name, processor_name, description,
// price_cents, sale_price_cents, currency, image_url. Missing
// processor_name falls back to the generic display name so every product
// satisfies the dual-naming rule from the start.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and upserts products. Returns the count imported.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		product, ok := parseRow(record, index)
		if !ok {
			continue
		}
		if _, err := i.productRepo.Upsert(ctx, product); err != nil {
			return imported, fmt.Errorf("upsert %s: %w", product.Key, err)
		}
		imported++
	}
	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}

func field(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseRow(record []string, index map[string]int) (domain.Product, bool) {
	key := field(record, index, "key")
	name := field(record, index, "name")
	if key == "" || name == "" {
		return domain.Product{}, false
	}

	priceCents, err := strconv.ParseInt(field(record, index, "price_cents"), 10, 64)
	if err != nil || priceCents <= 0 {
		return domain.Product{}, false
	}

	product := domain.Product{
		Key:           key,
		SKU:           field(record, index, "sku"),
		Name:          name,
		ProcessorName: field(record, index, "processor_name"),
		Description:   field(record, index, "description"),
		PriceCents:    priceCents,
		Currency:      field(record, index, "currency"),
		ImageURL:      field(record, index, "image_url"),
	}
	if product.ProcessorName == "" {
		product.ProcessorName = domain.FallbackProcessorName
	}
	if product.Currency == "" {
		product.Currency = "USD"
	}
	if raw := field(record, index, "sale_price_cents"); raw != "" {
		if sale, err := strconv.ParseInt(raw, 10, 64); err == nil && sale > 0 && sale < priceCents {
			product.SalePriceCents = &sale
		}
	}
	return product, true
}
