package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	mw "github.com/rogerio-castellano/inventory-system/internal/http/middleware"
	"github.com/rogerio-castellano/inventory-system/internal/models"
	"go.uber.org/zap"
)

var requiredColumns = []string{"id", "name", "stock", "threshold"}

type csvRow struct {
	ID          string
	Name        string
	Stock       string
	Threshold   string
	RestockDate string
	Category    string
}

func parseCSV(file io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, errors.New("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	column := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		rows = append(rows, csvRow{
			ID:          column(record, "id"),
			Name:        column(record, "name"),
			Stock:       column(record, "stock"),
			Threshold:   column(record, "threshold"),
			RestockDate: column(record, "restock_date"),
			Category:    column(record, "category"),
		})
	}
	return rows, nil
}

func rowToProduct(r csvRow) (models.Product, error) {
	stock, err := strconv.Atoi(r.Stock)
	if err != nil {
		return models.Product{}, errors.New("invalid stock")
	}
	threshold, err := strconv.Atoi(r.Threshold)
	if err != nil {
		return models.Product{}, errors.New("invalid threshold")
	}

	req := ProductRequest{
		ID:          r.ID,
		Name:        r.Name,
		Stock:       stock,
		Threshold:   threshold,
		RestockDate: r.RestockDate,
		Category:    r.Category,
	}
	if errs := validateProduct(req); len(errs) > 0 {
		return models.Product{}, errors.New(errs[0].Description)
	}

	return models.Product{
		ID:          req.ID,
		Name:        req.Name,
		Stock:       req.Stock,
		Threshold:   req.Threshold,
		RestockDate: req.RestockDate,
		Category:    req.Category,
	}, nil
}

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Columns: id,name,stock,threshold,restock_date,category. Existing IDs are replaced.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {string} string "Invalid file"
// @Router /products/import [post]
// @Security BearerAuth
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	imported := 0
	errorsList := []ProductValidationError{}

	for i, rec := range records {
		rowNum := i + 2 // header is row 1

		product, err := rowToProduct(rec)
		if err != nil {
			errorsList = append(errorsList, ProductValidationError{Field: fmt.Sprintf("row %d", rowNum), Description: err.Error()})
			continue
		}

		if err := inventoryService.AddProduct(r.Context(), product); err != nil {
			logger.Warn("import row rejected", zap.Int("row", rowNum), zap.Error(err))
			errorsList = append(errorsList, ProductValidationError{Field: fmt.Sprintf("row %d", rowNum), Description: err.Error()})
			continue
		}
		imported++
	}

	logger.Info("products imported",
		zap.Int("imported", imported),
		zap.Int("rejected", len(errorsList)),
		zap.String("staff", mw.GetUsername(r)))

	writeJSON(w, http.StatusOK, ImportProductsResult{
		ImportedProductsCount: imported,
		Errors:                errorsList,
	})
}
