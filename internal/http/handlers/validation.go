package handlers

import (
	"strings"
)

type ProductValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateProduct(p ProductRequest) []ProductValidationError {
	errs := []ProductValidationError{}
	if strings.TrimSpace(p.ID) == "" {
		errs = append(errs, ProductValidationError{Field: "ID", Description: "ID is required"})
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ProductValidationError{Field: "Name", Description: "Name is required"})
	}
	if p.Stock < 0 {
		errs = append(errs, ProductValidationError{Field: "Stock", Description: "Stock cannot be negative"})
	}
	if p.Threshold < 0 {
		errs = append(errs, ProductValidationError{Field: "Threshold", Description: "Threshold cannot be negative"})
	}
	return errs
}
