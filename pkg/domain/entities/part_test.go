package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPart_Validation(t *testing.T) {
	validPart, err := NewPart("RAW-LENS", "Fresnel lens", decimal.RequireFromString("4.12345"), 10)
	if err != nil {
		t.Fatalf("Expected valid part creation to succeed: %v", err)
	}
	if validPart.SKU != "RAW-LENS" {
		t.Errorf("Expected sku RAW-LENS, got %s", validPart.SKU)
	}
	if validPart.FormattedPrice() != "4.123" {
		t.Errorf("Expected price rounded to 4.123, got %s", validPart.FormattedPrice())
	}

	// Test validation failures
	testCases := []struct {
		name        string
		sku         SKU
		price       decimal.Decimal
		stock       Quantity
		expectError string
	}{
		{"empty sku", "", decimal.NewFromInt(1), 0, "sku cannot be empty"},
		{"blank sku", "   ", decimal.NewFromInt(1), 0, "sku cannot be empty"},
		{"negative price", "RAW-X", decimal.NewFromInt(-1), 0, "price cannot be negative, got -1"},
		{"negative stock", "RAW-X", decimal.NewFromInt(1), -3, "stock cannot be negative, got -3"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPart(tc.sku, "desc", tc.price, tc.stock)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestPart_IsSubAssembly(t *testing.T) {
	tests := []struct {
		sku      SKU
		prefix   string
		expected bool
	}{
		{"SUB-HEADSET", "", true},
		{"RAW-STRAP", "", false},
		{"ASM-FRAME", "ASM-", true},
		{"SUB-FRAME", "ASM-", false},
	}

	for _, tt := range tests {
		part := &Part{SKU: tt.sku}
		if got := part.IsSubAssembly(tt.prefix); got != tt.expected {
			t.Errorf("IsSubAssembly(%s, %q) = %v, expected %v", tt.sku, tt.prefix, got, tt.expected)
		}
	}
}
