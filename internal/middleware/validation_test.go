package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Mirrors the handler payloads so the middleware can be exercised without an
// import cycle on the transport package.
type bookPayload struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
	ISBN   string `json:"isbn" validate:"required,min=10,max=17"`
	Price  string `json:"price" validate:"required"`
}

type cartItemPayload struct {
	BookID   string `json:"book_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("book payloads missing required fields are rejected", prop.ForAll(
		func(includeTitle bool, includeAuthor bool, includeISBN bool, includePrice bool) bool {
			reqMap := make(map[string]interface{})

			if includeTitle {
				reqMap["title"] = "The Go Programming Language"
			}
			if includeAuthor {
				reqMap["author"] = "Alan Donovan"
			}
			if includeISBN {
				reqMap["isbn"] = "978-0134190440"
			}
			if includePrice {
				reqMap["price"] = "34.99"
			}

			allFieldsPresent := includeTitle && includeAuthor && includeISBN && includePrice

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/books", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var payload bookPayload
			err := DecodeAndValidate(req, &payload)

			if allFieldsPresent {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Test that validation errors are properly formatted
func TestProperty_ValidationErrorsAreFormatted(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("validation errors include field information", prop.ForAll(
		func() bool {
			// ISBN too short, price missing
			reqMap := map[string]interface{}{
				"title":  "Dune",
				"author": "Frank Herbert",
				"isbn":   "123",
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/books", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var payload bookPayload
			err := DecodeAndValidate(req, &payload)

			if err == nil {
				return false
			}

			validationErrors := FormatValidationErrors(err)
			if len(validationErrors) == 0 {
				return false
			}

			for _, ve := range validationErrors {
				if ve.Field == "" || ve.Message == "" {
					return false
				}
			}

			return true
		},
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Test that valid requests pass validation
func TestProperty_ValidRequestsPassValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("well-formed cart payloads pass validation", prop.ForAll(
		func(quantity int) bool {
			reqMap := map[string]interface{}{
				"book_id":  uuid.New().String(),
				"quantity": quantity,
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/cart/items", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var payload cartItemPayload
			err := DecodeAndValidate(req, &payload)

			return err == nil
		},
		gen.IntRange(1, 99),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Test quantity bound validation
func TestProperty_CartQuantityBoundValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("non-positive quantities are rejected", prop.ForAll(
		func(quantity int) bool {
			reqMap := map[string]interface{}{
				"book_id":  uuid.New().String(),
				"quantity": quantity,
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/cart/items", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var payload cartItemPayload
			err := DecodeAndValidate(req, &payload)

			if quantity > 0 {
				return err == nil
			}
			return err != nil
		},
		gen.IntRange(-50, 50),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCartItemPayloadRejectsMalformedBookID(t *testing.T) {
	reqMap := map[string]interface{}{
		"book_id":  "not-a-uuid",
		"quantity": 2,
	}

	reqBody, _ := json.Marshal(reqMap)
	req := httptest.NewRequest("POST", "/api/cart/items", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	var payload cartItemPayload
	if err := DecodeAndValidate(req, &payload); err == nil {
		t.Fatal("expected validation error for malformed book_id, got nil")
	}
}
