package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
)

type addRequest struct {
	ItemID   string `json:"itemId" validate:"required,uuid"`
	Quantity *int   `json:"quantity,omitempty" validate:"omitempty,min=0"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"itemId":"nope"}`))
	var dest addRequest
	err := DecodeJSONBody(req, &dest)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["itemId"] != "must be a valid id" {
		t.Fatalf("expected itemId detail, got %v", typed.Details())
	}
}

func TestDecodeJSONBodyRejections(t *testing.T) {
	id := uuid.NewString()
	tests := []struct {
		name   string
		body   string
		field  string
		detail string
	}{
		{"unknown field", `{"itemId":"` + id + `","bogus":1}`, "bogus", "is not allowed"},
		{"wrong type", `{"itemId":"` + id + `","quantity":"two"}`, "quantity", "must be int"},
		{"trailing object", `{"itemId":"` + id + `"}{"itemId":"` + id + `"}`, "", ""},
		{"malformed", `{"itemId":`, "", ""},
		{"too large", `{"itemId":"` + strings.Repeat("x", MaxBodyBytes) + `"}`, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dest addRequest
			err := DecodeJSONBody(req, &dest)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if tt.field == "" {
				return
			}
			details, ok := typed.Details().(map[string]string)
			if !ok || details[tt.field] != tt.detail {
				t.Fatalf("expected %s detail %q, got %v", tt.field, tt.detail, typed.Details())
			}
		})
	}
}

func TestDecodeJSONBodyEmptyAppliesValidation(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	var dest addRequest
	err := DecodeJSONBody(req, &dest)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected required itemId to fail on empty body")
	}
	if details, _ := typed.Details().(map[string]string); details["itemId"] != "is required" {
		t.Fatalf("unexpected details %v", typed.Details())
	}
}

func TestDecodeJSONBodyOK(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"itemId":"`+id+`","quantity":3}`))
	var dest addRequest
	if err := DecodeJSONBody(req, &dest); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dest.ItemID != id || dest.Quantity == nil || *dest.Quantity != 3 {
		t.Fatalf("unexpected decode result %+v", dest)
	}
}

func TestParseQueryDecimal(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?minPrice=10.5&maxPrice=abc&neg=-1", nil)

	value, err := ParseQueryDecimal(req, "minPrice")
	if err != nil || value == nil || value.String() != "10.5" {
		t.Fatalf("expected 10.5, got %v %v", value, err)
	}
	if _, err := ParseQueryDecimal(req, "maxPrice"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := ParseQueryDecimal(req, "neg"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for negative, got %v", err)
	}
	if value, err := ParseQueryDecimal(req, "missing"); err != nil || value != nil {
		t.Fatalf("expected nil for missing param, got %v %v", value, err)
	}
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	rc := chi.NewRouteContext()
	rc.URLParams.Add("itemId", id.String())
	rc.URLParams.Add("bad", "xyz")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	got, err := ParseUUIDParam(req, "itemId")
	if err != nil || got != id {
		t.Fatalf("expected %s, got %s %v", id, got, err)
	}
	if _, err := ParseUUIDParam(req, "bad"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  héllo  ", 2); got != "h" {
		t.Fatalf("expected rune-safe cut, got %q", got)
	}
	if got := SanitizeString(" laptop ", 0); got != "laptop" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}
