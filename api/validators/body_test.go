package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

type addItemBody struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

func TestDecodeJSONBody(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr bool
		field   string
	}{
		{name: "valid", body: `{"product_id":3}`},
		{name: "missing field", body: `{}`, wantErr: true, field: "product_id"},
		{name: "negative", body: `{"product_id":-1}`, wantErr: true, field: "product_id"},
		{name: "unknown field", body: `{"product_id":3,"extra":true}`, wantErr: true},
		{name: "malformed", body: `{"product_id":`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var dest addItemBody
			err := DecodeJSONBody(req, &dest)

			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if tc.field != "" {
				details, _ := pkgerrors.As(err).Details().(map[string]string)
				if _, ok := details[tc.field]; !ok {
					t.Fatalf("expected details for %q, got %v", tc.field, details)
				}
			}
		})
	}
}

func TestParseProductID(t *testing.T) {
	if id, err := ParseProductID("42"); err != nil || id != 42 {
		t.Fatalf("expected 42, got %d, %v", id, err)
	}
	for _, raw := range []string{"", "abc", "0", "-3"} {
		if _, err := ParseProductID(raw); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%q: expected validation error, got %v", raw, err)
		}
	}
}
