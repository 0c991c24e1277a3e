package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jaekwang-park/todo-list/internal/model"
	"github.com/jaekwang-park/todo-list/internal/validation"
)

func TestInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantMsg string
	}{
		{"plain", "Buy milk", "Buy milk", ""},
		{"trimmed", "  Buy milk \n", "Buy milk", ""},
		{"empty", "", "", validation.EmptyInputMessage},
		{"whitespace only", "   \t", "", validation.EmptyInputMessage},
		{"too long", strings.Repeat("x", validation.MaxInputLength+1), "", "input"},
		{"longest", strings.Repeat("x", validation.MaxInputLength), strings.Repeat("x", validation.MaxInputLength), ""},
		{"longest with padding", "  " + strings.Repeat("x", validation.MaxInputLength) + "  ", strings.Repeat("x", validation.MaxInputLength), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validation.Input(tt.input)

			if tt.wantMsg != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantMsg)
				}
				if !strings.Contains(err.Error(), tt.wantMsg) {
					t.Fatalf("error %q does not contain %q", err.Error(), tt.wantMsg)
				}
				var verrs validation.Errors
				if !errors.As(err, &verrs) {
					t.Fatalf("expected validation.Errors, got %T", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIDs(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		wantErr bool
	}{
		{"one", []string{"a"}, false},
		{"many", []string{"a", "b", "c"}, false},
		{"nil", nil, true},
		{"empty", []string{}, true},
		{"blank id", []string{"a", ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.IDs(tt.ids)
			if (err != nil) != tt.wantErr {
				t.Errorf("IDs(%v) error = %v, wantErr %v", tt.ids, err, tt.wantErr)
			}
		})
	}
}

func TestOrder(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []model.OrderPair
		wantErr bool
	}{
		{"valid", []model.OrderPair{{ID: "b", Order: 0}, {ID: "a", Order: 1}}, false},
		{"empty", nil, true},
		{"blank id", []model.OrderPair{{ID: "", Order: 0}}, true},
		{"negative", []model.OrderPair{{ID: "a", Order: -1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Order(tt.pairs)
			if (err != nil) != tt.wantErr {
				t.Errorf("Order(%v) error = %v, wantErr %v", tt.pairs, err, tt.wantErr)
			}
		})
	}
}
