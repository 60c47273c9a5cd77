package models

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewProductName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "iPhone", false},
		{"single char", "x", false},
		{"max length", strings.Repeat("a", 255), false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 256), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewProductName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewProductName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got.String() != tt.input {
				t.Errorf("NewProductName(%q) = %q", tt.input, got.String())
			}
		})
	}
}

func TestNewPrice(t *testing.T) {
	tests := []struct {
		name    string
		input   int64
		wantErr bool
	}{
		{"positive", 1, false},
		{"large", 1_000_000_000_000, false},
		{"zero", 0, true},
		{"negative", -5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPrice(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewPrice(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got.Int64() != tt.input {
				t.Errorf("NewPrice(%d) = %d", tt.input, got.Int64())
			}
		})
	}
}

func TestNewProduct(t *testing.T) {
	seller := uuid.New()
	name, _ := NewProductName("iPhone")
	price, _ := NewPrice(100)

	p, err := NewProduct(name, price, seller)
	if err != nil {
		t.Fatalf("NewProduct: %v", err)
	}
	if p.ID != 0 {
		t.Errorf("ID = %d before listing, want 0", p.ID)
	}
	if p.Owner != seller {
		t.Errorf("Owner = %v, want seller %v", p.Owner, seller)
	}
	if p.Purchased {
		t.Error("new product must start unpurchased")
	}
	if p.CreatedAt.IsZero() {
		t.Error("CreatedAt must be set")
	}
}

func TestMarkPurchased(t *testing.T) {
	seller := uuid.New()
	buyer := uuid.New()
	name, _ := NewProductName("iPhone")
	price, _ := NewPrice(100)
	p, _ := NewProduct(name, price, seller)

	p.MarkPurchased(buyer)

	if !p.Purchased {
		t.Error("Purchased = false after MarkPurchased")
	}
	if p.Owner != buyer {
		t.Errorf("Owner = %v, want buyer %v", p.Owner, buyer)
	}
	if p.Name != name || p.Price != price {
		t.Error("name and price must not change on purchase")
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	seller := uuid.New()
	name, _ := NewProductName("iPhone")
	price, _ := NewPrice(100)
	p, _ := NewProduct(name, price, seller)

	snap := p.Snapshot()
	p.MarkPurchased(uuid.New())

	if snap.Purchased {
		t.Error("snapshot must not observe later mutations")
	}
	if snap.Owner != seller {
		t.Errorf("snapshot Owner = %v, want %v", snap.Owner, seller)
	}
}
