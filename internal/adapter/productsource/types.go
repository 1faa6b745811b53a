package productsource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// product is the storefront catalog JSON record.
type product struct {
	ID           productID     `json:"id"`
	Name         string        `json:"name"`
	Image        string        `json:"image"`
	Price        float64       `json:"price"`
	Parcelamento []json.Number `json:"parcelamento"`
	Color        string        `json:"color"`
	Size         []string      `json:"size"`
	Date         productDate   `json:"date"`
}

// productID accepts both JSON strings and numbers.
type productID string

func (id *productID) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(data, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = productID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	*id = productID(n.String())
	return nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type productDate time.Time

func (d *productDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("product date: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*d = productDate(time.Time{})
		return nil
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			*d = productDate(t)
			return nil
		}
	}
	return fmt.Errorf("product date: unsupported format %q", s)
}
