package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"

	"caixa-be/internal/category"
	"caixa-be/internal/order"
	"caixa-be/internal/product"
)

var ErrUnsupportedDocument = errors.New("document must be a JSON array or an object keyed by id")

// Identified is any record that carries its own lookup key.
type Identified interface {
	Key() string
}

// Index builds an id lookup over items. Later duplicates win.
func Index[T Identified](items []T) map[string]T {
	out := make(map[string]T, len(items))
	for _, it := range items {
		out[it.Key()] = it
	}
	return out
}

// FromKeyed flattens a keyed collection into records, setting each record's
// id from its key. Output is ordered by key.
func FromKeyed[T any](m map[string]T, setKey func(*T, string)) []T {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]T, 0, len(keys))
	for _, k := range keys {
		v := m[k]
		setKey(&v, k)
		out = append(out, v)
	}
	return out
}

// DecodeCollection reads either a JSON array of records or a JSON object
// keyed by id. Elements that fail to decode are skipped and counted.
func DecodeCollection[T any](data []byte, setKey func(*T, string)) ([]T, int, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []T{}, 0, nil
	}

	switch data[0] {
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, 0, err
		}
		out := make([]T, 0, len(raws))
		skipped := 0
		for _, raw := range raws {
			var v T
			if isNull(raw) || json.Unmarshal(raw, &v) != nil {
				skipped++
				continue
			}
			out = append(out, v)
		}
		return out, skipped, nil

	case '{':
		var raws map[string]json.RawMessage
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, 0, err
		}
		decoded := make(map[string]T, len(raws))
		skipped := 0
		for k, raw := range raws {
			var v T
			if isNull(raw) || json.Unmarshal(raw, &v) != nil {
				skipped++
				continue
			}
			decoded[k] = v
		}
		return FromKeyed(decoded, setKey), skipped, nil
	}

	return nil, 0, ErrUnsupportedDocument
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func setProductID(p *product.Product, id string)    { p.ID = id }
func setCategoryID(c *category.Category, id string) { c.ID = id }
func setSaleID(s *order.Sale, id string)            { s.ID = id }

func IndexProducts(items []product.Product) map[string]product.Product {
	return Index(items)
}

func IndexCategories(items []category.Category) map[string]category.Category {
	return Index(items)
}

// CategoryNames maps category id to display name.
func CategoryNames(categories map[string]category.Category) map[string]string {
	out := make(map[string]string, len(categories))
	for id, c := range categories {
		out[id] = c.Name
	}
	return out
}

func ProductsFromKeyed(m map[string]product.Product) []product.Product {
	return FromKeyed(m, setProductID)
}

func CategoriesFromKeyed(m map[string]category.Category) []category.Category {
	return FromKeyed(m, setCategoryID)
}

func DecodeProducts(data []byte) ([]product.Product, int, error) {
	return DecodeCollection(data, setProductID)
}

func DecodeCategories(data []byte) ([]category.Category, int, error) {
	return DecodeCollection(data, setCategoryID)
}

// DecodeSales relies on the lenient Sale decoding, so only elements that are
// not JSON objects are skipped.
func DecodeSales(data []byte) ([]order.Sale, int, error) {
	return DecodeCollection(data, setSaleID)
}
