package order

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sale records come from a loosely typed document store: amounts may be
// numbers or strings and timestamps arrive in several shapes. A bad field
// decodes to its zero value; it never fails the surrounding record.

var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (i *LineItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          json.RawMessage `json:"id"`
		ProductID   json.RawMessage `json:"productId"`
		Title       json.RawMessage `json:"title"`
		Value       json.RawMessage `json:"value"`
		Quantity    json.RawMessage `json:"quantity"`
		CategoryID  json.RawMessage `json:"categoryId"`
		Observation json.RawMessage `json:"observacao"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*i = LineItem{
		ProductID:   lenientString(raw.ID),
		Title:       lenientString(raw.Title),
		Value:       lenientDecimal(raw.Value),
		Quantity:    lenientQuantity(raw.Quantity),
		CategoryID:  lenientString(raw.CategoryID),
		Observation: lenientString(raw.Observation),
	}
	if i.ProductID == "" {
		i.ProductID = lenientString(raw.ProductID)
	}
	return nil
}

func (s *Sale) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           json.RawMessage `json:"id"`
		OrderNumber  json.RawMessage `json:"idOrder"`
		Items        json.RawMessage `json:"items"`
		Total        json.RawMessage `json:"total"`
		Status       json.RawMessage `json:"status"`
		CreatedAt    json.RawMessage `json:"createdAt"`
		CustomerName json.RawMessage `json:"nomeCliente"`
		UpdatedAt    json.RawMessage `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Sale{
		ID:           lenientString(raw.ID),
		OrderNumber:  lenientString(raw.OrderNumber),
		Items:        DecodeItems(raw.Items),
		Total:        lenientDecimal(raw.Total),
		Status:       Status(strings.ToLower(strings.TrimSpace(lenientString(raw.Status)))),
		CreatedAt:    ParseTimestamp(raw.CreatedAt),
		CustomerName: lenientString(raw.CustomerName),
	}
	if updated := ParseTimestamp(raw.UpdatedAt); updated != nil {
		s.UpdatedAt = *updated
	}
	return nil
}

// DecodeItems decodes a JSON array of line items one element at a time,
// dropping elements that are not objects.
func DecodeItems(raw []byte) []LineItem {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return []LineItem{}
	}

	items := make([]LineItem, 0, len(elems))
	for _, e := range elems {
		var it LineItem
		if err := json.Unmarshal(e, &it); err != nil {
			continue
		}
		items = append(items, it)
	}
	return items
}

// ParseTimestamp accepts RFC 3339 strings, zone-less date or date-time
// strings (read as local time), epoch seconds or milliseconds, and
// {"seconds": n} style objects. Anything else yields nil.
func ParseTimestamp(raw json.RawMessage) *time.Time {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil
	}

	switch s[0] {
	case '"':
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return nil
		}
		return parseTimestampString(strings.TrimSpace(str))
	case '{':
		var obj struct {
			Seconds     *int64 `json:"seconds"`
			Nanos       int64  `json:"nanoseconds"`
			LegacySecs  *int64 `json:"_seconds"`
			LegacyNanos int64  `json:"_nanoseconds"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil
		}
		switch {
		case obj.Seconds != nil:
			t := time.Unix(*obj.Seconds, obj.Nanos)
			return &t
		case obj.LegacySecs != nil:
			t := time.Unix(*obj.LegacySecs, obj.LegacyNanos)
			return &t
		}
		return nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return nil
	}
	var t time.Time
	if n >= 1e11 {
		t = time.UnixMilli(n)
	} else {
		t = time.Unix(n, 0)
	}
	return &t
}

func parseTimestampString(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return &t
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	return nil
}

func lenientString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return ""
		}
		return str
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return s
	}
	return ""
}

func lenientDecimal(raw json.RawMessage) decimal.Decimal {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Zero
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return decimal.Zero
		}
		s = strings.TrimSpace(str)
		// "10,50" as typed on a Brazilian keypad.
		if strings.Contains(s, ",") && !strings.Contains(s, ".") {
			s = strings.Replace(s, ",", ".", 1)
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func lenientQuantity(raw json.RawMessage) int {
	d := lenientDecimal(raw)
	if !d.IsInteger() || d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0
	}
	return int(d.IntPart())
}
