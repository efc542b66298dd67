package analytics

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAddToCart(t *testing.T) {
	params := NewParams().
		Set("item_id", "shoes_5").
		Set("item_name", "Shoes").
		Set("item_category", "Category B").
		Set("price", 79.99).
		Set("quantity", 1)

	got := Format("add_to_cart", params)

	assert.Contains(t, got, `"event_name": "add_to_cart"`)
	assert.Contains(t, got, `"item_id": "shoes_5"`)
	assert.Contains(t, got, `"price": "79.99"`)
	assert.Contains(t, got, `"quantity": "1"`)
}

func TestFormatRoundTripsNameAndKeys(t *testing.T) {
	params := NewParams().
		Set("transaction_id", "0123456789abcdef").
		Set("value", 110.98).
		Set("items", []*Params{NewParams().Set("item_id", "shoes_5")})

	var doc struct {
		EventName string            `json:"event_name"`
		Params    map[string]string `json:"params"`
	}
	require.NoError(t, json.Unmarshal([]byte(Format("purchase", params)), &doc))

	assert.Equal(t, "purchase", doc.EventName)
	assert.Equal(t, map[string]string{
		"transaction_id": "0123456789abcdef",
		"value":          "110.98",
		"items":          `[{"item_id":"shoes_5"}]`,
	}, doc.Params)
}

func TestFormatLayout(t *testing.T) {
	got := Format("view_item", NewParams().Set("item_id", "tshirt_l").Set("price", 30.99))

	want := "{\n" +
		"  \"event_name\": \"view_item\",\n" +
		"  \"params\": {\n" +
		"    \"item_id\": \"tshirt_l\",\n" +
		"    \"price\": \"30.99\"\n" +
		"  }\n" +
		"}"
	assert.Equal(t, want, got)
}

func TestFormatEmptyParams(t *testing.T) {
	got := Format("view_cart", nil)

	assert.Contains(t, got, `"event_name": "view_cart"`)
	assert.Contains(t, got, `"params": {}`)
}

func TestFormatKeepsInsertionOrder(t *testing.T) {
	got := Format("view_item_list", NewParams().
		Set("item_id_2", "shoes_5").
		Set("item_id_1", "blazer_red_m"))

	first := strings.Index(got, "item_id_2")
	second := strings.Index(got, "item_id_1")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)
}

func TestStringify(t *testing.T) {
	tests := map[string]struct {
		in   any
		want string
	}{
		"string":       {in: "USD", want: "USD"},
		"int":          {in: 3, want: "3"},
		"int64":        {in: int64(-7), want: "-7"},
		"uint":         {in: uint(9), want: "9"},
		"float":        {in: 79.99, want: "79.99"},
		"whole float":  {in: 1.0, want: "1"},
		"float32":      {in: float32(2.5), want: "2.5"},
		"bool":         {in: true, want: "true"},
		"nil":          {in: nil, want: "null"},
		"error":        {in: errors.New("boom"), want: "boom"},
		"nested":       {in: NewParams().Set("item_id", "shoes_5").Set("quantity", 2), want: `{"item_id":"shoes_5","quantity":2}`},
		"nested list":  {in: []*Params{NewParams().Set("a", 1), NewParams().Set("b", "x")}, want: `[{"a":1},{"b":"x"}]`},
		"empty list":   {in: []*Params{}, want: "[]"},
		"other slices": {in: []int{1, 2}, want: "[1 2]"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Stringify(tc.in))
		})
	}
}

func TestParamsClone(t *testing.T) {
	nested := NewParams().Set("quantity", 1)
	p := NewParams().Set("items", []*Params{nested}).Set("value", 10.5)

	cp := p.Clone()
	nested.Set("quantity", 5)
	p.Set("value", 99.0)

	items, ok := cp.Get("items")
	require.True(t, ok)
	q, _ := items.([]*Params)[0].Get("quantity")
	assert.Equal(t, 1, q)
	v, _ := cp.Get("value")
	assert.Equal(t, 10.5, v)
}

func TestParamsNilIsEmpty(t *testing.T) {
	var p *Params

	assert.Equal(t, 0, p.Len())
	assert.Empty(t, p.Keys())
	_, ok := p.Get("x")
	assert.False(t, ok)

	raw, err := p.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(raw))
}
