package analytics

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Format renders an event the way the debug feed shows it:
//
//	{
//	  "event_name": "add_to_cart",
//	  "params": {
//	    "item_id": "shoes_5",
//	    "price": "79.99"
//	  }
//	}
//
// Every parameter value is reduced to its display string.
func Format(name string, params *Params) string {
	display := orderedmap.New[string, string]()
	params.Each(func(key string, value any) {
		display.Set(key, Stringify(value))
	})

	doc := orderedmap.New[string, any]()
	doc.Set("event_name", name)
	doc.Set("params", display)

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fallbackFormat(name, params)
	}
	return string(out)
}

func fallbackFormat(name string, params *Params) string {
	var b strings.Builder
	fmt.Fprintf(&b, "{\n  \"event_name\": %q,\n  \"params\": {", name)
	i := 0
	params.Each(func(key string, value any) {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "\n    %q: %q", key, Stringify(value))
		i++
	})
	if i > 0 {
		b.WriteString("\n  ")
	}
	b.WriteString("}\n}")
	return b.String()
}

// Stringify returns the display form of a parameter value. It never fails;
// unknown types fall back to fmt's default formatting.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case *Params:
		return compact(x)
	case []*Params:
		parts := make([]string, len(x))
		for i, nested := range x {
			parts[i] = compact(nested)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	default:
		return fmt.Sprint(x)
	}
}

func compact(p *Params) string {
	raw, err := p.MarshalJSON()
	if err != nil {
		return fmt.Sprint(p.Keys())
	}
	return string(raw)
}
