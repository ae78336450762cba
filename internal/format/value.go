package format

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

const timestampLayout = time.RFC3339

// valueText renders a value for the text formats. Nested values become
// compact JSON; nil is "null".
func valueText(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.UTC().Format(timestampLayout)
	case fmt.Stringer:
		return x.String()
	}
	b, err := domain.MarshalCompact(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// cellText is valueText with absent and null values left empty.
func cellText(v any, present bool) string {
	if !present || v == nil {
		return ""
	}
	return valueText(v)
}

func timestamp(m domain.Metadata) string {
	return m.ExtractedAt.UTC().Format(timestampLayout)
}
