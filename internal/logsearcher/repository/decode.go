package repository

import (
	"encoding/json"
	"math/big"
	"time"
)

// decodeValue normalizes one heterogeneously typed result column into a
// JSON-encodable value. View columns can be arbitrary expressions over the
// jsonb payload, so the driver can hand back structured values, numbers,
// string lists or plain strings depending on the expression. Decode attempts
// run in a fixed priority order: structured value, floating-point number,
// string list, plain string, null.
func decodeValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case map[string]any:
		return v
	case []byte:
		// Raw jsonb comes back as bytes; anything that parses is structured.
		var decoded any
		if err := json.Unmarshal(v, &decoded); err == nil {
			return decoded
		}
		return string(v)
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case int16:
		return float64(v)
	case *big.Float:
		f, _ := v.Float64()
		return f
	case []string:
		return v
	case []any:
		return decodeStringList(v)
	case string:
		return v
	case bool:
		return v
	case time.Time:
		return v.UTC().Format("2006-01-02 15:04:05.999999")
	default:
		return nil
	}
}

// decodeStringList keeps a decoded array when every element is a string,
// otherwise it is treated as a structured value and passed through.
func decodeStringList(values []any) any {
	list := make([]string, 0, len(values))
	for _, value := range values {
		s, ok := value.(string)
		if !ok {
			return values
		}
		list = append(list, s)
	}
	return list
}
