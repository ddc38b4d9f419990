package runtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mark3labs/swagger2cli/internal/tree"
)

// decodeJSON parses one JSON document keeping numbers as json.Number, so
// integers beyond float64 precision survive a decode/encode round trip.
func decodeJSON(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

// CoerceScalar converts one raw flag token into a typed JSON value according
// to the schema kind. Object, array, and unknown kinds take the token as a
// JSON document verbatim.
func CoerceScalar(schema tree.SchemaDef, token string) (any, error) {
	switch schema.Kind {
	case tree.KindInteger:
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer: %q", token)
		}
		return n, nil
	case tree.KindNumber:
		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number: %q", token)
		}
		return f, nil
	case tree.KindBoolean:
		return parseBool(token)
	case tree.KindString:
		return token, nil
	case tree.KindObject, tree.KindArray, tree.KindUnknown:
		v, err := decodeJSON(token)
		if err != nil {
			return nil, fmt.Errorf("invalid JSON value: %v", err)
		}
		return v, nil
	default:
		return token, nil
	}
}

// CoerceList turns repeated flag tokens into a JSON sequence. Two input modes
// are accepted: a single token that is itself a JSON array literal is parsed
// and used directly; otherwise every token is coerced independently against
// the array's item schema (or the outer schema when no item schema exists),
// preserving argument order.
func CoerceList(schema tree.SchemaDef, tokens []string) (any, error) {
	if len(tokens) == 1 && strings.HasPrefix(strings.TrimSpace(tokens[0]), "[") {
		v, err := decodeJSON(tokens[0])
		if err != nil {
			return nil, fmt.Errorf("invalid JSON list: %v", err)
		}
		return v, nil
	}

	item := schema
	if schema.Item != nil {
		item = *schema.Item
	}
	out := make([]any, 0, len(tokens))
	for _, token := range tokens {
		v, err := CoerceScalar(item, token)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// QueryValues renders array-kind query tokens into one string per element.
// The same dual mode as CoerceList applies, but the literal form must
// actually be an array since each element becomes its own key=value pair.
func QueryValues(schema tree.SchemaDef, tokens []string) ([]string, error) {
	if len(tokens) == 1 && strings.HasPrefix(strings.TrimSpace(tokens[0]), "[") {
		v, err := decodeJSON(tokens[0])
		if err != nil {
			return nil, fmt.Errorf("invalid JSON list: %v", err)
		}
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("expected JSON array")
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, err := queryString(item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	}

	item := schema
	if schema.Item != nil {
		item = *schema.Item
	}
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		v, err := CoerceScalar(item, token)
		if err != nil {
			return nil, err
		}
		s, err := queryString(v)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// queryString is the query-side encoding of a typed value: scalars keep their
// literal text form, null becomes the text "null", and anything structured
// falls back to compact JSON.
func queryString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool:
		return strconv.FormatBool(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case nil:
		return "null", nil
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

func parseBool(token string) (bool, error) {
	switch strings.ToLower(token) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean: %q", token)
	}
}
