package typedesc

import (
	"strconv"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/graphforge/internal/fault"
)

// ParseValue turns a caller-supplied default-value string into a cty.Value
// of the descriptor's type. An empty string means "the type's zero value".
// Containers and references only accept empty (null) defaults; their values
// live in the host, not in descriptor strings.
func ParseValue(desc Descriptor, raw string) (cty.Value, error) {
	if raw == "" {
		return desc.ZeroValue(), nil
	}

	if !desc.IsScalar() || desc.IsExec() || desc.IsWildcard() {
		return cty.NilVal, fault.New(fault.ParseError,
			"type %s does not accept a literal default value", desc)
	}

	var parsed cty.Value
	switch desc.Scalar {
	case Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return cty.NilVal, fault.Wrap(fault.ParseError, err, "invalid bool default %q", raw)
		}
		parsed = cty.BoolVal(b)
	case Byte, Int, Int64, Float, Double:
		num, err := cty.ParseNumberVal(raw)
		if err != nil {
			return cty.NilVal, fault.Wrap(fault.ParseError, err, "invalid numeric default %q", raw)
		}
		parsed = num
	default:
		parsed = cty.StringVal(raw)
	}

	coerced, err := convert.Convert(parsed, desc.CtyType())
	if err != nil {
		return cty.NilVal, fault.Wrap(fault.ParseError, err, "default %q does not fit type %s", raw, desc)
	}
	return coerced, nil
}

// RenderValue renders a default value back into its string form for
// serialized listings. Null values render empty.
func RenderValue(v cty.Value) string {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return ""
	}
	switch v.Type() {
	case cty.Bool:
		return strconv.FormatBool(v.True())
	case cty.Number:
		return v.AsBigFloat().Text('f', -1)
	case cty.String:
		return v.AsString()
	}
	return ""
}
