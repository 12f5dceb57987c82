package markup

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// goValue carries Go values that have no cty equivalent (functions,
// structs) through template evaluation unchanged.
var goValue = cty.Capsule("go value", reflect.TypeOf((*any)(nil)).Elem())

// toCty converts a property value into the template scope.
func toCty(v any) (cty.Value, error) {
	switch x := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return x, nil
	case string:
		return cty.StringVal(x), nil
	case bool:
		return cty.BoolVal(x), nil
	case float64:
		return cty.NumberFloatVal(x), nil
	case float32:
		return cty.NumberFloatVal(float64(x)), nil
	case int:
		return cty.NumberIntVal(int64(x)), nil
	case int64:
		return cty.NumberIntVal(x), nil
	case int32:
		return cty.NumberIntVal(int64(x)), nil
	case uint:
		return cty.NumberUIntVal(uint64(x)), nil
	case uint64:
		return cty.NumberUIntVal(x), nil
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		data, err := json.Marshal(v)
		if err != nil {
			return capsule(v), nil
		}
		ty, err := ctyjson.ImpliedType(data)
		if err != nil {
			return cty.NilVal, fmt.Errorf("infer type: %w", err)
		}
		return ctyjson.Unmarshal(data, ty)
	}
	return capsule(v), nil
}

func capsule(v any) cty.Value {
	return cty.CapsuleVal(goValue, &v)
}

// fromCty converts an evaluated value back into a Go value: strings,
// float64 numbers, bools, []any, map[string]any or the original Go value
// for capsules.
func fromCty(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("value is unknown")
	}

	ty := v.Type()
	switch {
	case ty.Equals(goValue):
		return *(v.EncapsulatedValue().(*any)), nil

	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, err
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, ev := it.Element()
			gv, err := fromCty(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, gv)
		}
		return out, nil

	case ty.IsMapType() || ty.IsObjectType():
		out := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			k, ev := it.Element()
			gv, err := fromCty(ev)
			if err != nil {
				return nil, fmt.Errorf("in %q: %w", k.AsString(), err)
			}
			out[k.AsString()] = gv
		}
		return out, nil
	}

	return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
}

// toText converts a value for use as text content.
func toText(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	if v.Type().Equals(goValue) {
		return fmt.Sprint(*(v.EncapsulatedValue().(*any))), nil
	}
	sv, err := convert.Convert(v, cty.String)
	if err != nil {
		data, jerr := ctyjson.Marshal(v, v.Type())
		if jerr != nil {
			return "", err
		}
		return string(data), nil
	}
	return sv.AsString(), nil
}
