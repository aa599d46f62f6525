package stk

import (
	"math"
	"testing"
)

func TestOrderedObject(t *testing.T) {
	testCases := []struct {
		name  string
		build func(o *orderedObject)
		want  string
	}{
		{"empty", func(o *orderedObject) {}, `{}`},
		{"order is kept", func(o *orderedObject) {
			o.Set("z", 1).Set("a", "x")
		}, `{"z":1,"a":"x"}`},
		{"zero values", func(o *orderedObject) {
			o.Set("a", 0).SetNonZero("b", "").SetNonZero("c", 0).SetNonZero("d", nil).SetNonZero("e", "hello")
		}, `{"a":0,"e":"hello"}`},
		{"escaped key", func(o *orderedObject) { o.Set(`a"b`, true) }, `{"a\"b":true}`},
		{"money keeps all digits", func(o *orderedObject) {
			o.Set("amount", M(decimalOf("123.456789"), "USD"))
		}, `{"amount":123.456789}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var o orderedObject
			tc.build(&o)
			got, err := o.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() unexpected error: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("MarshalJSON() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestOrderedObjectError(t *testing.T) {
	var o orderedObject
	o.Set("nan", math.NaN()).Set("b", 1)
	if _, err := o.MarshalJSON(); err == nil {
		t.Error("MarshalJSON() = nil error for a NaN value, want one")
	}
}
