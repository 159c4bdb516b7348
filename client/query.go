package client

import (
	"fmt"
	"net/url"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/schema"
)

// newQueryEncoder returns a schema encoder that knows the scalar types used
// in WATS query strings. Fields are tagged `schema:"name,omitempty"`; nil
// pointers and zero values marked omitempty are left out of the query.
func newQueryEncoder() *schema.Encoder {
	enc := schema.NewEncoder()
	enc.RegisterEncoder(DateTime{}, func(v reflect.Value) string {
		return v.Interface().(DateTime).String()
	})
	enc.RegisterEncoder(&DateTime{}, func(v reflect.Value) string {
		if v.IsNil() {
			return ""
		}
		return v.Interface().(*DateTime).String()
	})
	enc.RegisterEncoder(time.Time{}, func(v reflect.Value) string {
		return v.Interface().(time.Time).Format(time.RFC3339Nano)
	})
	enc.RegisterEncoder(&time.Time{}, func(v reflect.Value) string {
		if v.IsNil() {
			return ""
		}
		return v.Interface().(*time.Time).Format(time.RFC3339Nano)
	})
	enc.RegisterEncoder(uuid.UUID{}, func(v reflect.Value) string {
		return v.Interface().(uuid.UUID).String()
	})
	return enc
}

// EncodeValues converts query or form input into url.Values. Accepted inputs
// are nil, url.Values, map[string]string, and schema-tagged structs or
// pointers to them.
func EncodeValues(v any) (url.Values, error) {
	switch q := v.(type) {
	case nil:
		return nil, nil
	case url.Values:
		return q, nil
	case map[string]string:
		out := make(url.Values, len(q))
		for k, val := range q {
			out.Set(k, val)
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("encoding query: unsupported type %T", v)
	}

	out := url.Values{}
	if err := newQueryEncoder().Encode(rv.Interface(), out); err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}
	return out, nil
}
