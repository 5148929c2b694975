// Package serializers maps entities to their wire representations. Reads
// are hand-written structs with nested related objects; writes are flat
// structs listing only the mutable fields, decoded key by key so unknown
// keys and per-field type errors are reported individually.
package serializers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"cemetery_api/internal/apperrors"
	"cemetery_api/internal/models"
)

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	dateType    = reflect.TypeOf(models.Date{})
	rawType     = reflect.TypeOf(json.RawMessage{})
)

var registerTagNames sync.Once

// jsonNames makes validator report fields by their JSON key.
func jsonNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// Decode reads a JSON object onto dst, a pointer to a write struct, then
// runs the binding validator over the result. Keys listed in readOnly are
// ignored. Any other key without a matching field is an error.
func Decode(body []byte, dst any, readOnly ...string) error {
	jsonNames()

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte("{}")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return apperrors.NewValidation(apperrors.NonFieldErrors, "Invalid data. Expected a dictionary, but got "+jsonKind(body)+".")
	}

	rv := reflect.ValueOf(dst).Elem()
	fields := fieldIndex(rv.Type())
	skip := make(map[string]bool, len(readOnly))
	for _, k := range readOnly {
		skip[k] = true
	}

	verr := &apperrors.ValidationError{}
	for key, val := range raw {
		if skip[key] {
			continue
		}
		idx, ok := fields[key]
		if !ok {
			verr.Add(key, "Unknown field.")
			continue
		}
		fv := rv.Field(idx)
		if string(val) == "null" && !nullable(fv.Type()) {
			verr.Add(key, "This field may not be null.")
			continue
		}
		if err := json.Unmarshal(val, fv.Addr().Interface()); err != nil {
			verr.Add(key, typeMessage(fv.Type(), err))
		}
	}
	if !verr.Empty() {
		return verr
	}
	return validationErrors(binding.Validator.ValidateStruct(dst))
}

func fieldIndex(t reflect.Type) map[string]int {
	out := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if !f.IsExported() || name == "" || name == "-" {
			continue
		}
		out[name] = i
	}
	return out
}

func nullable(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer || t == rawType
}

func typeMessage(t reflect.Type, err error) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t == decimalType:
		return "A valid number is required."
	case t == dateType:
		return err.Error()
	}
	switch t.Kind() {
	case reflect.String:
		return "Not a valid string."
	case reflect.Bool:
		return "Must be a valid boolean."
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64, reflect.Uint32:
		return "A valid integer is required."
	}
	return "Incorrect type."
}

func jsonKind(body []byte) string {
	switch body[0] {
	case '[':
		return "list"
	case '"':
		return "str"
	case 't', 'f':
		return "bool"
	case 'n':
		return "null"
	}
	if body[0] == '-' || (body[0] >= '0' && body[0] <= '9') {
		return "number"
	}
	return "invalid JSON"
}

// validationErrors converts validator output into field-keyed messages.
func validationErrors(err error) error {
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return apperrors.NewValidation(apperrors.NonFieldErrors, err.Error())
	}
	verr := &apperrors.ValidationError{}
	for _, fe := range ves {
		verr.Add(fe.Field(), message(fe))
	}
	return verr
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "oneof":
		return fmt.Sprintf("\"%v\" is not a valid choice.", fe.Value())
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "min":
		return "Ensure this field has at least " + fe.Param() + " characters."
	}
	return "Invalid value."
}
