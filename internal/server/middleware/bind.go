package middleware

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/nguyentranbao-ct/reuse/internal/models"
)

// BindAndValidate binds path params, the body, query params and headers into req, then validates it.
// Form and query values are bound by this package so that pointer fields stay nil when the caller
// did not send them; JSON bodies go through echo's binder.
func BindAndValidate(c echo.Context, req interface{}) error {
	binder := &echo.DefaultBinder{}
	if err := binder.BindPathParams(c, req); err != nil {
		return err
	}

	ctype := c.Request().Header.Get(echo.HeaderContentType)
	switch {
	case strings.HasPrefix(ctype, echo.MIMEApplicationForm), strings.HasPrefix(ctype, echo.MIMEMultipartForm):
		form, err := c.FormParams()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if err := bindValues(form, "form", req); err != nil {
			return err
		}
	default:
		if err := binder.BindBody(c, req); err != nil {
			return err
		}
	}

	if err := bindValues(c.QueryParams(), "query", req); err != nil {
		return err
	}

	if err := bindHeader(c.Request().Header, req); err != nil {
		return err
	}

	if err := c.Validate(req); err != nil {
		return fmt.Errorf("%w: %s", models.ErrInvalidInput, err)
	}

	return nil
}

func bindValues(values url.Values, tagName string, dst interface{}) error {
	return bindStruct(dst, tagName, func(tagValue string) (string, bool) {
		v, ok := values[tagValue]
		if !ok || len(v) == 0 {
			return "", false
		}
		return v[0], true
	})
}

// bindHeader decode http header to struct by tag `header:"<header_name>"`
func bindHeader(header http.Header, dst interface{}) error {
	return bindStruct(dst, "header", func(tagValue string) (string, bool) {
		v := header.Get(tagValue)
		return v, v != ""
	})
}

// bindStruct decode to struct by custom tag `tagName:"tagValue"`. Embedded structs are walked.
// dst must be a pointer to a struct
func bindStruct(dst interface{}, tagName string, getValueFn func(tagValue string) (string, bool)) error {
	ptr := reflect.ValueOf(dst)
	if ptr.Kind() != reflect.Ptr || ptr.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind: %T is not a pointer to a struct", dst)
	}
	return bindStructValue(ptr.Elem(), tagName, getValueFn)
}

func bindStructValue(indirect reflect.Value, tagName string, getValueFn func(tagValue string) (string, bool)) error {
	structType := indirect.Type()
	for i := 0; i < structType.NumField(); i++ {
		structField := structType.Field(i)
		field := indirect.Field(i)
		if structField.Anonymous && field.Kind() == reflect.Struct {
			if err := bindStructValue(field, tagName, getValueFn); err != nil {
				return err
			}
			continue
		}

		tagValue := strings.SplitN(structField.Tag.Get(tagName), ",", 2)[0]
		if tagValue == "-" || tagValue == "" || !structField.IsExported() {
			continue
		}
		raw, ok := getValueFn(tagValue)
		if !ok {
			continue
		}
		if err := setField(field, raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("cannot parse %s %q as %s: %s", tagName, tagValue, field.Type(), err))
		}
	}
	return nil
}

func setField(field reflect.Value, raw string) error {
	if field.Kind() == reflect.Ptr {
		elem := reflect.New(field.Type().Elem())
		if err := setField(elem.Elem(), raw); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		v, err := cast.ToBoolE(raw)
		if err != nil {
			return err
		}
		field.SetBool(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(v)
	case reflect.Float32, reflect.Float64:
		v, err := cast.ToFloat64E(raw)
		if err != nil {
			return err
		}
		field.SetFloat(v)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}
