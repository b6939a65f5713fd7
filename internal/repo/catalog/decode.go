package catalog

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/pkg/util"
)

// ErrMalformedResponse means a source answered 2xx with a body that is not a product payload.
var ErrMalformedResponse = errors.New("catalog: malformed response")

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// productElements accepts a bare JSON array or an object wrapping it under "products".
func productElements(body []byte) ([]gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, malformed("body is not valid JSON")
	}
	root := gjson.ParseBytes(body)
	switch {
	case root.IsArray():
		return root.Array(), nil
	case root.IsObject():
		list := root.Get("products")
		if !list.IsArray() {
			return nil, malformed("object has no products array")
		}
		return list.Array(), nil
	default:
		return nil, malformed("unexpected top-level %s", root.Type)
	}
}

func decodeExternalList(body []byte) ([]ExternalProduct, error) {
	elems, err := productElements(body)
	if err != nil {
		return nil, err
	}
	return decodeExternalElems(elems)
}

func decodeExternalElems(elems []gjson.Result) ([]ExternalProduct, error) {
	return util.ConvertListE(elems, func(i int, e gjson.Result) (ExternalProduct, error) {
		p, err := decodeExternal(e)
		if err != nil {
			return ExternalProduct{}, fmt.Errorf("element %d: %w", i, err)
		}
		return p, nil
	})
}

func decodeExternal(e gjson.Result) (ExternalProduct, error) {
	if !e.IsObject() {
		return ExternalProduct{}, malformed("product is %s, not an object", e.Type)
	}

	var p ExternalProduct
	if id := e.Get("id"); id.Exists() && id.Type != gjson.Null {
		if id.Type != gjson.String && id.Type != gjson.Number {
			return p, malformed("id has type %s", id.Type)
		}
		p.ID = cast.ToString(id.Value())
	}

	for field, dst := range map[string]*string{
		"title":       &p.Title,
		"description": &p.Description,
		"category":    &p.Category,
		"image":       &p.Image,
	} {
		v := e.Get(field)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if v.Type != gjson.String {
			return p, malformed("%s has type %s", field, v.Type)
		}
		*dst = v.String()
	}

	if price := e.Get("price"); price.Exists() && price.Type != gjson.Null {
		f, err := cast.ToFloat64E(price.Value())
		if err != nil || (price.Type != gjson.Number && price.Type != gjson.String) {
			return p, malformed("price %q is not a number", price.Raw)
		}
		p.Price = &f
	}
	return p, nil
}

func decodeCanonicalList(v *validator.Validate, body []byte) ([]models.Product, error) {
	elems, err := productElements(body)
	if err != nil {
		return nil, err
	}
	return util.ConvertListE(elems, func(i int, e gjson.Result) (models.Product, error) {
		p, err := decodeCanonical(v, e)
		if err != nil {
			return models.Product{}, fmt.Errorf("element %d: %w", i, err)
		}
		return *p, nil
	})
}

func decodeCanonical(v *validator.Validate, e gjson.Result) (*models.Product, error) {
	if !e.IsObject() {
		return nil, malformed("product is %s, not an object", e.Type)
	}
	var p models.Product
	if err := json.Unmarshal([]byte(e.Raw), &p); err != nil {
		return nil, malformed("decode product: %v", err)
	}
	// document stores expose the id as _id
	if p.ID == "" {
		if oid := e.Get("_id"); oid.Exists() {
			p.ID = cast.ToString(oid.Value())
		}
	}
	if err := v.Struct(p); err != nil {
		return nil, malformed("invalid product: %v", err)
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return &p, nil
}

// DecodeProducts decodes a canonical product list, bare or wrapped under "products".
func DecodeProducts(v *validator.Validate, body []byte) ([]models.Product, error) {
	return decodeCanonicalList(v, body)
}

// DecodeProduct decodes one canonical product, bare or wrapped under "product".
func DecodeProduct(v *validator.Validate, body []byte) (*models.Product, error) {
	if !gjson.ValidBytes(body) {
		return nil, malformed("body is not valid JSON")
	}
	elem := gjson.ParseBytes(body)
	if wrapped := elem.Get("product"); wrapped.IsObject() {
		elem = wrapped
	}
	return decodeCanonical(v, elem)
}
