// Package tmplx renders user supplied text/template strings, as accepted by the CLI --format flag.
package tmplx

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
)

var (
	ErrRenderTemplate = errors.New("tmplx: render error")
	ErrParseTemplate  = errors.New("tmplx: parse error")
)

type Template struct {
	tmpl *template.Template
}

type Options struct {
	validate ValidateFunc
	testData any
	funcs    template.FuncMap
}

type Option func(*Options) error

type ValidateFunc func(*bytes.Buffer) error

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"quote":    quoteFunc,
		"default":  defaultFunc,
		"json":     jsonFunc,
		"money":    moneyFunc,
		"truncate": truncateFunc,
		"join":     joinFunc,
		"upper":    func(v any) string { return strings.ToUpper(cast.ToString(v)) },
		"lower":    func(v any) string { return strings.ToLower(cast.ToString(v)) },
	}
}

// WithTemplateFunc adds a single custom template function
func WithTemplateFunc(name string, fn any) Option {
	return func(t *Options) error {
		if fn == nil {
			return fmt.Errorf("template func %q is nil", name)
		}
		t.funcs[name] = fn
		return nil
	}
}

// WithValidate renders testData once at parse time so that bad field references fail early.
func WithValidate(testData any, validateFn ValidateFunc) Option {
	return func(t *Options) error {
		t.validate = validateFn
		t.testData = testData
		return nil
	}
}

func MustParse(name string, text string, opts ...Option) *Template {
	t, err := Parse(name, text, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func Parse(name string, text string, args ...Option) (*Template, error) {
	opts := &Options{
		funcs: defaultFuncs(),
	}
	for _, arg := range args {
		if err := arg(opts); err != nil {
			return nil, err
		}
	}

	tmpl, err := template.New(name).
		Option("missingkey=zero").
		Funcs(opts.funcs).
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseTemplate, err)
	}

	t := &Template{
		tmpl: tmpl,
	}
	if opts.validate != nil {
		if err := t.validate(opts.testData, opts.validate); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (t *Template) validate(data any, validate ValidateFunc) error {
	buf := new(bytes.Buffer)
	if err := t.tmpl.Execute(buf, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	if err := validate(buf); err != nil {
		return fmt.Errorf("validate template: %w", err)
	}
	return nil
}

func (t *Template) Render(data any) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if err := t.tmpl.Execute(buf, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderTemplate, err)
	}
	return buf, nil
}

func quoteFunc(s string) (string, error) {
	return jsonFunc(s)
}

func defaultFunc(def any, value any) any {
	if value != nil && value != "" {
		return value
	}
	return def
}

func jsonFunc(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func moneyFunc(v any) (string, error) {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("R$ %.2f", f), nil
}

// truncateFunc cuts s to n runes, marking the cut with an ellipsis.
func truncateFunc(n int, s any) string {
	str := cast.ToString(s)
	runes := []rune(str)
	if n <= 0 || len(runes) <= n {
		return str
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

func joinFunc(sep string, v any) (string, error) {
	items, err := cast.ToStringSliceE(v)
	if err != nil {
		return "", err
	}
	return strings.Join(items, sep), nil
}
