package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/pkg/tmplx"
	"github.com/nguyentranbao-ct/reuse/pkg/util"
)

// tableView is how a result is shown with -o table.
type tableView struct {
	headers []string
	rows    [][]string
	footer  string
}

func render(w io.Writer, v any, view func() tableView) error {
	if format != "" {
		tmpl, err := tmplx.Parse("format", format)
		if err != nil {
			return err
		}
		buf, err := tmpl.Render(v)
		if err != nil {
			return err
		}
		if !strings.HasSuffix(buf.String(), "\n") {
			buf.WriteByte('\n')
		}
		_, err = w.Write(buf.Bytes())
		return err
	}

	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		tv := view()
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(tv.headers...).
			Rows(tv.rows...)
		if _, err := fmt.Fprintln(w, t.Render()); err != nil {
			return err
		}
		if tv.footer != "" {
			_, err := fmt.Fprintln(w, tv.footer)
			return err
		}
		return nil
	}
	return fmt.Errorf("unknown output %q, want table, json or yaml", output)
}

var (
	money    = tmplx.MustParse("money", `{{money .}}`)
	truncate = tmplx.MustParse("truncate", `{{truncate 40 .}}`)
)

func renderString(t *tmplx.Template, v any) string {
	buf, err := t.Render(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return buf.String()
}

func productRows(products []models.Product) [][]string {
	return util.ConvertList(products, func(p models.Product) []string {
		return []string{
			p.ID,
			renderString(truncate, p.Name),
			renderString(money, p.Price),
			p.Condition,
			strings.Trim(p.Location.City+", "+p.Location.State, ", "),
			p.OwnerName,
		}
	})
}

var productHeaders = []string{"ID", "NAME", "PRICE", "CONDITION", "LOCATION", "OWNER"}

func productsView(products []models.Product) func() tableView {
	return func() tableView {
		return tableView{headers: productHeaders, rows: productRows(products)}
	}
}

func pageView(page *models.ProductPage) func() tableView {
	return func() tableView {
		return tableView{
			headers: productHeaders,
			rows:    productRows(page.Products),
			footer: fmt.Sprintf("page %d of %d, %d products, source %s",
				page.Page, page.Pages, page.Total, page.Source),
		}
	}
}

func productView(p *models.Product) func() tableView {
	return func() tableView {
		return tableView{
			headers: []string{"FIELD", "VALUE"},
			rows: [][]string{
				{"id", p.ID},
				{"name", p.Name},
				{"price", renderString(money, p.Price)},
				{"category", p.Category},
				{"condition", p.Condition},
				{"location", strings.Trim(p.Location.City+", "+p.Location.State, ", ")},
				{"owner", p.OwnerName},
				{"images", strings.Join(p.Images, " ")},
				{"description", p.Description},
			},
		}
	}
}

func sessionView(s *models.Session) func() tableView {
	return func() tableView {
		return tableView{
			headers: []string{"ID", "NAME", "EMAIL", "RATING"},
			rows:    [][]string{{s.User.ID, s.User.Name, s.User.Email, fmt.Sprintf("%.1f", s.User.Rating)}},
		}
	}
}

func messageView(key, value string) func() tableView {
	return func() tableView {
		return tableView{headers: []string{strings.ToUpper(key)}, rows: [][]string{{value}}}
	}
}
