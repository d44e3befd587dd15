// Package dashboard is the gated collaborator: the housing price/rent view
// rendered once the access gate grants a visit. It holds the long-form
// dataset, filters it by city, district, metric, and year range, and
// summarizes percentage changes. It knows nothing about access state.
package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"sort"

	"github.com/haowan-apps/fangboard/internal/model"
)

// Query selects a slice of the dataset.
type Query struct {
	City      string
	Districts []string // empty means all districts of the city
	Metric    model.Metric
	FromYear  int
	ToYear    int
}

// Change is one district's movement over the queried year range.
type Change struct {
	District string
	End      float64
	Pct      float64 // fraction, e.g. 0.12 for +12%
	HasPct   bool    // false when the start value is zero or missing
}

// Dashboard serves filtered views of a long-form housing dataset.
type Dashboard struct {
	rows []model.Row
}

// New returns a dashboard over the given rows.
func New(rows []model.Row) *Dashboard {
	return &Dashboard{rows: rows}
}

// Load reads a dashboard dataset from a JSON file of long-form rows.
func Load(path string) (*Dashboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var rows []model.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s contains no rows", path)
	}
	return New(rows), nil
}

// Cities returns the distinct cities in the dataset, sorted.
func (d *Dashboard) Cities() []string {
	seen := make(map[string]struct{})
	var cities []string
	for _, r := range d.rows {
		if _, ok := seen[r.City]; !ok {
			seen[r.City] = struct{}{}
			cities = append(cities, r.City)
		}
	}
	sort.Strings(cities)
	return cities
}

// Districts returns the distinct districts of a city, sorted.
func (d *Dashboard) Districts(city string) []string {
	seen := make(map[string]struct{})
	var districts []string
	for _, r := range d.rows {
		if r.City != city {
			continue
		}
		if _, ok := seen[r.District]; !ok {
			seen[r.District] = struct{}{}
			districts = append(districts, r.District)
		}
	}
	sort.Strings(districts)
	return districts
}

// Years returns the dataset's year span.
func (d *Dashboard) Years() (min, max int) {
	for i, r := range d.rows {
		if i == 0 || r.Year < min {
			min = r.Year
		}
		if i == 0 || r.Year > max {
			max = r.Year
		}
	}
	return min, max
}

// Filter returns the rows matching the query, ordered by district then year.
func (d *Dashboard) Filter(q Query) []model.Row {
	var rows []model.Row
	for _, r := range d.rows {
		if r.City != q.City || r.Metric != q.Metric {
			continue
		}
		if r.Year < q.FromYear || r.Year > q.ToYear {
			continue
		}
		if len(q.Districts) > 0 && !slices.Contains(q.Districts, r.District) {
			continue
		}
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].District != rows[j].District {
			return rows[i].District < rows[j].District
		}
		return rows[i].Year < rows[j].Year
	})
	return rows
}

// Changes summarizes each district's movement between the first and last
// year of the range. Districts missing either endpoint, or starting at zero
// or NaN, report no percentage.
func Changes(rows []model.Row, fromYear, toYear int) []Change {
	type endpoints struct {
		start, end float64
		hasStart   bool
		hasEnd     bool
	}
	byDistrict := make(map[string]*endpoints)
	var order []string
	for _, r := range rows {
		ep, ok := byDistrict[r.District]
		if !ok {
			ep = &endpoints{}
			byDistrict[r.District] = ep
			order = append(order, r.District)
		}
		switch r.Year {
		case fromYear:
			ep.start, ep.hasStart = r.Value, true
		case toYear:
			ep.end, ep.hasEnd = r.Value, true
		}
	}
	sort.Strings(order)

	changes := make([]Change, 0, len(order))
	for _, district := range order {
		ep := byDistrict[district]
		c := Change{District: district}
		if ep.hasEnd {
			c.End = ep.end
		}
		if ep.hasStart && ep.hasEnd && ep.start != 0 && !math.IsNaN(ep.start) {
			c.Pct = (ep.end - ep.start) / ep.start
			c.HasPct = true
		}
		changes = append(changes, c)
	}
	return changes
}

// Render writes the dashboard HTML fragment for the query: the filtered
// series table plus the change summary. Charts are left to the client side;
// the fragment carries the series as a plain table.
func (d *Dashboard) Render(w io.Writer, q Query) error {
	rows := d.Filter(q)
	view := buildView(d, q, rows)
	return pageTmpl.ExecuteTemplate(w, "dashboard", view)
}
