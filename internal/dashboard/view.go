package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/haowan-apps/fangboard/internal/model"
)

//go:embed templates/*.html.tmpl
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/*.html.tmpl"))

// view is the data handed to the dashboard template.
type view struct {
	Title    string
	City     string
	Unit     string
	FromYear int
	ToYear   int
	Years    []int
	Series   []seriesView
	Changes  []changeView
	Empty    bool
}

// seriesView is one district's values aligned to view.Years.
type seriesView struct {
	District string
	Values   []string // "" for missing years
}

type changeView struct {
	District string
	End      string // "N/A" when the range has no usable start value
	Delta    string // "" when no percentage can be computed
}

func buildView(d *Dashboard, q Query, rows []model.Row) view {
	v := view{
		Title:    "房产大数据看板",
		City:     q.City,
		Unit:     q.Metric.Unit(),
		FromYear: q.FromYear,
		ToYear:   q.ToYear,
		Empty:    len(rows) == 0,
	}
	if v.Empty {
		return v
	}

	for y := q.FromYear; y <= q.ToYear; y++ {
		v.Years = append(v.Years, y)
	}

	// Rows arrive sorted by district then year.
	byDistrict := make(map[string]map[int]float64)
	var order []string
	for _, r := range rows {
		if _, ok := byDistrict[r.District]; !ok {
			byDistrict[r.District] = make(map[int]float64)
			order = append(order, r.District)
		}
		byDistrict[r.District][r.Year] = r.Value
	}

	for _, district := range order {
		sv := seriesView{District: district}
		for _, y := range v.Years {
			if val, ok := byDistrict[district][y]; ok && !math.IsNaN(val) {
				sv.Values = append(sv.Values, groupDigits(val))
			} else {
				sv.Values = append(sv.Values, "")
			}
		}
		v.Series = append(v.Series, sv)
	}

	for _, c := range Changes(rows, q.FromYear, q.ToYear) {
		cv := changeView{District: c.District, End: "N/A"}
		if c.HasPct {
			cv.End = groupDigits(c.End)
			cv.Delta = fmt.Sprintf("%+.1f%%", c.Pct*100)
		}
		v.Changes = append(v.Changes, cv)
	}
	return v
}

// groupDigits formats a value with thousands separators and no decimals.
func groupDigits(val float64) string {
	s := fmt.Sprintf("%.0f", val)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
