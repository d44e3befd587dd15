package model

// Metric selects which series of the housing dataset a row belongs to.
type Metric string

const (
	// MetricPrice is the sale price series (元/㎡).
	MetricPrice Metric = "price"
	// MetricRent is the rental price series (元/㎡/月).
	MetricRent Metric = "rent"
)

// String returns the string representation of the metric.
func (m Metric) String() string {
	return string(m)
}

// IsValid checks whether the metric is a known value.
func (m Metric) IsValid() bool {
	switch m {
	case MetricPrice, MetricRent:
		return true
	}
	return false
}

// Unit returns the display unit for values of this metric.
func (m Metric) Unit() string {
	if m == MetricRent {
		return "元/㎡/月"
	}
	return "元/㎡"
}

// Row is one long-form observation of the housing dataset: a single
// district's value for one metric in one year.
type Row struct {
	City     string  `json:"city"`
	District string  `json:"district"`
	Metric   Metric  `json:"metric"`
	Year     int     `json:"year"`
	Value    float64 `json:"value"`
}
