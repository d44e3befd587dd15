package dashboard

import "github.com/haowan-apps/fangboard/internal/model"

// sampleYears is the year span of the built-in dataset.
const (
	sampleFromYear = 2018
	sampleToYear   = 2025
)

// sampleSeed holds each district's 2018 baseline and yearly growth factors.
// The values are deliberately round; the built-in dataset exists so the
// service renders something meaningful before a real dataset is mounted.
var sampleSeed = []struct {
	city        string
	district    string
	basePrice   float64
	baseRent    float64
	priceGrowth float64 // per year
	rentGrowth  float64
}{
	{"北京", "朝阳", 62000, 92, 0.021, 0.015},
	{"北京", "海淀", 68000, 98, 0.026, 0.018},
	{"北京", "东城", 81000, 110, 0.012, 0.010},
	{"北京", "通州", 41000, 58, 0.034, 0.024},
	{"上海", "浦东", 64000, 88, 0.028, 0.020},
	{"上海", "静安", 88000, 118, 0.015, 0.011},
	{"上海", "徐汇", 74000, 102, 0.019, 0.014},
	{"深圳", "南山", 85000, 105, 0.031, 0.022},
	{"深圳", "福田", 78000, 99, 0.023, 0.017},
	{"成都", "锦江", 23000, 38, 0.038, 0.027},
	{"成都", "武侯", 19000, 33, 0.035, 0.025},
}

// Default returns a dashboard over the built-in sample dataset.
func Default() *Dashboard {
	var rows []model.Row
	for _, s := range sampleSeed {
		price, rent := s.basePrice, s.baseRent
		for year := sampleFromYear; year <= sampleToYear; year++ {
			rows = append(rows,
				model.Row{City: s.city, District: s.district, Metric: model.MetricPrice, Year: year, Value: float64(int(price))},
				model.Row{City: s.city, District: s.district, Metric: model.MetricRent, Year: year, Value: float64(int(rent))},
			)
			price *= 1 + s.priceGrowth
			rent *= 1 + s.rentGrowth
		}
	}
	return New(rows)
}
