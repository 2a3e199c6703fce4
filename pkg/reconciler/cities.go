package reconciler

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"

	"github.com/pricemap-tw/pricemap/pkg/locations"
)

// CityOrder is the fixed north-to-south order of the city selector.
var CityOrder = []string{
	"台北", "新北", "基隆", "桃園", "新竹", "苗栗", "台中", "彰化", "南投",
	"雲林", "嘉義", "台南", "高雄", "屏東", "宜蘭", "花蓮", "台東",
}

// Display nicknames, only for the "N locations" banner. Never used for
// filtering.
var cityAliases = map[string]string{
	"台北": "天龍國",
	"基隆": "雨都",
	"新竹": "風城",
	"苗栗": "苗栗國",
	"台中": "大台中",
	"南投": "內地",
	"嘉義": "綠豆城",
	"台南": "府城",
	"高雄": "打狗",
	"宜蘭": "蘭陽",
}

// NationwideLabel is the banner label when no city is selected.
const NationwideLabel = "全國"

// CityAlias returns the banner nickname for city.
func CityAlias(city string) string {
	city = strings.TrimSpace(city)
	switch {
	case city == "":
		return "-"
	case strings.EqualFold(city, All):
		return NationwideLabel
	}
	if alias, ok := cityAliases[city]; ok {
		return alias
	}
	return city
}

func cityRank(city string) int {
	return slices.Index(CityOrder, city)
}

// sortCities orders cities by CityOrder; cities outside it follow, in
// collation order.
func sortCities(cities []string, col *collate.Collator) {
	slices.SortFunc(cities, func(a, b string) int {
		ia, ib := cityRank(a), cityRank(b)
		switch {
		case ia == -1 && ib == -1:
			return col.CompareString(a, b)
		case ia == -1:
			return 1
		case ib == -1:
			return -1
		}
		return ia - ib
	})
}

func distinctCities(records []locations.Location) []string {
	seen := make(map[string]struct{})
	cities := make([]string, 0)
	for i := range records {
		city := strings.TrimSpace(records[i].City)
		if city == "" {
			continue
		}
		if _, ok := seen[city]; ok {
			continue
		}
		seen[city] = struct{}{}
		cities = append(cities, city)
	}
	return cities
}
