package reconciler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
	"github.com/pricemap-tw/pricemap/pkg/reconciler"
)

func loc(id int64, city, name string, p5 locations.Price) locations.Location {
	return locations.Location{ID: id, City: city, Name: name, Category: locations.CategoryClinic, Price5mg: p5}
}

func prices5(locs []locations.Location) []locations.Price {
	out := make([]locations.Price, len(locs))
	for i := range locs {
		out[i] = locs[i].Price5mg
	}
	return out
}

func TestReconcileCityScenario(t *testing.T) {
	records := []locations.Location{
		{City: "台北", Name: "甲", Price5mg: 500},
		{City: "台北", Name: "乙", Price5mg: 300},
		{City: "高雄", Name: "丙", Price5mg: 400},
	}

	result := reconciler.Reconcile(records, reconciler.Query{
		City:      "台北",
		SortKey:   reconciler.SortPrice5mg,
		Direction: reconciler.Asc,
	})

	assert.Equal(t, []locations.Price{300, 500}, prices5(result.Locations))
	assert.Equal(t, 2, result.DistinctCount)
	assert.Equal(t, 3, result.Total)
	for _, l := range result.Locations {
		assert.Equal(t, "台北", l.City)
	}
}

func TestReconcileAllCities(t *testing.T) {
	records := []locations.Location{
		loc(1, "台北", "A", 1), loc(2, "高雄", "B", 2), loc(3, "台中", "C", 0),
	}
	result := reconciler.Reconcile(records, reconciler.DefaultQuery())
	assert.Len(t, result.Locations, 3)
	assert.Equal(t, 3, result.DistinctCount)
}

func TestSortValueMinIgnoresZero(t *testing.T) {
	l := locations.Location{Price5mg: 0, Price10mg: 800}
	v, ok := reconciler.SortValue(&l, reconciler.SortMin)
	require.True(t, ok)
	assert.Equal(t, 800.0, v)

	_, ok = reconciler.SortValue(&l, reconciler.SortPrice5mg)
	assert.False(t, ok)

	empty := locations.Location{}
	_, ok = reconciler.SortValue(&empty, reconciler.SortMin)
	assert.False(t, ok)
}

func TestUndefinedSortsLastInBothDirections(t *testing.T) {
	records := []locations.Location{
		loc(1, "台北", "無價", 0),
		loc(2, "台北", "便宜", 100),
		loc(3, "台北", "也無價", 0),
		loc(4, "台北", "貴", 900),
	}

	for _, dir := range []reconciler.Direction{reconciler.Asc, reconciler.Desc} {
		t.Run(string(dir), func(t *testing.T) {
			result := reconciler.Reconcile(records, reconciler.Query{SortKey: reconciler.SortPrice5mg, Direction: dir})
			require.Len(t, result.Locations, 4)

			got := prices5(result.Locations)
			assert.True(t, got[0].Offered())
			assert.True(t, got[1].Offered())
			assert.False(t, got[2].Offered())
			assert.False(t, got[3].Offered())
			if dir == reconciler.Asc {
				assert.Equal(t, locations.Price(100), got[0])
			} else {
				assert.Equal(t, locations.Price(900), got[0])
			}

			// Undefined rows keep their input order.
			assert.Equal(t, int64(1), result.Locations[2].ID)
			assert.Equal(t, int64(3), result.Locations[3].ID)
		})
	}
}

func TestTieBreakUsesTraditionalChineseCollation(t *testing.T) {
	names := []string{"臺大藥局", "一心診所", "三民醫院", "二林診所", "Alpha", "仁愛"}
	records := make([]locations.Location, len(names))
	for i, n := range names {
		records[i] = loc(int64(i+1), "台北", n, 500)
	}

	col := collate.New(language.TraditionalChinese)
	for _, dir := range []reconciler.Direction{reconciler.Asc, reconciler.Desc} {
		result := reconciler.Reconcile(records, reconciler.Query{SortKey: reconciler.SortMin, Direction: dir})
		require.Len(t, result.Locations, len(names))
		for i := 1; i < len(result.Locations); i++ {
			prev, cur := result.Locations[i-1].Name, result.Locations[i].Name
			assert.LessOrEqual(t, col.CompareString(prev, cur), 0, "%s before %s", prev, cur)
		}
	}
}

func TestFilterCategoryAndKeyword(t *testing.T) {
	records := []locations.Location{
		{ID: 1, City: "台北", District: "大安區", Name: "Happy Clinic", Category: "clinic", Price5mg: 1},
		{ID: 2, City: "台北", District: "信義區", Name: "好藥局", Category: "PHARMACY", Price5mg: 1},
		{ID: 3, City: "台北", District: "中山區", Name: "美麗", Category: "medical_aesthetic", Address: "南京東路", Price5mg: 1},
		{ID: 4, City: "台北", District: "", Name: "無類別", Category: "", Price5mg: 1},
	}

	t.Run("category", func(t *testing.T) {
		result := reconciler.Reconcile(records, reconciler.Query{Category: "pharmacy"})
		require.Len(t, result.Locations, 1)
		assert.Equal(t, int64(2), result.Locations[0].ID)
	})

	t.Run("blank category is clinic", func(t *testing.T) {
		result := reconciler.Reconcile(records, reconciler.Query{Category: "clinic"})
		assert.Len(t, result.Locations, 2)
	})

	t.Run("keyword case insensitive", func(t *testing.T) {
		result := reconciler.Reconcile(records, reconciler.Query{Keyword: "happy"})
		require.Len(t, result.Locations, 1)
		assert.Equal(t, int64(1), result.Locations[0].ID)
	})

	t.Run("keyword matches district", func(t *testing.T) {
		result := reconciler.Reconcile(records, reconciler.Query{Keyword: "信義"})
		require.Len(t, result.Locations, 1)
		assert.Equal(t, int64(2), result.Locations[0].ID)
	})

	t.Run("keyword matches address only when enabled", func(t *testing.T) {
		result := reconciler.Reconcile(records, reconciler.Query{Keyword: "南京"})
		assert.Empty(t, result.Locations)

		def, err := reconciler.New()
		require.NoError(t, err)
		assert.Empty(t, def.Reconcile(records, reconciler.Query{Keyword: "南京"}).Locations)

		r, err := reconciler.New(reconciler.WithAddressSearch(true))
		require.NoError(t, err)
		result = r.Reconcile(records, reconciler.Query{Keyword: "南京"})
		assert.Len(t, result.Locations, 1)
	})

	t.Run("distinct count ignores category and keyword", func(t *testing.T) {
		result := reconciler.Reconcile(records, reconciler.Query{Category: "pharmacy", Keyword: "zzz"})
		assert.Empty(t, result.Locations)
		assert.Equal(t, 4, result.DistinctCount)
	})
}

func TestDistinctCount(t *testing.T) {
	records := []locations.Location{
		{ID: 5, City: "台北", Name: "A"},
		{ID: 5, City: "台北", Name: "A duplicate row"},
		{City: "台北", Name: "無編號", Category: "Clinic"},
		{City: " 台北", Name: "無編號  ", Category: ""},
		{City: "台北", Name: "無編號", Category: "hospital"},
		{City: "高雄", Name: "無編號"},
	}

	assert.Equal(t, 3, reconciler.DistinctCount(records, "台北"))
	assert.Equal(t, 1, reconciler.DistinctCount(records, "高雄"))
	assert.Equal(t, 4, reconciler.DistinctCount(records, reconciler.All))
	assert.Equal(t, 4, reconciler.DistinctCount(records, ""))

	for _, key := range []reconciler.SortKey{reconciler.SortMin, reconciler.SortPrice5mg, reconciler.SortPrice10mg} {
		for _, dir := range []reconciler.Direction{reconciler.Asc, reconciler.Desc} {
			result := reconciler.Reconcile(records, reconciler.Query{City: "台北", SortKey: key, Direction: dir})
			assert.Equal(t, 3, result.DistinctCount)
		}
	}
}

func TestReconcileDoesNotModifyInput(t *testing.T) {
	records := []locations.Location{loc(1, "台北", "B", 900), loc(2, "台北", "A", 100)}
	_ = reconciler.Reconcile(records, reconciler.DefaultQuery())
	assert.Equal(t, int64(1), records[0].ID)
}

func TestReconcileEmpty(t *testing.T) {
	result := reconciler.Reconcile(nil, reconciler.DefaultQuery())
	assert.NotNil(t, result.Locations)
	assert.Empty(t, result.Locations)
	assert.Zero(t, result.DistinctCount)
}

func TestCities(t *testing.T) {
	records := []locations.Location{
		{City: "高雄"}, {City: "台北"}, {City: "金門"}, {City: ""}, {City: "台北"}, {City: "澎湖"}, {City: "新北"},
	}
	cities := reconciler.Cities(records)
	require.Len(t, cities, 5)
	assert.Equal(t, []string{"台北", "新北", "高雄"}, cities[:3])
	assert.ElementsMatch(t, []string{"金門", "澎湖"}, cities[3:])

	col := collate.New(language.TraditionalChinese)
	assert.LessOrEqual(t, col.CompareString(cities[3], cities[4]), 0)
}

func TestCityAlias(t *testing.T) {
	assert.Equal(t, "天龍國", reconciler.CityAlias("台北"))
	assert.Equal(t, "打狗", reconciler.CityAlias("高雄"))
	assert.Equal(t, "新北", reconciler.CityAlias("新北"))
	assert.Equal(t, "金門", reconciler.CityAlias("金門"))
	assert.Equal(t, reconciler.NationwideLabel, reconciler.CityAlias(reconciler.All))
	assert.Equal(t, "-", reconciler.CityAlias(""))
}

func TestParsers(t *testing.T) {
	key, err := reconciler.ParseSortKey("PRICE10MG")
	require.NoError(t, err)
	assert.Equal(t, reconciler.SortPrice10mg, key)

	key, err = reconciler.ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, reconciler.SortMin, key)

	_, err = reconciler.ParseSortKey("price7_5mg")
	assert.True(t, errors.IsValidationError(err))

	dir, err := reconciler.ParseDirection("desc")
	require.NoError(t, err)
	assert.Equal(t, reconciler.Desc, dir)
	_, err = reconciler.ParseDirection("sideways")
	assert.Error(t, err)

	cat, err := reconciler.ParseCategory("All")
	require.NoError(t, err)
	assert.Equal(t, reconciler.All, cat)
	cat, err = reconciler.ParseCategory(" Hospital ")
	require.NoError(t, err)
	assert.Equal(t, "hospital", cat)
	_, err = reconciler.ParseCategory("spa")
	assert.Error(t, err)
}

func TestNewRejectsUndeterminedLocale(t *testing.T) {
	_, err := reconciler.New(reconciler.WithLocale(language.Und))
	assert.True(t, errors.IsValidationError(err))
}

func TestResultPage(t *testing.T) {
	result := reconciler.Reconcile([]locations.Location{
		loc(1, "台北", "A", 1), loc(2, "台北", "B", 2), loc(3, "台北", "C", 3),
	}, reconciler.DefaultQuery())

	assert.Len(t, result.Page(0, 0), 3)
	assert.Len(t, result.Page(1, 1), 1)
	assert.Equal(t, int64(3), result.Page(2, 5)[0].ID)
	assert.Empty(t, result.Page(10, 5))
}
