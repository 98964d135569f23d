package pricing

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmaenge-dot/mystore-admin/internal/models"
)

const eps = 1e-9

func rice(tiers ...models.Tier) models.Product {
	return models.Product{ID: "t1", Name: "Bulk Rice 10kg", Price: 25, BulkPricing: tiers}
}

func TestResolveUnitPrice(t *testing.T) {
	ordered := rice(models.Tier{MinQty: 5, Price: 23}, models.Tier{MinQty: 10, Price: 20})
	reversed := rice(models.Tier{MinQty: 10, Price: 20}, models.Tier{MinQty: 5, Price: 23})

	cases := []struct {
		qty  float64
		want float64
	}{
		{0, 25}, {4, 25}, {5, 23}, {9, 23}, {10, 20}, {100, 20},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, ResolveUnitPrice(ordered, tc.qty), eps, "qty=%v", tc.qty)
		assert.InDelta(t, tc.want, ResolveUnitPrice(reversed, tc.qty), eps, "qty=%v (tiers inversés)", tc.qty)
	}
}

func TestResolveUnitPriceDoesNotReorderCatalog(t *testing.T) {
	p := rice(models.Tier{MinQty: 10, Price: 20}, models.Tier{MinQty: 5, Price: 23})
	ResolveUnitPrice(p, 7)
	assert.Equal(t, float64(10), p.BulkPricing[0].MinQty)
}

func TestResolveUnitPriceWithoutTiers(t *testing.T) {
	p := models.Product{ID: "p1", Price: 2}
	for _, q := range []float64{0, 1, 1000} {
		assert.InDelta(t, 2.0, ResolveUnitPrice(p, q), eps)
	}
}

func TestComputeLineTotal(t *testing.T) {
	p := rice(models.Tier{MinQty: 5, Price: 23}, models.Tier{MinQty: 10, Price: 20})

	lt := ComputeLineTotal(p, 6)
	assert.InDelta(t, 23.0, lt.UnitPrice, eps)
	assert.InDelta(t, 138.0, lt.LineTotal, eps)

	lt = ComputeLineTotal(p, 0)
	assert.InDelta(t, 25.0, lt.UnitPrice, eps)
	assert.InDelta(t, 0.0, lt.LineTotal, eps)
}

func TestPriceOrderItems(t *testing.T) {
	catalog := []models.Product{
		rice(models.Tier{MinQty: 5, Price: 23}, models.Tier{MinQty: 10, Price: 20}),
		{ID: "t2", Name: "Cooking Oil 5L", Price: 18.5},
	}
	items := []models.RequestedItem{
		{ID: "t1", Qty: 10.0},
		{ID: "t2", Qty: "2"},
		{ID: "ghost", Qty: 3.0},
		{ID: "t2", Qty: "bad"},
	}

	lines, total := PriceOrderItems(catalog, items)
	require.Len(t, lines, 4)

	assert.InDelta(t, 200.0, lines[0].LineTotal, eps)
	assert.InDelta(t, 37.0, lines[1].LineTotal, eps)

	assert.Equal(t, "ghost", lines[2].Name)
	assert.InDelta(t, 0.0, lines[2].Price, eps)
	assert.InDelta(t, 3.0, lines[2].Qty, eps)

	assert.InDelta(t, 0.0, lines[3].Qty, eps)
	assert.InDelta(t, 0.0, lines[3].LineTotal, eps)

	var sum float64
	for _, l := range lines {
		sum += l.LineTotal
	}
	assert.InDelta(t, sum, total, eps)
	assert.InDelta(t, 237.0, total, eps)
}

func TestPriceOrderItemsEmpty(t *testing.T) {
	lines, total := PriceOrderItems(nil, nil)
	assert.Empty(t, lines)
	assert.Zero(t, total)
}

func TestParseQuantity(t *testing.T) {
	t.Run("valides", func(t *testing.T) {
		for _, v := range []interface{}{3, 3.0, "3", " 3 ", json.Number("3"), int64(3)} {
			q, err := ParseQuantity(v)
			require.NoError(t, err, "%#v", v)
			assert.InDelta(t, 3.0, q, eps)
		}
		q, err := ParseQuantity("2.5")
		require.NoError(t, err)
		assert.InDelta(t, 2.5, q, eps)
	})

	t.Run("manquantes", func(t *testing.T) {
		for _, v := range []interface{}{nil, "", "   "} {
			_, err := ParseQuantity(v)
			assert.ErrorIs(t, err, ErrQuantityMissing)
		}
	})

	t.Run("invalides", func(t *testing.T) {
		for _, v := range []interface{}{"bad", "NaN", "Inf", -1, "-2", math.NaN(), math.Inf(1), []interface{}{1}} {
			q, err := ParseQuantity(v)
			assert.ErrorIs(t, err, ErrQuantityMalformed, "%#v", v)
			assert.Zero(t, q)
		}
	})
}

func TestQuantityOrZero(t *testing.T) {
	assert.InDelta(t, 4.0, QuantityOrZero("4"), eps)
	assert.Zero(t, QuantityOrZero("bad"))
	assert.Zero(t, QuantityOrZero(nil))
}

func TestSortedTiersIsACopy(t *testing.T) {
	p := rice(models.Tier{MinQty: 10, Price: 20}, models.Tier{MinQty: 5, Price: 23})
	tiers := SortedTiers(p)
	require.Len(t, tiers, 2)
	assert.Equal(t, float64(5), tiers[0].MinQty)
	assert.Equal(t, float64(10), p.BulkPricing[0].MinQty)
	assert.Nil(t, SortedTiers(rice()))
}

func TestFormatBWP(t *testing.T) {
	assert.Equal(t, "BWP 23.00", FormatBWP(23))
	assert.Equal(t, "BWP 2.40", FormatBWP(2.4))
	assert.Equal(t, "BWP 0.00", FormatBWP(math.Copysign(0, -1)))
	assert.Equal(t, "BWP 186.00", FormatBWP(12*15.5))
}
