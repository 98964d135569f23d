package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmaenge-dot/mystore-admin/internal/models"
)

func TestFindStore(t *testing.T) {
	s, ok := FindStore("Thuso")
	require.True(t, ok)
	assert.Equal(t, "Thuso Wholesaler", s.Name)

	_, ok = FindStore("nope")
	assert.False(t, ok)
}

func TestProducts(t *testing.T) {
	list, ok := Products("thuso")
	require.True(t, ok)
	require.Len(t, list, 3)

	list[0].BulkPricing[0].Price = 1
	again, _ := Products("thuso")
	assert.Equal(t, 23.0, again[0].BulkPricing[0].Price)

	list, ok = Products("sefalana")
	assert.True(t, ok)
	assert.Empty(t, list)

	_, ok = Products("nope")
	assert.False(t, ok)
}

func TestWithImagesDoesNotMutate(t *testing.T) {
	list, _ := Products("choppies")
	out := WithImages(list, models.ImageMap{"p3": "/images/broc.png", "zz": "/images/x.png"})

	assert.Equal(t, "/images/broc.png", out[2].Image)
	assert.Equal(t, "/images/apple.svg", out[0].Image)
	assert.Empty(t, list[2].Image)

	p, _ := FindProduct("choppies", "p3")
	assert.Empty(t, p.Image)
}

func TestApplyBrand(t *testing.T) {
	s, _ := FindStore("choppies")
	out := ApplyBrand(s, models.Brand{BrandColor: "#123", Logo: "/images/new.png"})
	assert.Equal(t, "#123", out.BrandColor)
	assert.Equal(t, "/images/new.png", out.Logo)
	assert.Equal(t, "#a50008", out.BrandStrong)

	orig, _ := FindStore("choppies")
	assert.Equal(t, "#e53935", orig.BrandColor)
}

func TestStaticImageRefs(t *testing.T) {
	refs := StaticImageRefs()
	assert.Contains(t, refs, "/images/apple.svg")
	assert.Contains(t, refs, "/images/sefalana-attach.png")
}
