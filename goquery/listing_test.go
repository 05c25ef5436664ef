package goquery_test

import (
	"testing"

	"github.com/fwojciec/outreach"
	"github.com/fwojciec/outreach/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingSelector_CollectLinks(t *testing.T) {
	t.Parallel()

	defaults := outreach.DefaultConfig().Selectors.Layouts

	t.Run("extracts grid layout links in document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="styles-item-m0DD4"><a href="/moskva/item_1">One</a></div>
<div class="styles-item-m0DD4"><a href="/moskva/item_2">Two</a></div>
<div class="styles-item-m0DD4"><a href="https://www.avito.ru/moskva/item_3">Three</a></div>
</body></html>`

		links, err := goquery.NewListingSelector(defaults).CollectLinks(html)

		require.NoError(t, err)
		assert.Equal(t, []string{"/moskva/item_1", "/moskva/item_2", "https://www.avito.ru/moskva/item_3"}, links)
	})

	t.Run("extracts list layout links inside container only", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="index-content-c0K1j">
	<div class="iva-item-title-CdRXl"><a href="/item_a">A</a></div>
	<div class="iva-item-title-CdRXl"><a href="/item_b">B</a></div>
</div>
<aside><div class="iva-item-title-CdRXl"><a href="/promoted">P</a></div></aside>
</body></html>`

		links, err := goquery.NewListingSelector(defaults).CollectLinks(html)

		require.NoError(t, err)
		assert.Equal(t, []string{"/item_a", "/item_b"}, links)
	})

	t.Run("places first strategy matches before second", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="index-content-c0K1j">
	<div class="iva-item-title-CdRXl"><a href="/list_1">L</a></div>
</div>
<div class="styles-item-m0DD4"><a href="/grid_1">G</a></div>
</body></html>`

		links, err := goquery.NewListingSelector(defaults).CollectLinks(html)

		require.NoError(t, err)
		assert.Equal(t, []string{"/grid_1", "/list_1"}, links)
	})

	t.Run("does not deduplicate across strategies", func(t *testing.T) {
		t.Parallel()

		strategies := []outreach.LinkStrategy{
			{Name: "a", Links: "a.item"},
			{Name: "b", Links: "a[href]"},
		}
		html := `<a class="item" href="/x">X</a>`

		links, err := goquery.NewListingSelector(strategies).CollectLinks(html)

		require.NoError(t, err)
		assert.Equal(t, []string{"/x", "/x"}, links)
	})

	t.Run("skips empty and missing hrefs", func(t *testing.T) {
		t.Parallel()

		strategies := []outreach.LinkStrategy{{Name: "all", Links: "a"}}
		html := `<a href="">empty</a><a>none</a><a href="  ">blank</a><a href="/ok">ok</a>`

		links, err := goquery.NewListingSelector(strategies).CollectLinks(html)

		require.NoError(t, err)
		assert.Equal(t, []string{"/ok"}, links)
	})

	t.Run("returns nothing for unrecognised layout", func(t *testing.T) {
		t.Parallel()

		links, err := goquery.NewListingSelector(defaults).CollectLinks(`<html><body><p>captcha</p></body></html>`)

		require.NoError(t, err)
		assert.Empty(t, links)
	})
}

func TestSellerFromHTML(t *testing.T) {
	t.Parallel()

	fallbacks := outreach.DefaultConfig().Selectors.SellerFallbacks

	t.Run("uses first selector that has text", func(t *testing.T) {
		t.Parallel()

		html := `<div class="style-nameWrapper-vmkRf"><span> Ivan123 </span></div>
<span class="styles-module-size_ms-YUHT8">Other</span>`

		id, err := goquery.SellerFromHTML(html, fallbacks)

		require.NoError(t, err)
		assert.Equal(t, "Ivan123", id)
	})

	t.Run("falls through to later selectors", func(t *testing.T) {
		t.Parallel()

		html := `<span class="styles-module-size_ms-YUHT8">Shop Ltd</span>`

		id, err := goquery.SellerFromHTML(html, fallbacks)

		require.NoError(t, err)
		assert.Equal(t, "Shop Ltd", id)
	})

	t.Run("skips empty elements within a selector", func(t *testing.T) {
		t.Parallel()

		html := `<div class="style-nameWrapper-vmkRf"><span> </span><span>Anna</span></div>`

		id, err := goquery.SellerFromHTML(html, fallbacks)

		require.NoError(t, err)
		assert.Equal(t, "Anna", id)
	})

	t.Run("treats loading placeholder as missing", func(t *testing.T) {
		t.Parallel()

		html := `<div class="style-nameWrapper-vmkRf"><span>...</span></div>`

		_, err := goquery.SellerFromHTML(html, fallbacks)

		require.Error(t, err)
		assert.Equal(t, outreach.ENOTFOUND, outreach.ErrorCode(err))
	})

	t.Run("returns not found when nothing matches", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.SellerFromHTML(`<p>nothing</p>`, fallbacks)

		require.Error(t, err)
		assert.Equal(t, outreach.ENOTFOUND, outreach.ErrorCode(err))
	})
}
