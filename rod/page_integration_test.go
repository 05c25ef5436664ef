//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/outreach"
	"github.com/fwojciec/outreach/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingHTML = `<!DOCTYPE html>
<html><body>
<div class="style-sticky-header-seller-text-mVIXS" title="Ivan Petrov">Ivan123</div>
<a data-marker="pagination-button/nextPage" href="/s?p=2">next</a>
<textarea data-marker="reply/input">draft</textarea>
<button data-marker="messenger-button/button" onclick="document.body.dataset.clicked='yes'">write</button>
<div id="late"></div>
<script>
setTimeout(function () {
	var el = document.createElement('span');
	el.setAttribute('data-marker', 'item-view/total-views');
	el.textContent = '1 234';
	document.getElementById('late').appendChild(el);
}, 300);
</script>
</body></html>`

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(listingHTML))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newPage(t *testing.T) outreach.Page {
	t.Helper()
	bm, err := rod.NewBrowserManager(outreach.BrowserConfig{Headless: true, ProfileDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = bm.Close() })

	page, err := bm.Page(context.Background())
	require.NoError(t, err)
	return page
}

func TestPage_Integration(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	page := newPage(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, page.Navigate(ctx, srv.URL+"/item_1", 10*time.Second))

	t.Run("reports current URL", func(t *testing.T) {
		url, err := page.URL(ctx)
		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/item_1", url)
	})

	t.Run("returns rendered HTML", func(t *testing.T) {
		html, err := page.HTML(ctx)
		require.NoError(t, err)
		assert.Contains(t, html, "Ivan123")
	})

	t.Run("reads text and attributes", func(t *testing.T) {
		el, err := page.FindOne(ctx, ".style-sticky-header-seller-text-mVIXS")
		require.NoError(t, err)

		text, err := el.Text(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Ivan123", text)

		title, ok, err := el.Attribute(ctx, "title")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Ivan Petrov", title)

		_, ok, err = el.Attribute(ctx, "data-missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("reports missing element as not found", func(t *testing.T) {
		_, err := page.FindOne(ctx, "#does-not-exist")
		require.Error(t, err)
		assert.Equal(t, outreach.ENOTFOUND, outreach.ErrorCode(err))
	})

	t.Run("waits for late element", func(t *testing.T) {
		el, err := page.WaitFor(ctx, `[data-marker="item-view/total-views"]`, 5*time.Second)
		require.NoError(t, err)
		text, err := el.Text(ctx)
		require.NoError(t, err)
		assert.Equal(t, "1 234", text)
	})

	t.Run("reports wait timeout", func(t *testing.T) {
		_, err := page.WaitFor(ctx, "#never", 200*time.Millisecond)
		require.Error(t, err)
		assert.Equal(t, outreach.ETIMEOUT, outreach.ErrorCode(err))
	})

	t.Run("fills text area replacing content", func(t *testing.T) {
		el, err := page.FindOne(ctx, `textarea[data-marker="reply/input"]`)
		require.NoError(t, err)
		require.NoError(t, el.Fill(ctx, "Hello"))

		value, err := el.Text(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Hello", value)
	})

	t.Run("clicks elements", func(t *testing.T) {
		el, err := page.FindOne(ctx, `[data-marker="messenger-button/button"]`)
		require.NoError(t, err)
		require.NoError(t, el.Click(ctx))

		html, err := page.HTML(ctx)
		require.NoError(t, err)
		assert.Contains(t, html, `data-clicked="yes"`)
	})

	t.Run("scrolls and finds all", func(t *testing.T) {
		require.NoError(t, page.ScrollToBottom(ctx))
		els, err := page.FindAll(ctx, "a")
		require.NoError(t, err)
		assert.Len(t, els, 1)
	})
}

func TestPage_Navigate_Unreachable(t *testing.T) {
	t.Parallel()

	page := newPage(t)

	err := page.Navigate(context.Background(), "http://127.0.0.1:1/", 10*time.Second)

	require.Error(t, err)
	assert.Equal(t, outreach.EUNAVAILABLE, outreach.ErrorCode(err))
}

const coveredHTML = `<!DOCTYPE html>
<html><body>
<button id="covered" onclick="document.body.dataset.clicked='yes'">write</button>
<div style="position:fixed;top:0;left:0;width:100%;height:100%;background:#fff;z-index:10"></div>
</body></html>`

func TestElement_Click_Covered(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(coveredHTML))
	}))
	t.Cleanup(srv.Close)

	page := newPage(t)
	require.NoError(t, page.Navigate(context.Background(), srv.URL, 10*time.Second))

	el, err := page.WaitFor(context.Background(), "#covered", 5*time.Second)
	require.NoError(t, err)

	// Given a button hidden under an overlay, a bounded click gives up
	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()
	start := time.Now()
	err = el.Click(ctx)

	require.Error(t, err)
	assert.Equal(t, outreach.ETIMEOUT, outreach.ErrorCode(err))
	assert.Less(t, time.Since(start), 10*time.Second)
}
