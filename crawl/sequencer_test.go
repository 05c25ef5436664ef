package crawl_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/outreach"
	"github.com/fwojciec/outreach/crawl"
	"github.com/fwojciec/outreach/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSequencer(m *memStore, p *pauses, target int) *crawl.Sequencer {
	cfg := outreach.DefaultConfig()
	return &crawl.Sequencer{
		Store:        m.store(),
		Collector:    newCollector(p.pauser()),
		Visitor:      newVisitor(m, p),
		Pauser:       p.pauser(),
		Target:       target,
		MaxLinks:     10,
		Attempts:     3,
		CollectDelay: cfg.Delays.Collect,
		PassDelay:    cfg.Delays.Pass,
	}
}

func loadState(t *testing.T, m *memStore, startURL string) *crawl.State {
	t.Helper()
	state, err := crawl.LoadState(context.Background(), m.store(), startURL)
	require.NoError(t, err)
	return state
}

func TestSequencer_Run(t *testing.T) {
	t.Parallel()

	t.Run("collects and sends until target", func(t *testing.T) {
		t.Parallel()

		// Given a results page with three listings from different sellers
		site := newFakeSite()
		site.results[origin+"s"] = &fakeResults{batches: [][]string{{"/item_1", "/item_2", "/item_3"}}}
		site.listings[item(1)] = &fakeListing{seller: "A"}
		site.listings[item(2)] = &fakeListing{seller: "B"}
		site.listings[item(3)] = &fakeListing{seller: "C"}
		m := &memStore{}
		state := loadState(t, m, origin+"s")

		// When I run with a target of two messages
		var events []crawl.ProgressEvent
		res, err := newSequencer(m, &pauses{}, 2).Run(context.Background(), site, state, func(e crawl.ProgressEvent) {
			events = append(events, e)
		})

		// Then two messages go out and the cursor points at the second link
		require.NoError(t, err)
		assert.Equal(t, 2, res.Sent)
		assert.Equal(t, 2, state.Sent)
		assert.Len(t, site.sent, 2)
		assert.Equal(t, []string{item(1), item(2), item(3)}, m.links)
		assert.Equal(t, item(2), m.cursor)
		assert.Equal(t, []string{"A", "B"}, m.sellers)
		assert.Equal(t, crawl.ProgressCollected, events[0].Type)
		assert.Equal(t, 3, events[0].Count)
	})

	t.Run("resumes after persisted cursor", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite()
		for i := 1; i <= 3; i++ {
			site.listings[item(i)] = &fakeListing{seller: string(rune('A' + i - 1))}
		}
		m := &memStore{links: []string{item(1), item(2), item(3)}, cursor: item(2)}
		state := loadState(t, m, origin+"s")

		res, err := newSequencer(m, &pauses{}, 1).Run(context.Background(), site, state, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, res.Sent)
		assert.Equal(t, []sentMessage{{url: item(3), message: "Hello!"}}, site.sent)
		assert.Equal(t, []string{item(3)}, m.cursors)
		assert.NotContains(t, site.navigations, origin+"s", "no collection needed")
	})

	t.Run("collects again when cursor reaches last link", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite()
		site.results[origin+"s"] = &fakeResults{batches: [][]string{{"/item_1", "/item_2", "/item_3", "/item_4"}}}
		site.listings[item(4)] = &fakeListing{seller: "D"}
		m := &memStore{links: []string{item(1), item(2), item(3)}, cursor: item(3)}
		state := loadState(t, m, origin+"s")

		res, err := newSequencer(m, &pauses{}, 1).Run(context.Background(), site, state, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, res.Collected)
		assert.Equal(t, []string{item(1), item(2), item(3), item(4)}, m.links)
		assert.Equal(t, []sentMessage{{url: item(4), message: "Hello!"}}, site.sent)
	})

	t.Run("never contacts a processed seller", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite()
		site.results[origin+"s"] = &fakeResults{batches: [][]string{{"/item_1", "/item_2"}}}
		site.listings[item(1)] = &fakeListing{seller: "Ivan123"}
		site.listings[item(2)] = &fakeListing{seller: "Ivan123"}
		m := &memStore{sellers: []string{"Ivan123"}}
		state := loadState(t, m, origin+"s")

		res, err := newSequencer(m, &pauses{}, 5).Run(context.Background(), site, state, nil)

		require.NoError(t, err)
		assert.Empty(t, site.sent)
		assert.Equal(t, 2, res.Skipped)
		assert.True(t, res.Exhausted)
	})

	t.Run("sends once per seller within a run", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite()
		site.results[origin+"s"] = &fakeResults{batches: [][]string{{"/item_1", "/item_2"}}}
		site.listings[item(1)] = &fakeListing{seller: "Same"}
		site.listings[item(2)] = &fakeListing{seller: "Same"}
		m := &memStore{}
		state := loadState(t, m, origin+"s")

		res, err := newSequencer(m, &pauses{}, 5).Run(context.Background(), site, state, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, res.Sent)
		assert.Len(t, site.sent, 1)
	})

	t.Run("pauses between passes and threads last page", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite()
		site.results[origin+"s"] = &fakeResults{batches: [][]string{{"/item_1"}}, next: "/s?p=2"}
		site.results[origin+"s?p=2"] = &fakeResults{batches: [][]string{{"/item_2"}}}
		site.listings[item(1)] = &fakeListing{seller: "A"}
		site.listings[item(2)] = &fakeListing{seller: "B"}
		m := &memStore{}
		state := loadState(t, m, origin+"s")
		p := &pauses{}
		seq := newSequencer(m, p, 5)
		seq.MaxLinks = 1

		res, err := seq.Run(context.Background(), site, state, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, res.Sent)
		assert.True(t, res.Exhausted)
		assert.Equal(t, origin+"s?p=2", state.StartURL)
		assert.Contains(t, p.delays, seq.PassDelay)
	})

	t.Run("reports exhaustion when nothing is found", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite()
		site.results[origin+"s"] = &fakeResults{}
		m := &memStore{}
		state := loadState(t, m, origin+"s")

		res, err := newSequencer(m, &pauses{}, 3).Run(context.Background(), site, state, nil)

		require.NoError(t, err)
		assert.True(t, res.Exhausted)
		assert.Equal(t, 0, res.Sent)
	})

	t.Run("keeps polling for new listings when asked to", func(t *testing.T) {
		t.Parallel()

		// Given a results page that is empty until the first pass pause
		site := newFakeSite()
		results := &fakeResults{}
		site.results[origin+"s"] = results
		site.listings[item(1)] = &fakeListing{seller: "A"}
		m := &memStore{}
		state := loadState(t, m, origin+"s")
		seq := newSequencer(m, &pauses{}, 1)
		seq.KeepPolling = true
		waits := 0
		seq.Pauser = &mock.Pauser{PauseFn: func(ctx context.Context, d outreach.Delay) error {
			if d == seq.PassDelay {
				waits++
				results.batches = [][]string{{"/item_1"}}
			}
			return nil
		}}

		// When the run finds nothing on its first pass
		res, err := seq.Run(context.Background(), site, state, nil)

		// Then it waits and collects again instead of giving up
		require.NoError(t, err)
		assert.False(t, res.Exhausted)
		assert.Equal(t, 1, waits)
		assert.Equal(t, 1, res.Sent)
		assert.Equal(t, []sentMessage{{url: item(1), message: "Hello!"}}, site.sent)
	})

	t.Run("escalates when start page cannot be opened", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite()
		site.navigateErr[origin+"s"] = outreach.Errorf(outreach.EUNAVAILABLE, "offline")
		m := &memStore{}
		state := loadState(t, m, origin+"s")

		_, err := newSequencer(m, &pauses{}, 3).Run(context.Background(), site, state, nil)

		require.Error(t, err)
		assert.Equal(t, outreach.EUNAVAILABLE, outreach.ErrorCode(err))
		assert.Len(t, site.navigations, 3)
	})

	t.Run("sets cursor before visiting", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite()
		site.listings[item(1)] = &fakeListing{seller: "A"}
		site.findErr = errors.New("browser gone")
		m := &memStore{links: []string{item(1)}}
		state := loadState(t, m, origin+"s")

		_, err := newSequencer(m, &pauses{}, 1).Run(context.Background(), site, state, nil)

		require.ErrorContains(t, err, "browser gone")
		assert.Equal(t, item(1), m.cursor, "cursor persisted even though the visit failed")
	})
}
