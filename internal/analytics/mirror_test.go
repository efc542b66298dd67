package analytics

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordedCall struct {
	tag    string
	name   string
	params *Params
}

type fakeObserver struct {
	mu    sync.Mutex
	tag   string
	calls *[]recordedCall
}

func (f *fakeObserver) OnEvent(_ context.Context, name string, params *Params) {
	f.mu.Lock()
	defer f.mu.Unlock()
	*f.calls = append(*f.calls, recordedCall{tag: f.tag, name: name, params: params})
}

func TestRecordMostRecentFirst(t *testing.T) {
	m := NewMirror()
	ctx := context.Background()

	m.Record(ctx, "view_item_list", NewParams().Set("item_id_1", "blazer_red_m"))
	m.Record(ctx, "view_item", NewParams().Set("item_id", "shoes_5"))
	m.Record(ctx, "add_to_cart", NewParams().Set("item_id", "shoes_5"))

	snap := m.Snapshot()
	require.Len(t, snap, 3)
	assert.Contains(t, snap[0], `"event_name": "add_to_cart"`)
	assert.Contains(t, snap[1], `"event_name": "view_item"`)
	assert.Contains(t, snap[2], `"event_name": "view_item_list"`)
	assert.Equal(t, 3, m.Len())
}

func TestRecordWithoutObserver(t *testing.T) {
	m := NewMirror()

	rec := m.Record(context.Background(), "view_cart", nil)

	assert.Equal(t, "view_cart", rec.Name)
	assert.Equal(t, int64(1), rec.Sequence)
	assert.Equal(t, 1, m.Len())
}

func TestRecordNotifiesObserverWithRawParams(t *testing.T) {
	var calls []recordedCall
	m := NewMirror()
	m.SetObserver(&fakeObserver{tag: "primary", calls: &calls})

	params := NewParams().Set("item_id", "shoes_5").Set("price", 79.99).Set("quantity", 1)
	m.Record(context.Background(), "add_to_cart", params)

	require.Len(t, calls, 1)
	assert.Equal(t, "add_to_cart", calls[0].name)
	assert.Same(t, params, calls[0].params)
}

func TestSetObserverLastWins(t *testing.T) {
	var calls []recordedCall
	m := NewMirror()
	m.SetObserver(&fakeObserver{tag: "first", calls: &calls})
	m.SetObserver(&fakeObserver{tag: "second", calls: &calls})

	m.Record(context.Background(), "view_item", nil)

	require.Len(t, calls, 1)
	assert.Equal(t, "second", calls[0].tag)
}

func TestSetObserverNilClears(t *testing.T) {
	var calls []recordedCall
	m := NewMirror()
	m.SetObserver(&fakeObserver{tag: "primary", calls: &calls})
	m.SetObserver(nil)

	m.Record(context.Background(), "view_item", nil)

	assert.Empty(t, calls)
	assert.Equal(t, 1, m.Len())
}

func TestSubscribersFollowPrimaryInOrder(t *testing.T) {
	var calls []recordedCall
	m := NewMirror()
	m.Subscribe(&fakeObserver{tag: "sub-a", calls: &calls})
	m.SetObserver(&fakeObserver{tag: "primary", calls: &calls})
	m.Subscribe(&fakeObserver{tag: "sub-b", calls: &calls})

	m.Record(context.Background(), "purchase", nil)

	tags := make([]string, len(calls))
	for i, c := range calls {
		tags[i] = c.tag
	}
	assert.Equal(t, []string{"primary", "sub-a", "sub-b"}, tags)
}

func TestUnsubscribe(t *testing.T) {
	var calls []recordedCall
	m := NewMirror()
	unsubscribe := m.Subscribe(&fakeObserver{tag: "sub", calls: &calls})

	m.Record(context.Background(), "view_item", nil)
	unsubscribe()
	unsubscribe()
	m.Record(context.Background(), "view_item", nil)

	assert.Len(t, calls, 1)
}

func TestObserversSeeRecordingOrder(t *testing.T) {
	var names []string
	m := NewMirror()
	m.SetObserver(ObserverFunc(func(_ context.Context, name string, _ *Params) {
		names = append(names, name)
	}))

	for _, n := range []string{"view_item_list", "view_item", "add_to_cart", "view_cart", "purchase"} {
		m.Record(context.Background(), n, nil)
	}

	assert.Equal(t, []string{"view_item_list", "view_item", "add_to_cart", "view_cart", "purchase"}, names)
}

func TestObserverMayReadMirror(t *testing.T) {
	m := NewMirror()
	var seen int
	m.SetObserver(ObserverFunc(func(context.Context, string, *Params) {
		seen = m.Len()
	}))

	m.Record(context.Background(), "view_item", nil)

	assert.Equal(t, 0, seen)
	assert.Equal(t, 1, m.Len())
}

func TestRecordCopiesParams(t *testing.T) {
	m := NewMirror()
	params := NewParams().Set("quantity", 1)

	m.Record(context.Background(), "add_to_cart", params)
	params.Set("quantity", 7)

	assert.Contains(t, m.Snapshot()[0], `"quantity": "1"`)
}

func TestRecordMetadata(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewMirror(WithClock(func() time.Time { return fixed }))
	ctx := WithCorrelationID(context.Background(), "corr-1")

	m.Record(ctx, "view_item_list", nil)
	rec := m.Record(ctx, "view_item", nil)

	assert.Equal(t, int64(2), rec.Sequence)
	assert.Equal(t, "corr-1", rec.CorrelationID)
	assert.Equal(t, fixed, rec.OccurredAt)
}

func TestWithLimitKeepsMostRecent(t *testing.T) {
	m := NewMirror(WithLimit(2))
	for i := 1; i <= 4; i++ {
		m.Record(context.Background(), fmt.Sprintf("event_%d", i), nil)
	}

	recs := m.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "event_4", recs[0].Name)
	assert.Equal(t, "event_3", recs[1].Name)
}

func TestTextJoinsFeed(t *testing.T) {
	m := NewMirror()
	m.Record(context.Background(), "view_item", nil)
	m.Record(context.Background(), "add_to_cart", nil)

	snap := m.Snapshot()
	assert.Equal(t, snap[0]+"\n"+snap[1]+"\n", m.Text())
}

func TestReset(t *testing.T) {
	var calls []recordedCall
	m := NewMirror()
	m.SetObserver(&fakeObserver{tag: "primary", calls: &calls})
	m.Record(context.Background(), "view_item", nil)

	m.Reset()
	m.Record(context.Background(), "view_cart", nil)

	assert.Equal(t, 1, m.Len())
	assert.Len(t, calls, 2)
}

func TestConcurrentRecord(t *testing.T) {
	m := NewMirror()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Record(context.Background(), "view_item", nil)
		}()
	}
	wg.Wait()

	recs := m.Records()
	require.Len(t, recs, 50)
	seen := make(map[int64]bool)
	for _, r := range recs {
		seen[r.Sequence] = true
	}
	assert.Len(t, seen, 50)
}

func TestSlowObserverKeepsFeedOrder(t *testing.T) {
	m := NewMirror()
	ctx := context.Background()
	bRecorded := make(chan struct{})
	m.SetObserver(ObserverFunc(func(_ context.Context, name string, _ *Params) {
		if name == "A" {
			<-bRecorded
		}
	}))

	aDone := make(chan struct{})
	go func() {
		defer close(aDone)
		m.Record(ctx, "A", nil)
	}()
	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.sequence == 1
	}, time.Second, time.Millisecond)

	b := m.Record(ctx, "B", nil)
	close(bRecorded)
	<-aDone

	recs := m.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "B", recs[0].Name)
	assert.Equal(t, b.Sequence, recs[0].Sequence)
	assert.Equal(t, "A", recs[1].Name)
	assert.Equal(t, int64(1), recs[1].Sequence)
}

func TestConcurrentRecordKeepsSequenceOrder(t *testing.T) {
	m := NewMirror(WithLimit(20))
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Record(context.Background(), "view_item", nil)
		}()
	}
	wg.Wait()

	recs := m.Records()
	require.Len(t, recs, 20)
	for i := range recs {
		assert.Equal(t, int64(50-i), recs[i].Sequence)
	}
}

func TestLogObserver(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	o := NewLogObserver(zap.New(core))

	ctx := WithCorrelationID(context.Background(), "corr-9")
	o.OnEvent(ctx, "add_to_cart", NewParams().Set("item_id", "shoes_5").Set("price", 79.99))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "add_to_cart", fields["event_name"])
	assert.Equal(t, "corr-9", fields["correlation_id"])
	assert.Equal(t, map[string]interface{}{"item_id": "shoes_5", "price": "79.99"}, fields["params"])
}
