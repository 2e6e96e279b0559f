package round

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
)

// fakeProvider hands out items named a, b, c, ... with ids 1..n.
type fakeProvider struct {
	limit int   // caps how many items are returned, 0 means no cap
	err   error // returned instead of items when set
	calls []int
}

func (p *fakeProvider) FetchItems(_ context.Context, count int) ([]Item, error) {
	p.calls = append(p.calls, count)
	if p.err != nil {
		return nil, p.err
	}
	n := count
	if p.limit > 0 && p.limit < n {
		n = p.limit
	}
	items := make([]Item, n)
	for i := range n {
		items[i] = Item{ID: i + 1, DisplayName: string(rune('a' + i%26))}
	}
	return items, nil
}

func testController(p ItemProvider) *Controller {
	return NewController(p, WithRand(rand.New(rand.NewPCG(1, 2))))
}

func mustStart(t *testing.T, c *Controller, level int) *RoundState {
	t.Helper()
	s, err := c.StartRound(context.Background(), level)
	if err != nil {
		t.Fatalf("StartRound(%d) failed: %v", level, err)
	}
	return s
}

func mustTap(t *testing.T, c *Controller, s *RoundState, id int) (*RoundState, Outcome) {
	t.Helper()
	next, out, err := c.Tap(s, id)
	if err != nil {
		t.Fatalf("Tap(%d) failed: %v", id, err)
	}
	return next, out
}

func TestItemCount(t *testing.T) {
	for level := 1; level <= 50; level++ {
		if got, want := ItemCount(level), 6+3*(level-1); got != want {
			t.Errorf("ItemCount(%d) = %d, want %d", level, got, want)
		}
	}
	if got := ItemCount(0); got != BaseCount {
		t.Errorf("ItemCount(0) = %d, want %d", got, BaseCount)
	}
}

func TestStartRound(t *testing.T) {
	p := &fakeProvider{}
	c := testController(p)
	s := mustStart(t, c, 3)

	if s.Status() != StatusPlaying {
		t.Errorf("status = %v, want playing", s.Status())
	}
	if s.Level() != 3 || s.Score() != 0 || s.ClickedCount() != 0 {
		t.Errorf("got level=%d score=%d clicked=%d, want 3/0/0", s.Level(), s.Score(), s.ClickedCount())
	}
	if s.Len() != ItemCount(3) {
		t.Errorf("items = %d, want %d", s.Len(), ItemCount(3))
	}
	if !slices.Equal(p.calls, []int{12}) {
		t.Errorf("provider asked for %v, want [12]", p.calls)
	}
}

func TestStartRoundDegradesToReturnedCount(t *testing.T) {
	c := testController(&fakeProvider{limit: 4})
	s := mustStart(t, c, 2)
	if s.Len() != 4 {
		t.Errorf("items = %d, want 4", s.Len())
	}
	if s.Status() != StatusPlaying {
		t.Errorf("status = %v, want playing", s.Status())
	}
}

func TestStartRoundProviderError(t *testing.T) {
	boom := errors.New("boom")
	c := testController(&fakeProvider{err: boom})
	_, err := c.StartRound(context.Background(), 2)

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ProviderError, got %v", err)
	}
	if perr.Level != 2 || perr.Requested != 9 {
		t.Errorf("ProviderError = %+v, want level 2 requested 9", perr)
	}
	if !errors.Is(err, boom) {
		t.Error("ProviderError should unwrap to the provider's error")
	}
}

type dupProvider struct{}

func (dupProvider) FetchItems(context.Context, int) ([]Item, error) {
	return []Item{{ID: 1}, {ID: 1}, {ID: 2}}, nil
}

type emptyProvider struct{}

func (emptyProvider) FetchItems(context.Context, int) ([]Item, error) {
	return nil, nil
}

func TestStartRoundDropsDuplicateIDs(t *testing.T) {
	s := mustStart(t, testController(dupProvider{}), 1)
	if s.Len() != 2 {
		t.Errorf("items = %d, want 2 after dropping duplicates", s.Len())
	}
}

func TestStartRoundNoItems(t *testing.T) {
	_, err := testController(emptyProvider{}).StartRound(context.Background(), 1)
	if !errors.Is(err, ErrNoItems) {
		t.Errorf("expected ErrNoItems, got %v", err)
	}
}

func TestTapNewItemNeverLoses(t *testing.T) {
	c := testController(&fakeProvider{})
	s := mustStart(t, c, 1)
	for _, it := range s.Items() {
		_, out := mustTap(t, c, s, it.ID)
		if out.Kind == Lost {
			t.Errorf("tap on unclicked id %d returned Lost", it.ID)
		}
	}
}

func TestTapRepeatAlwaysLoses(t *testing.T) {
	c := testController(&fakeProvider{})
	for k := 1; k < ItemCount(2); k++ {
		s := mustStart(t, c, 2)
		for id := 1; id <= k; id++ {
			s, _ = mustTap(t, c, s, id)
		}
		for id := 1; id <= k; id++ {
			next, out := mustTap(t, c, s, id)
			if out.Kind != Lost || out.Score != k || out.Level != 2 {
				t.Errorf("k=%d repeat %d: outcome %+v, want Lost(%d) at level 2", k, id, out, k)
			}
			if next.Status() != StatusLost {
				t.Errorf("k=%d repeat %d: status %v, want lost", k, id, next.Status())
			}
		}
	}
}

func TestTapScoreTracksDistinctTaps(t *testing.T) {
	c := testController(&fakeProvider{})
	s := mustStart(t, c, 2)
	for k := 1; k < s.Len(); k++ {
		var out Outcome
		s, out = mustTap(t, c, s, k)
		if out.Kind != Continue || out.Score != k {
			t.Fatalf("tap %d: outcome %+v, want Continue(%d)", k, out, k)
		}
		if s.Score() != k || s.ClickedCount() != k {
			t.Fatalf("tap %d: score=%d clicked=%d, want %d", k, s.Score(), s.ClickedCount(), k)
		}
	}
}

func TestTapDoesNotMutateInput(t *testing.T) {
	c := testController(&fakeProvider{})
	s := mustStart(t, c, 1)
	before := s.Items()

	next, _ := mustTap(t, c, s, 3)
	if s.Score() != 0 || s.ClickedCount() != 0 || s.Clicked(3) {
		t.Error("Tap mutated the input state")
	}
	if !slices.Equal(before, s.Items()) {
		t.Error("Tap reordered the input state's items")
	}
	if !next.Clicked(3) {
		t.Error("next state should record the tap")
	}
}

func TestTapRejectsNonPlaying(t *testing.T) {
	c := testController(&fakeProvider{})
	if _, _, err := c.Tap(Idle(1), 1); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("Tap on idle: got %v, want ErrNotPlaying", err)
	}
	if _, _, err := c.Tap(nil, 1); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("Tap on nil: got %v, want ErrNotPlaying", err)
	}

	s := mustStart(t, c, 1)
	s, _ = mustTap(t, c, s, 1)
	lost, _ := mustTap(t, c, s, 1)
	if _, _, err := c.Tap(lost, 2); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("Tap on lost: got %v, want ErrNotPlaying", err)
	}
}

func TestTapRejectsUnknownItem(t *testing.T) {
	c := testController(&fakeProvider{})
	s := mustStart(t, c, 1)
	next, _, err := c.Tap(s, 99)
	if !errors.Is(err, ErrUnknownItem) {
		t.Errorf("got %v, want ErrUnknownItem", err)
	}
	if next != nil {
		t.Error("rejected tap should not produce a state")
	}
}

func TestTapReshufflesOnContinue(t *testing.T) {
	c := testController(&fakeProvider{})
	s := mustStart(t, c, 5)
	moved := false
	for id := 1; id < 6; id++ {
		prev := s.Items()
		s, _ = mustTap(t, c, s, id)
		if !sameIDs(prev, s.Items()) {
			t.Fatalf("tap %d changed the item set", id)
		}
		if !slices.Equal(prev, s.Items()) {
			moved = true
		}
	}
	if !moved {
		t.Error("items never changed position across five taps")
	}
}

func TestScenarioWinLevelOne(t *testing.T) {
	c := testController(&fakeProvider{})
	s := mustStart(t, c, 1)
	ids := map[string]int{}
	for _, it := range s.Items() {
		ids[it.DisplayName] = it.ID
	}

	for i, name := range []string{"a", "b", "c", "d", "e"} {
		var out Outcome
		s, out = mustTap(t, c, s, ids[name])
		if out.Kind != Continue || out.Score != i+1 {
			t.Fatalf("tap %s: outcome %+v, want Continue(%d)", name, out, i+1)
		}
	}
	s, out := mustTap(t, c, s, ids["f"])
	want := Outcome{Kind: Won, Score: 6, Level: 1, NewLevel: 2}
	if out != want {
		t.Errorf("tap f: outcome %+v, want %+v", out, want)
	}
	if s.Status() != StatusWon {
		t.Errorf("status = %v, want won", s.Status())
	}
}

func TestScenarioRepeatLoses(t *testing.T) {
	c := testController(&fakeProvider{})
	s := mustStart(t, c, 1)
	s, _ = mustTap(t, c, s, 1)
	_, out := mustTap(t, c, s, 1)
	want := Outcome{Kind: Lost, Score: 1, Level: 1}
	if out != want {
		t.Errorf("outcome %+v, want %+v", out, want)
	}
}

func TestRetry(t *testing.T) {
	c := testController(&fakeProvider{})
	s := mustStart(t, c, 3)
	s, _ = mustTap(t, c, s, 1)
	s, _ = mustTap(t, c, s, 1)

	r, err := c.Retry(context.Background(), s)
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if r.Status() != StatusPlaying || r.Score() != 0 || r.ClickedCount() != 0 || r.Level() != 3 {
		t.Errorf("Retry: status=%v score=%d clicked=%d level=%d", r.Status(), r.Score(), r.ClickedCount(), r.Level())
	}
	if r == s {
		t.Error("Retry must return a new state")
	}
}

func TestAdvanceLevel(t *testing.T) {
	c := testController(&fakeProvider{})
	for level := 1; level <= 5; level++ {
		s := mustStart(t, c, level)
		for id := 1; id <= s.Len(); id++ {
			s, _ = mustTap(t, c, s, id)
		}
		if s.Status() != StatusWon {
			t.Fatalf("level %d: status %v, want won", level, s.Status())
		}
		a, err := c.AdvanceLevel(context.Background(), s)
		if err != nil {
			t.Fatalf("AdvanceLevel failed: %v", err)
		}
		if a.Level() != level+1 || a.Score() != 0 || a.ClickedCount() != 0 || a.Status() != StatusPlaying {
			t.Errorf("level %d: advanced to level=%d score=%d clicked=%d status=%v",
				level, a.Level(), a.Score(), a.ClickedCount(), a.Status())
		}
		if a.Len() != s.Len()+StepSize {
			t.Errorf("level %d: advanced round has %d items, want %d", level, a.Len(), s.Len()+StepSize)
		}
	}
}

func TestRetryAndAdvanceFromNil(t *testing.T) {
	c := testController(&fakeProvider{})
	r, err := c.Retry(context.Background(), nil)
	if err != nil || r.Level() != 1 {
		t.Errorf("Retry(nil) = level %v, err %v; want level 1", r, err)
	}
	a, err := c.AdvanceLevel(context.Background(), nil)
	if err != nil || a.Level() != 1 {
		t.Errorf("AdvanceLevel(nil) = %v, err %v; want level 1", a, err)
	}
}

func TestClickedIDsSorted(t *testing.T) {
	c := testController(&fakeProvider{})
	s := mustStart(t, c, 2)
	for _, id := range []int{5, 2, 8} {
		s, _ = mustTap(t, c, s, id)
	}
	if got := s.ClickedIDs(); !slices.Equal(got, []int{2, 5, 8}) {
		t.Errorf("ClickedIDs = %v, want [2 5 8]", got)
	}
}

func TestStatusStrings(t *testing.T) {
	cases := map[fmt.Stringer]string{
		StatusIdle:    "idle",
		StatusPlaying: "playing",
		StatusWon:     "won",
		StatusLost:    "lost",
		Continue:      "continue",
		Lost:          "lost",
		Won:           "won",
	}
	for v, want := range cases {
		if v.String() != want {
			t.Errorf("%#v.String() = %q, want %q", v, v.String(), want)
		}
	}
}

func sameIDs(a, b []Item) bool {
	ida := make([]int, len(a))
	idb := make([]int, len(b))
	for i := range a {
		ida[i] = a[i].ID
	}
	for i := range b {
		idb[i] = b[i].ID
	}
	slices.Sort(ida)
	slices.Sort(idb)
	return slices.Equal(ida, idb)
}
