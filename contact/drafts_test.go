package contact_test

import (
	"context"
	"contactform/contact"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func TestDrafts_CreateAndGet(t *testing.T) {
	d := contact.NewDrafts(new(MockSink))

	id, ctrl, err := d.Create()
	require.NoError(t, err)
	require.NoError(t, ctrl.UpdateField(contact.FieldName, "Alice"))

	got, err := d.Get(id)

	require.NoError(t, err)
	assert.Same(t, ctrl, got)
	assert.Equal(t, "Alice", got.Fields().Name)
}

func TestDrafts_GetUnknown(t *testing.T) {
	d := contact.NewDrafts(new(MockSink))

	_, err := d.Get("missing")

	assert.Equal(t, contact.ErrDraftNotFound, err)
}

func TestDrafts_Expiry(t *testing.T) {
	clock := newFakeClock()
	d := contact.NewDrafts(new(MockSink), contact.WithDraftTTL(time.Minute), contact.WithClock(clock.Now))

	t.Run("use keeps a draft alive", func(t *testing.T) {
		id, _, err := d.Create()
		require.NoError(t, err)

		clock.Advance(45 * time.Second)
		_, err = d.Get(id)
		require.NoError(t, err)
		clock.Advance(45 * time.Second)
		_, err = d.Get(id)

		assert.NoError(t, err)
	})

	t.Run("idle drafts expire and are pruned on create", func(t *testing.T) {
		id, _, err := d.Create()
		require.NoError(t, err)

		clock.Advance(2 * time.Minute)
		_, err = d.Get(id)
		assert.Equal(t, contact.ErrDraftNotFound, err)

		_, _, err = d.Create()
		require.NoError(t, err)
		assert.Equal(t, 1, d.Len())
	})
}

func TestDrafts_Limit(t *testing.T) {
	d := contact.NewDrafts(new(MockSink), contact.WithDraftLimit(2))
	_, _, err := d.Create()
	require.NoError(t, err)
	id, _, err := d.Create()
	require.NoError(t, err)

	_, _, err = d.Create()
	assert.Equal(t, contact.ErrTooManyDrafts, err)

	require.NoError(t, d.Discard(id))
	_, _, err = d.Create()
	assert.NoError(t, err)
}

func TestDrafts_DiscardCancelsSubmission(t *testing.T) {
	entered := make(chan struct{})
	sink := contact.SinkFunc(func(ctx context.Context, f contact.Fields) error {
		close(entered)
		<-ctx.Done()
		return ctx.Err()
	})
	d := contact.NewDrafts(sink)
	id, ctrl, err := d.Create()
	require.NoError(t, err)
	fillForm(t, ctrl, validFields())

	done := make(chan contact.SubmitResult, 1)
	go func() {
		done <- ctrl.Submit(context.Background())
	}()
	<-entered

	require.NoError(t, d.Discard(id))

	select {
	case res := <-done:
		assert.Equal(t, contact.Failed, res.Outcome)
	case <-time.After(time.Second):
		t.Fatal("discard did not cancel the submission")
	}
	_, err = d.Get(id)
	assert.Equal(t, contact.ErrDraftNotFound, err)
	assert.Equal(t, contact.ErrDraftNotFound, d.Discard(id))
}

func TestDrafts_SubmittingDraftOutlivesTTL(t *testing.T) {
	clock := newFakeClock()
	entered := make(chan struct{})
	release := make(chan struct{})
	sink := contact.SinkFunc(func(ctx context.Context, f contact.Fields) error {
		close(entered)
		<-release
		return nil
	})
	d := contact.NewDrafts(sink, contact.WithDraftTTL(time.Minute), contact.WithClock(clock.Now))
	id, ctrl, err := d.Create()
	require.NoError(t, err)
	fillForm(t, ctrl, validFields())

	done := make(chan contact.SubmitResult, 1)
	go func() {
		done <- ctrl.Submit(context.Background())
	}()
	<-entered
	clock.Advance(2 * time.Minute)

	got, err := d.Get(id)
	require.NoError(t, err)
	assert.Equal(t, contact.StateSubmitting, got.State())

	close(release)
	select {
	case res := <-done:
		assert.Equal(t, contact.Accepted, res.Outcome)
	case <-time.After(time.Second):
		t.Fatal("submission did not finish")
	}
	got, err = d.Get(id)
	require.NoError(t, err, "the last read refreshed the draft")
	assert.Equal(t, contact.Fields{}, got.Fields())
}
