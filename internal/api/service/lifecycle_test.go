package service

import (
	"context"
	"testing"
	"time"

	"github.com/HamzaHersi01/Posting-Discovery/internal/api/domain"
	"github.com/HamzaHersi01/Posting-Discovery/internal/api/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLifecycle(store *stubStore, resolver *stubResolver, images *stubImages, publisher *stubPublisher) *Lifecycle {
	return NewLifecycle(store, resolver, images, publisher, testLogger())
}

func validCreateParams() CreateParams {
	return CreateParams{
		Title:       "Fix leaking tap",
		Description: "Kitchen tap drips constantly",
		Category:    domain.CategoryPlumbing,
		Postcode:    "SW1A 1AA",
		CustomerID:  "customer-7",
	}
}

func TestCreate_ResolvesPostcodeAndPersists(t *testing.T) {
	store := newStubStore()
	publisher := &stubPublisher{}
	lc := newLifecycle(store, newStubResolver(), &stubImages{}, publisher)

	job, err := lc.Create(context.Background(), validCreateParams())
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusOpen, job.Status)
	assert.Equal(t, "SW1A 1AA", job.Location.Postcode)
	assert.InDelta(t, -0.1276, job.Location.Longitude, 1e-9)
	assert.InDelta(t, 51.5074, job.Location.Latitude, 1e-9)
	assert.Nil(t, job.TradesmanID)
	assert.False(t, job.CreatedAt.IsZero())

	stored, err := store.GetJobByID(context.Background(), job.JobID)
	require.NoError(t, err)
	assert.Equal(t, job.Location, stored.Location)
	assert.Equal(t, []string{events.EventJobCreated}, publisher.events)
}

func TestCreate_UnresolvablePostcodeWritesNothing(t *testing.T) {
	store := newStubStore()
	lc := newLifecycle(store, newStubResolver(), &stubImages{}, &stubPublisher{})

	params := validCreateParams()
	params.Postcode = "ZZ99 9ZZ"

	_, err := lc.Create(context.Background(), params)

	var unresolvable *domain.UnresolvableLocationError
	require.ErrorAs(t, err, &unresolvable)
	assert.Equal(t, "ZZ99 9ZZ", unresolvable.Postcode)
	assert.Equal(t, 0, store.count())
}

func TestCreate_ValidationRejections(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*CreateParams)
		wantField string
	}{
		{"empty title", func(p *CreateParams) { p.Title = "  " }, "title"},
		{"empty description", func(p *CreateParams) { p.Description = "" }, "description"},
		{"unknown category", func(p *CreateParams) { p.Category = "roofing" }, "category"},
		{"empty customer", func(p *CreateParams) { p.CustomerID = "" }, "customer_id"},
		{"empty postcode", func(p *CreateParams) { p.Postcode = "" }, "postcode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStubStore()
			lc := newLifecycle(store, newStubResolver(), &stubImages{}, &stubPublisher{})

			params := validCreateParams()
			tt.mutate(&params)

			_, err := lc.Create(context.Background(), params)

			var invalid *domain.InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.wantField, invalid.Field)
			assert.Equal(t, 0, store.count())
		})
	}
}

func TestCreate_StoreFailureSurfaces(t *testing.T) {
	store := newStubStore()
	store.createErr = errStoreDown
	publisher := &stubPublisher{}
	lc := newLifecycle(store, newStubResolver(), &stubImages{}, publisher)

	_, err := lc.Create(context.Background(), validCreateParams())
	require.ErrorIs(t, err, errStoreDown)
	assert.Empty(t, publisher.events)
}

func TestCreate_PublishFailureDoesNotFailRequest(t *testing.T) {
	store := newStubStore()
	publisher := &stubPublisher{err: errStoreDown}
	lc := newLifecycle(store, newStubResolver(), &stubImages{}, publisher)

	_, err := lc.Create(context.Background(), validCreateParams())
	assert.NoError(t, err)
}

func TestGet(t *testing.T) {
	store := newStubStore()
	lc := newLifecycle(store, newStubResolver(), &stubImages{}, &stubPublisher{})

	created, err := lc.Create(context.Background(), validCreateParams())
	require.NoError(t, err)

	got, err := lc.Get(context.Background(), created.JobID)
	require.NoError(t, err)
	assert.Equal(t, created.JobID, got.JobID)

	_, err = lc.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrMalformedJobID)

	_, err = lc.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestUpdate_PostcodeReplacesWholeLocation(t *testing.T) {
	store := newStubStore()
	lc := newLifecycle(store, newStubResolver(), &stubImages{}, &stubPublisher{})

	created, err := lc.Create(context.Background(), validCreateParams())
	require.NoError(t, err)

	manchester := "M1 1AE"
	updated, err := lc.Update(context.Background(), created.JobID, UpdateParams{Postcode: &manchester})
	require.NoError(t, err)

	// Old coordinate must not survive alongside the new postcode.
	assert.Equal(t, "M1 1AE", updated.Location.Postcode)
	assert.InDelta(t, -2.2374, updated.Location.Longitude, 1e-9)
	assert.InDelta(t, 53.4808, updated.Location.Latitude, 1e-9)
}

func TestUpdate_UnresolvablePostcodeRejectsWholeUpdate(t *testing.T) {
	store := newStubStore()
	lc := newLifecycle(store, newStubResolver(), &stubImages{}, &stubPublisher{})

	created, err := lc.Create(context.Background(), validCreateParams())
	require.NoError(t, err)

	newTitle := "Replace tap entirely"
	badPostcode := "ZZ99 9ZZ"
	_, err = lc.Update(context.Background(), created.JobID, UpdateParams{
		Title:    &newTitle,
		Postcode: &badPostcode,
	})

	var unresolvable *domain.UnresolvableLocationError
	require.ErrorAs(t, err, &unresolvable)
	assert.Equal(t, "ZZ99 9ZZ", unresolvable.Postcode)

	// No partial field application.
	stored, err := store.GetJobByID(context.Background(), created.JobID)
	require.NoError(t, err)
	assert.Equal(t, "Fix leaking tap", stored.Title)
	assert.Equal(t, "SW1A 1AA", stored.Location.Postcode)
}

func TestUpdate_ImageReplacementReleasesOldFirst(t *testing.T) {
	store := newStubStore()
	images := &stubImages{}
	lc := newLifecycle(store, newStubResolver(), images, &stubPublisher{})

	params := validCreateParams()
	params.Image = &domain.ImageRef{RemoteID: "jobs/old", URL: "https://img.example.com/old.jpg", OriginalName: "old.jpg"}
	created, err := lc.Create(context.Background(), params)
	require.NoError(t, err)

	replacement := &domain.ImageRef{RemoteID: "jobs/new", URL: "https://img.example.com/new.jpg", OriginalName: "new.jpg"}
	updated, err := lc.Update(context.Background(), created.JobID, UpdateParams{Image: replacement})
	require.NoError(t, err)

	assert.Equal(t, []string{"jobs/old"}, images.released)
	assert.Equal(t, replacement, updated.Image)
}

func TestUpdate_NoImageReleaseWhenValidationFails(t *testing.T) {
	store := newStubStore()
	images := &stubImages{}
	lc := newLifecycle(store, newStubResolver(), images, &stubPublisher{})

	params := validCreateParams()
	params.Image = &domain.ImageRef{RemoteID: "jobs/old", URL: "https://img.example.com/old.jpg", OriginalName: "old.jpg"}
	created, err := lc.Create(context.Background(), params)
	require.NoError(t, err)

	badPostcode := "ZZ99 9ZZ"
	_, err = lc.Update(context.Background(), created.JobID, UpdateParams{
		Postcode: &badPostcode,
		Image:    &domain.ImageRef{RemoteID: "jobs/new", URL: "https://img.example.com/new.jpg", OriginalName: "new.jpg"},
	})
	require.Error(t, err)

	// Rejected update must not orphan the existing image.
	assert.Empty(t, images.released)
}

func TestUpdate_RefreshesUpdatedAt(t *testing.T) {
	store := newStubStore()
	lc := newLifecycle(store, newStubResolver(), &stubImages{}, &stubPublisher{})

	created, err := lc.Create(context.Background(), validCreateParams())
	require.NoError(t, err)

	// Backdate so the refresh is observable.
	backdated := *created
	backdated.UpdatedAt = created.UpdatedAt.Add(-time.Hour)
	require.NoError(t, store.UpdateJob(context.Background(), &backdated))

	title := "Fix leaking tap urgently"
	updated, err := lc.Update(context.Background(), created.JobID, UpdateParams{Title: &title})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(backdated.UpdatedAt))
}

func TestUpdate_NotFoundAndMalformed(t *testing.T) {
	lc := newLifecycle(newStubStore(), newStubResolver(), &stubImages{}, &stubPublisher{})

	_, err := lc.Update(context.Background(), "bogus", UpdateParams{})
	assert.ErrorIs(t, err, domain.ErrMalformedJobID)

	_, err = lc.Update(context.Background(), "00000000-0000-0000-0000-000000000000", UpdateParams{})
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestDelete_Idempotence(t *testing.T) {
	store := newStubStore()
	lc := newLifecycle(store, newStubResolver(), &stubImages{}, &stubPublisher{})

	created, err := lc.Create(context.Background(), validCreateParams())
	require.NoError(t, err)

	require.NoError(t, lc.Delete(context.Background(), created.JobID))
	assert.ErrorIs(t, lc.Delete(context.Background(), created.JobID), domain.ErrJobNotFound)
}

func TestDelete_ReleasesImage(t *testing.T) {
	store := newStubStore()
	images := &stubImages{}
	lc := newLifecycle(store, newStubResolver(), images, &stubPublisher{})

	params := validCreateParams()
	params.Image = &domain.ImageRef{RemoteID: "jobs/abc", URL: "https://img.example.com/abc.jpg", OriginalName: "abc.jpg"}
	created, err := lc.Create(context.Background(), params)
	require.NoError(t, err)

	require.NoError(t, lc.Delete(context.Background(), created.JobID))
	assert.Equal(t, []string{"jobs/abc"}, images.released)
}

func TestDelete_ProceedsWhenImageReleaseFails(t *testing.T) {
	store := newStubStore()
	images := &stubImages{releaseErr: errStoreDown}
	lc := newLifecycle(store, newStubResolver(), images, &stubPublisher{})

	params := validCreateParams()
	params.Image = &domain.ImageRef{RemoteID: "jobs/abc", URL: "https://img.example.com/abc.jpg", OriginalName: "abc.jpg"}
	created, err := lc.Create(context.Background(), params)
	require.NoError(t, err)

	require.NoError(t, lc.Delete(context.Background(), created.JobID))
	assert.Equal(t, 0, store.count())
}
