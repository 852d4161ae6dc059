package services

import (
	"errors"
	"testing"
	"time"

	"consentd/internal/models"
	"consentd/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(store *testutil.MockStore, archiver *testutil.MockArchiver) ResponseServiceInterface {
	return NewResponseService(store, archiver, &testutil.MockLogger{}, &testutil.MockMetrics{})
}

func validRecord(session string) models.Record {
	return models.Record{
		models.FieldSessionID: session,
		models.FieldFeedback: map[string]any{
			models.FeedbackDepartment: "Design",
			models.FeedbackFavorite:   "variant-2",
			models.FeedbackIMostTrust: "variant-1",
		},
		models.FieldRatings: map[string]any{
			"variant-1": 4.0,
			"variant-2": 5.0,
		},
	}
}

// --- Submit ---

func TestSubmit_Valid(t *testing.T) {
	store := &testutil.MockStore{}
	svc := newTestService(store, &testutil.MockArchiver{})

	receipt, err := svc.Submit(validRecord("s1"))
	require.NoError(t, err)
	assert.Equal(t, "s1", receipt.ResponseID)
	assert.Equal(t, 1, receipt.Total)
	require.Len(t, store.Records, 1)
}

func TestSubmit_StampsServerTimestamp(t *testing.T) {
	store := &testutil.MockStore{}
	svc := newTestService(store, &testutil.MockArchiver{})

	_, err := svc.Submit(validRecord("s1"))
	require.NoError(t, err)

	stamp, ok := store.Records[0][models.FieldServerTimestamp].(string)
	require.True(t, ok)
	_, err = time.Parse(time.RFC3339, stamp)
	assert.NoError(t, err)
}

func TestSubmit_EmptyRecord(t *testing.T) {
	store := &testutil.MockStore{}
	svc := newTestService(store, &testutil.MockArchiver{})

	_, err := svc.Submit(models.Record{})
	assert.ErrorIs(t, err, ErrNoData)
	assert.Empty(t, store.Records)
}

func TestSubmit_MissingFeedback(t *testing.T) {
	store := &testutil.MockStore{}
	svc := newTestService(store, &testutil.MockArchiver{})

	_, err := svc.Submit(models.Record{models.FieldRatings: map[string]any{}})
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Empty(t, store.Records)
}

func TestSubmit_MissingRatings(t *testing.T) {
	store := &testutil.MockStore{}
	svc := newTestService(store, &testutil.MockArchiver{})

	_, err := svc.Submit(models.Record{models.FieldFeedback: map[string]any{}})
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Empty(t, store.Records)
}

func TestSubmit_NoSessionID(t *testing.T) {
	store := &testutil.MockStore{}
	svc := newTestService(store, &testutil.MockArchiver{})

	receipt, err := svc.Submit(models.Record{
		models.FieldFeedback: map[string]any{},
		models.FieldRatings:  map[string]any{},
	})
	require.NoError(t, err)
	assert.Nil(t, receipt.ResponseID)
}

func TestSubmit_DuplicateSessionIDsAccepted(t *testing.T) {
	store := &testutil.MockStore{}
	svc := newTestService(store, &testutil.MockArchiver{})

	for i := 0; i < 3; i++ {
		receipt, err := svc.Submit(validRecord("same"))
		require.NoError(t, err)
		assert.Equal(t, i+1, receipt.Total)
	}
	assert.Len(t, store.Records, 3)
}

// --- List ---

func TestList_All(t *testing.T) {
	store := &testutil.MockStore{Records: []models.Record{validRecord("a"), validRecord("b")}}
	svc := newTestService(store, &testutil.MockArchiver{})

	records, err := svc.List("")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestList_FilterByDepartment(t *testing.T) {
	other := validRecord("b")
	other[models.FieldFeedback] = map[string]any{models.FeedbackDepartment: "Legal"}
	noDept := models.Record{
		models.FieldSessionID: "c",
		models.FieldFeedback:  map[string]any{},
		models.FieldRatings:   map[string]any{},
	}
	store := &testutil.MockStore{Records: []models.Record{validRecord("a"), other, noDept}}
	svc := newTestService(store, &testutil.MockArchiver{})

	records, err := svc.List("Design")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].SessionID())
}

func TestList_FilterNoMatches(t *testing.T) {
	store := &testutil.MockStore{Records: []models.Record{validRecord("a")}}
	svc := newTestService(store, &testutil.MockArchiver{})

	records, err := svc.List("Nonexistent")
	require.NoError(t, err)
	assert.Empty(t, records)
}

// --- Stats ---

func TestStats_EmptyStore(t *testing.T) {
	svc := newTestService(&testutil.MockStore{}, &testutil.MockArchiver{})

	summary, err := svc.Stats()
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestStats_Averages(t *testing.T) {
	r1 := validRecord("a")
	r1[models.FieldRatings] = map[string]any{"variant-1": 4.0}
	r2 := validRecord("b")
	r2[models.FieldRatings] = map[string]any{"variant-1": 5.0, "variant-2": 2.0}
	store := &testutil.MockStore{Records: []models.Record{r1, r2}}
	svc := newTestService(store, &testutil.MockArchiver{})

	summary, err := svc.Stats()
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.TotalResponses)
	assert.Equal(t, 4.5, summary.AverageRatings["variant-1"])
	assert.Equal(t, 2.0, summary.AverageRatings["variant-2"])
}

func TestStats_AveragesRoundedToTwoDecimals(t *testing.T) {
	r1 := validRecord("a")
	r1[models.FieldRatings] = map[string]any{"variant-1": 1.0}
	r2 := validRecord("b")
	r2[models.FieldRatings] = map[string]any{"variant-1": 2.0}
	r3 := validRecord("c")
	r3[models.FieldRatings] = map[string]any{"variant-1": 2.0}
	store := &testutil.MockStore{Records: []models.Record{r1, r2, r3}}
	svc := newTestService(store, &testutil.MockArchiver{})

	summary, err := svc.Stats()
	require.NoError(t, err)
	// 5/3 = 1.666... → 1.67
	assert.Equal(t, 1.67, summary.AverageRatings["variant-1"])
}

func TestStats_AverageWithinRatingBounds(t *testing.T) {
	r1 := validRecord("a")
	r1[models.FieldRatings] = map[string]any{"variant-3": 1.0}
	r2 := validRecord("b")
	r2[models.FieldRatings] = map[string]any{"variant-3": 5.0}
	store := &testutil.MockStore{Records: []models.Record{r1, r2}}
	svc := newTestService(store, &testutil.MockArchiver{})

	summary, err := svc.Stats()
	require.NoError(t, err)
	avg := summary.AverageRatings["variant-3"]
	assert.GreaterOrEqual(t, avg, 1.0)
	assert.LessOrEqual(t, avg, 5.0)
}

func TestStats_FavoriteAndTrustCounts(t *testing.T) {
	r1 := validRecord("a")
	r2 := validRecord("b")
	r3 := validRecord("c")
	r3[models.FieldFeedback] = map[string]any{models.FeedbackFavorite: "variant-5"}
	store := &testutil.MockStore{Records: []models.Record{r1, r2, r3}}
	svc := newTestService(store, &testutil.MockArchiver{})

	summary, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, summary.FavoriteCounts["variant-2"])
	assert.Equal(t, 1, summary.FavoriteCounts["variant-5"])
	assert.Equal(t, 2, summary.MostTrustedCounts["variant-1"])
	// r3 has no mostTrusted: counted under the empty bucket
	assert.Equal(t, 1, summary.MostTrustedCounts[""])
}

func TestStats_LastResponse(t *testing.T) {
	r1 := validRecord("a")
	r1[models.FieldTimestamp] = "2025-05-01T10:00:00Z"
	r2 := validRecord("b")
	r2[models.FieldTimestamp] = "2025-05-02T11:00:00Z"
	store := &testutil.MockStore{Records: []models.Record{r1, r2}}
	svc := newTestService(store, &testutil.MockArchiver{})

	summary, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, "2025-05-02T11:00:00Z", summary.LastResponse)
}

// --- Clear ---

func TestClear_EmptiesStore(t *testing.T) {
	store := &testutil.MockStore{Records: []models.Record{validRecord("a"), validRecord("b")}}
	svc := newTestService(store, &testutil.MockArchiver{})

	require.NoError(t, svc.Clear())

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestClear_ArchivesPreviousContents(t *testing.T) {
	store := &testutil.MockStore{Records: []models.Record{validRecord("a")}}
	archiver := &testutil.MockArchiver{On: true}
	svc := newTestService(store, archiver)

	require.NoError(t, svc.Clear())

	require.Len(t, archiver.Archived, 1)
	require.Len(t, archiver.Archived[0], 1)
	assert.Equal(t, "a", archiver.Archived[0][0].SessionID())
}

func TestClear_ArchiveFailureKeepsStore(t *testing.T) {
	store := &testutil.MockStore{Records: []models.Record{validRecord("a")}}
	archiver := &testutil.MockArchiver{On: true, ArchiveErr: errors.New("disk full")}
	svc := newTestService(store, archiver)

	assert.Error(t, svc.Clear())

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCount(t *testing.T) {
	store := &testutil.MockStore{Records: []models.Record{validRecord("a")}}
	svc := newTestService(store, &testutil.MockArchiver{})

	count, err := svc.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
