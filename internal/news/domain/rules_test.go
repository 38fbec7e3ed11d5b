package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world-2024", Slugify("Hello, World!! 2024"))
	assert.Equal(t, "scheduled-maintenance", Slugify("  Scheduled   Maintenance  "))
}

func TestPrepareForCreate_DerivesSlugWhenEmpty(t *testing.T) {
	now := time.Now().UTC()

	a := Article{Title: "Water Supply Notice", Category: CategoryAnnouncement}
	require.NoError(t, PrepareForCreate(&a, now))
	assert.Equal(t, "water-supply-notice", a.Slug)
	assert.Equal(t, StatusDraft, a.Status)
	assert.Equal(t, AudienceAll, a.TargetAudience)
	assert.Equal(t, PriorityNormal, a.Priority)

	a = Article{Title: "Water Supply Notice", Slug: "custom-slug", Category: CategoryAnnouncement}
	require.NoError(t, PrepareForCreate(&a, now))
	assert.Equal(t, "custom-slug", a.Slug)
}

func TestPrepareForCreate_StampsPublishedAt(t *testing.T) {
	now := time.Now().UTC()

	a := Article{Title: "Outage tonight", Category: CategoryEmergency, Status: StatusPublished}
	require.NoError(t, PrepareForCreate(&a, now))
	require.NotNil(t, a.PublishedAt)
	assert.Equal(t, now, *a.PublishedAt)

	draft := Article{Title: "Not yet", Category: CategoryTips}
	require.NoError(t, PrepareForCreate(&draft, now))
	assert.Nil(t, draft.PublishedAt)
}

func TestPrepareForCreate_RejectsBadCategory(t *testing.T) {
	a := Article{Title: "Anything", Category: "weather"}
	assert.ErrorIs(t, PrepareForCreate(&a, time.Now()), ErrInvalidCategory)
}

func TestPrepareForUpdate_SlugIsSticky(t *testing.T) {
	now := time.Now().UTC()
	a := Article{Title: "Original", Slug: "original", Category: CategoryTips, Status: StatusDraft}

	title := "A Completely New Title"
	require.NoError(t, PrepareForUpdate(&a, Changes{Title: &title}, now))
	assert.Equal(t, "A Completely New Title", a.Title)
	assert.Equal(t, "original", a.Slug)
}

func TestPrepareForUpdate_PublishStampsOnce(t *testing.T) {
	now := time.Date(2026, time.June, 1, 8, 0, 0, 0, time.UTC)
	a := Article{Title: "Notice", Slug: "notice", Category: CategoryTips, Status: StatusDraft}

	published := StatusPublished
	require.NoError(t, PrepareForUpdate(&a, Changes{Status: &published}, now))
	require.NotNil(t, a.PublishedAt)
	assert.Equal(t, now, *a.PublishedAt)

	// Archive and republish later; the original timestamp stays.
	archived := StatusArchived
	later := now.Add(48 * time.Hour)
	require.NoError(t, PrepareForUpdate(&a, Changes{Status: &archived}, later))
	require.NoError(t, PrepareForUpdate(&a, Changes{Status: &published}, later))
	assert.Equal(t, now, *a.PublishedAt)
}

func TestEffectivelyPublished(t *testing.T) {
	now := time.Now().UTC()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	draft := Article{Status: StatusDraft, PublishedAt: &yesterday}
	assert.False(t, draft.EffectivelyPublished(now))

	published := Article{Status: StatusPublished, PublishedAt: &yesterday}
	assert.True(t, published.EffectivelyPublished(now))

	expired := Article{Status: StatusPublished, PublishedAt: &yesterday, ExpiresAt: &yesterday}
	assert.False(t, expired.EffectivelyPublished(now))

	notExpired := Article{Status: StatusPublished, PublishedAt: &yesterday, ExpiresAt: &tomorrow}
	assert.True(t, notExpired.EffectivelyPublished(now))

	scheduled := Article{Status: StatusPublished, PublishedAt: &tomorrow}
	assert.False(t, scheduled.EffectivelyPublished(now))

	noStamp := Article{Status: StatusPublished}
	assert.False(t, noStamp.EffectivelyPublished(now))
}
