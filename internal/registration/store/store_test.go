package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"regdesk/internal/registration/models"
	"regdesk/internal/storage"
	id "regdesk/pkg/domain"
	"regdesk/pkg/platform/sentinel"
)

type StoreSuite struct {
	suite.Suite
	ctx   context.Context
	local storage.Local
	store *Store
	bad   int
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.local = storage.NewMemory()
	s.bad = 0
	s.store = New(s.local, "kmk_registrations", "kmk_id_counter", WithCorruptHook(func() { s.bad++ }))
}

func record(regID string, name string) models.Record {
	age := 21
	r := models.Record{
		RegistrationID: id.RegistrationID(regID),
		FullName:       name,
		DOB:            "2005-01-01",
		Age:            &age,
		RegisteredAt:   time.Date(2026, time.October, 19, 4, 30, 0, 0, time.UTC),
		Status:         models.StatusPending,
	}
	r.Extra.SetList("sports", []string{"kabaddi"})
	return r
}

func (s *StoreSuite) TestListAbsent() {
	records, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.NotNil(records)
	s.Empty(records)
}

func (s *StoreSuite) TestListCorrupt() {
	s.Require().NoError(s.local.Set(s.ctx, "kmk_registrations", "{oops"))

	records, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(records)
	s.Equal(1, s.bad)

	s.Run("append replaces a corrupt list", func() {
		s.Require().NoError(s.store.Append(s.ctx, record("KMK-UT-2026-000001", "Asha")))
		records, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Len(records, 1)
	})
}

func (s *StoreSuite) TestAppendKeepsOrder() {
	s.Require().NoError(s.store.Append(s.ctx, record("KMK-UT-2026-000001", "Asha")))
	s.Require().NoError(s.store.Append(s.ctx, record("KMK-UT-2026-000002", "Mohan")))

	records, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal("Asha", records[0].FullName)
	s.Equal("Mohan", records[1].FullName)
	s.Equal([]string{"kabaddi"}, records[1].Extra.List("sports"))
	s.True(records[0].RegisteredAt.Equal(time.Date(2026, time.October, 19, 4, 30, 0, 0, time.UTC)))

	raw, _, err := s.local.Get(s.ctx, "kmk_registrations")
	s.Require().NoError(err)
	s.Contains(raw, `"registeredAt":"2026-10-19T04:30:00.000Z"`)
}

func (s *StoreSuite) TestAppendAllowsDuplicates() {
	s.Require().NoError(s.store.Append(s.ctx, record("KMK-UT-2026-000001", "Asha")))
	s.Require().NoError(s.store.Append(s.ctx, record("KMK-UT-2026-000001", "Asha again")))

	records, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(records, 2)
}

func (s *StoreSuite) TestDelete() {
	s.Require().NoError(s.store.Append(s.ctx, record("KMK-UT-2026-000001", "Asha")))
	s.Require().NoError(s.store.Append(s.ctx, record("KMK-UT-2026-000002", "Mohan")))

	s.Run("unknown id is a no-op", func() {
		before, _, _ := s.local.Get(s.ctx, "kmk_registrations")
		removed, err := s.store.Delete(s.ctx, "KMK-UT-2026-000009")
		s.Require().NoError(err)
		s.False(removed)
		after, _, _ := s.local.Get(s.ctx, "kmk_registrations")
		s.Equal(before, after)
	})

	s.Run("known id is removed", func() {
		removed, err := s.store.Delete(s.ctx, "KMK-UT-2026-000001")
		s.Require().NoError(err)
		s.True(removed)

		records, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(records, 1)
		s.Equal(id.RegistrationID("KMK-UT-2026-000002"), records[0].RegistrationID)
	})

	s.Run("delete does not touch the counter", func() {
		n, err := s.store.NextSequence(s.ctx)
		s.Require().NoError(err)
		s.Equal(int64(1), n)
	})
}

func (s *StoreSuite) TestSequence() {
	n, err := s.store.Sequence(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)

	first, err := s.store.NextSequence(s.ctx)
	s.Require().NoError(err)
	second, err := s.store.NextSequence(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), first)
	s.Equal(int64(2), second)

	n, err = s.store.Sequence(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	s.Require().NoError(s.local.Set(s.ctx, "kmk_id_counter", "12abc"))
	_, err = s.store.Sequence(s.ctx)
	s.True(errors.Is(err, storage.ErrCorruptCounter))
}

func (s *StoreSuite) TestNextSequenceReseedsCorruptCounter() {
	s.Require().NoError(s.store.Append(s.ctx, record("KMK-UT-2026-000004", "Asha")))
	s.Require().NoError(s.store.Append(s.ctx, record("KMK-UT-2026-000007", "Mohan")))
	s.Require().NoError(s.local.Set(s.ctx, "kmk_id_counter", "abc"))

	n, err := s.store.NextSequence(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(8), n)

	n, err = s.store.Sequence(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(8), n)
}

func (s *StoreSuite) TestNextSequenceReseedsWithoutRecords() {
	s.Require().NoError(s.local.Set(s.ctx, "kmk_id_counter", "abc"))

	n, err := s.store.NextSequence(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func (s *StoreSuite) TestMaxSequenceSkipsMalformedIDs() {
	records := []models.Record{
		record("KMK-UT-2026-000003", "Asha"),
		record("not-an-id", "Mohan"),
		record("KMK-UT-2026-000002", "Devi"),
	}
	s.Equal(int64(3), MaxSequence(records))
	s.Zero(MaxSequence(nil))
}

// retryingLocal replays every Update once against a stale value before the
// real attempt, the way an optimistic transaction retries.
type retryingLocal struct {
	storage.Local
	stale string
}

func (r retryingLocal) Update(ctx context.Context, key string, fn storage.UpdateFunc) error {
	_, _ = fn(r.stale, true)
	return r.Local.Update(ctx, key, fn)
}

func (s *StoreSuite) TestDeleteRetryDoesNotLeakRemoved() {
	stale, err := encode([]models.Record{record("KMK-UT-2026-000001", "Asha")})
	s.Require().NoError(err)
	s.Require().NoError(s.local.Set(s.ctx, "kmk_registrations", "[]"))

	st := New(retryingLocal{Local: s.local, stale: stale}, "kmk_registrations", "kmk_id_counter")
	removed, err := st.Delete(s.ctx, "KMK-UT-2026-000001")
	s.Require().NoError(err)
	s.False(removed)
}

func (s *StoreSuite) TestClear() {
	s.Require().NoError(s.store.Append(s.ctx, record("KMK-UT-2026-000001", "Asha")))
	_, err := s.store.NextSequence(s.ctx)
	s.Require().NoError(err)

	n, err := s.store.Clear(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)

	records, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(records)

	next, err := s.store.NextSequence(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), next, "numbering restarts after clear")
}

func (s *StoreSuite) TestGet() {
	s.Require().NoError(s.store.Append(s.ctx, record("KMK-UT-2026-000001", "Asha")))

	r, err := s.store.Get(s.ctx, "KMK-UT-2026-000001")
	s.Require().NoError(err)
	s.Equal("Asha", r.FullName)

	_, err = s.store.Get(s.ctx, "KMK-UT-2026-000404")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
