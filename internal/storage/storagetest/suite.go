// Package storagetest holds the behavior every storage.Local driver must share.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/stretchr/testify/suite"

	"regdesk/internal/storage"
)

// Suite runs the driver contract. Embed it and set NewLocal.
type Suite struct {
	suite.Suite
	NewLocal func() storage.Local
	local    storage.Local
	ctx      context.Context
}

func (s *Suite) SetupTest() {
	s.ctx = context.Background()
	s.local = s.NewLocal()
}

func (s *Suite) TearDownTest() {
	s.Require().NoError(s.local.Close())
}

func (s *Suite) TestGetSetRemove() {
	s.Run("absent key", func() {
		_, ok, err := s.local.Get(s.ctx, "kmk_registrations")
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("set then get", func() {
		s.Require().NoError(s.local.Set(s.ctx, "kmk_registrations", `[{"registrationId":"KMK-UT-2026-000001"}]`))
		v, ok, err := s.local.Get(s.ctx, "kmk_registrations")
		s.Require().NoError(err)
		s.True(ok)
		s.Equal(`[{"registrationId":"KMK-UT-2026-000001"}]`, v)
	})

	s.Run("remove several keys ignoring missing ones", func() {
		s.Require().NoError(s.local.Set(s.ctx, "kmk_id_counter", "1"))
		s.Require().NoError(s.local.Remove(s.ctx, "kmk_registrations", "kmk_id_counter", "never_set"))
		_, ok, err := s.local.Get(s.ctx, "kmk_registrations")
		s.Require().NoError(err)
		s.False(ok)
		_, ok, err = s.local.Get(s.ctx, "kmk_id_counter")
		s.Require().NoError(err)
		s.False(ok)
	})
}

func (s *Suite) TestIncr() {
	s.Run("starts from zero", func() {
		n, err := s.local.Incr(s.ctx, "at_id_counter")
		s.Require().NoError(err)
		s.Equal(int64(1), n)
		n, err = s.local.Incr(s.ctx, "at_id_counter")
		s.Require().NoError(err)
		s.Equal(int64(2), n)

		v, ok, err := s.local.Get(s.ctx, "at_id_counter")
		s.Require().NoError(err)
		s.True(ok)
		s.Equal("2", v)
	})

	s.Run("continues from a stored value", func() {
		s.Require().NoError(s.local.Set(s.ctx, "vt_id_counter", "41"))
		n, err := s.local.Incr(s.ctx, "vt_id_counter")
		s.Require().NoError(err)
		s.Equal(int64(42), n)
	})

	s.Run("corrupt counter", func() {
		s.Require().NoError(s.local.Set(s.ctx, "yv_id_counter", "NaN"))
		_, err := s.local.Incr(s.ctx, "yv_id_counter")
		s.Require().Error(err)
		s.ErrorIs(err, storage.ErrCorruptCounter)
	})

	s.Run("concurrent increments are unique", func() {
		const workers = 20
		var wg sync.WaitGroup
		seen := make(chan int64, workers)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				n, err := s.local.Incr(s.ctx, "race_counter")
				if err == nil {
					seen <- n
				}
			}()
		}
		wg.Wait()
		close(seen)

		unique := map[int64]bool{}
		for n := range seen {
			unique[n] = true
		}
		s.Len(unique, workers)
	})
}

func (s *Suite) TestUpdate() {
	s.Run("creates a missing key", func() {
		err := s.local.Update(s.ctx, "list", func(current string, exists bool) (string, error) {
			s.False(exists)
			return current + "a", nil
		})
		s.Require().NoError(err)
		v, _, _ := s.local.Get(s.ctx, "list")
		s.Equal("a", v)
	})

	s.Run("no change leaves value", func() {
		err := s.local.Update(s.ctx, "list", func(string, bool) (string, error) {
			return "", storage.ErrNoChange
		})
		s.Require().NoError(err)
		v, _, _ := s.local.Get(s.ctx, "list")
		s.Equal("a", v)
	})

	s.Run("error aborts", func() {
		boom := errors.New("boom")
		err := s.local.Update(s.ctx, "list", func(string, bool) (string, error) {
			return "zzz", boom
		})
		s.ErrorIs(err, boom)
		v, _, _ := s.local.Get(s.ctx, "list")
		s.Equal("a", v)
	})

	s.Run("concurrent appends are not lost", func() {
		const workers = 10
		var wg sync.WaitGroup
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = s.local.Update(s.ctx, "appends", func(current string, _ bool) (string, error) {
					return current + fmt.Sprintf("%d,", i), nil
				})
			}()
		}
		wg.Wait()
		v, _, err := s.local.Get(s.ctx, "appends")
		s.Require().NoError(err)
		count := 0
		for _, c := range v {
			if c == ',' {
				count++
			}
		}
		s.Equal(workers, count)
	})
}

func (s *Suite) TestScan() {
	deviceA := "kmk_form_draft:7f7d6a9a-0000-4000-8000-000000000001"
	deviceB := "kmk_form_draft:7f7d6a9a-0000-4000-8000-000000000002"
	s.Require().NoError(s.local.Set(s.ctx, deviceB, "{}"))
	s.Require().NoError(s.local.Set(s.ctx, deviceA, "{}"))
	s.Require().NoError(s.local.Set(s.ctx, "kmk_registrations", "[]"))
	s.Require().NoError(s.local.Set(s.ctx, "kmk_form_draftX", "{}"))

	keys, err := s.local.Scan(s.ctx, "kmk_form_draft:")
	s.Require().NoError(err)
	s.Equal([]string{deviceA, deviceB}, keys)

	keys, err = s.local.Scan(s.ctx, "nothing_")
	s.Require().NoError(err)
	s.Empty(keys)
}
