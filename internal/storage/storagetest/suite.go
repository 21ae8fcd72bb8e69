// Package storagetest holds the behaviour every storage.Store backend shares.
package storagetest

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/primelife/signup/internal/storage"
)

// StoreSuite exercises a storage.Store through its public contract.
// Embed it and set NewStore before suite.Run.
type StoreSuite struct {
	suite.Suite

	// NewStore returns a fresh store for each test. Keys written by earlier
	// tests may still be present, so tests use unique keys.
	NewStore func() storage.Store

	store storage.Store
}

func (s *StoreSuite) SetupTest() {
	s.Require().NotNil(s.NewStore, "NewStore must be set")
	s.store = s.NewStore()
}

func (s *StoreSuite) TearDownTest() {
	if s.store != nil {
		s.NoError(s.store.Close())
	}
}

// Store returns the store under test.
func (s *StoreSuite) Store() storage.Store { return s.store }

func (s *StoreSuite) key() string {
	return "primelife_quiz_state:" + uuid.NewString()
}

func (s *StoreSuite) TestGetMissingKey() {
	_, err := s.store.Get(context.Background(), s.key())
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *StoreSuite) TestPutThenGet() {
	ctx := context.Background()
	key := s.key()
	value := []byte(`{"currentPage":"plans","selectedPlanId":null,"formData":null}`)

	s.Require().NoError(s.store.Put(ctx, key, value))

	got, err := s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.Equal(value, got)
}

func (s *StoreSuite) TestPutReplaces() {
	ctx := context.Background()
	key := s.key()

	s.Require().NoError(s.store.Put(ctx, key, []byte("first")))
	s.Require().NoError(s.store.Put(ctx, key, []byte("second")))

	got, err := s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.Equal("second", string(got))
}

func (s *StoreSuite) TestDelete() {
	ctx := context.Background()
	key := s.key()

	s.Require().NoError(s.store.Put(ctx, key, []byte("value")))
	s.Require().NoError(s.store.Delete(ctx, key))

	_, err := s.store.Get(ctx, key)
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *StoreSuite) TestDeleteMissingKey() {
	s.NoError(s.store.Delete(context.Background(), s.key()))
}

func (s *StoreSuite) TestKeysAreIndependent() {
	ctx := context.Background()
	a, b := s.key(), s.key()

	s.Require().NoError(s.store.Put(ctx, a, []byte("a")))
	s.Require().NoError(s.store.Put(ctx, b, []byte("b")))
	s.Require().NoError(s.store.Delete(ctx, a))

	got, err := s.store.Get(ctx, b)
	s.Require().NoError(err)
	s.Equal("b", string(got))
}

func (s *StoreSuite) TestReturnedValueIsNotAliased() {
	ctx := context.Background()
	key := s.key()
	value := []byte("original")

	s.Require().NoError(s.store.Put(ctx, key, value))
	value[0] = 'X'

	got, err := s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.Equal("original", string(got))

	got[0] = 'Y'
	again, err := s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.Equal("original", string(again))
}

func (s *StoreSuite) TestConcurrentWriters() {
	ctx := context.Background()
	const writers = 8

	keys := make([]string, writers)
	for i := range keys {
		keys[i] = s.key()
	}

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.store.Put(ctx, keys[i], []byte(keys[i]))
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}
	for _, key := range keys {
		got, err := s.store.Get(ctx, key)
		s.Require().NoError(err)
		s.Equal(key, string(got))
	}
}
