// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package browseuc_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/usecase/browseuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const debounce = 20 * time.Millisecond

// defaultDebounceMargin is a sleep which ends well before the default
// debounce delay elapses.
const defaultDebounceMargin = browseuc.DefaultDebounce * 3 / 4

type recordingNavigator struct {
	mu    sync.Mutex
	calls []string
	at    []time.Time
	ch    chan string
}

func newRecordingNavigator() *recordingNavigator {
	return &recordingNavigator{ch: make(chan string, 16)}
}

func (rn *recordingNavigator) Navigate(_ context.Context, raw string) error {
	rn.mu.Lock()
	rn.calls = append(rn.calls, raw)
	rn.at = append(rn.at, time.Now())
	rn.mu.Unlock()
	rn.ch <- raw
	return nil
}

func (rn *recordingNavigator) Calls() []string {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	return append([]string(nil), rn.calls...)
}

// NavigatedAt returns the time of the i-th navigation.
func (rn *recordingNavigator) NavigatedAt(i int) time.Time {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	return rn.at[i]
}

type FilterControllerTestSuite struct {
	suite.Suite

	Ctx context.Context
	Nav *recordingNavigator
}

func TestFilterControllerTestSuite(t *testing.T) {
	suite.Run(t, &FilterControllerTestSuite{Ctx: context.Background()})
}

func (fcts *FilterControllerTestSuite) SetupTest() {
	fcts.Nav = newRecordingNavigator()
}

func (fcts *FilterControllerTestSuite) newController(
	raw string,
) *browseuc.FilterController {
	fc, err := browseuc.NewFilterController(
		fcts.Ctx, fcts.Nav, raw, browseuc.WithDebounce(debounce),
	)
	fcts.Require().NoError(err)
	fcts.T().Cleanup(fc.Close)
	return fc
}

func (fcts *FilterControllerTestSuite) await() string {
	select {
	case raw := <-fcts.Nav.ch:
		return raw
	case <-time.After(time.Second):
		fcts.FailNow("navigation did not happen")
		return ""
	}
}

func (fcts *FilterControllerTestSuite) TestTogglesAreCoalesced() {
	fc := fcts.newController("page=2")
	fcts.Require().NoError(fc.Toggle("suv", true))
	fcts.Require().NoError(fc.Toggle("SEDAN", true))
	fcts.Require().NoError(fc.Toggle("coupe", true))
	fcts.Require().NoError(fc.Toggle("coupe", false))
	fcts.True(fc.Pending())

	fcts.Equal("page=2&type=SEDAN,SUV", fcts.await())
	time.Sleep(3 * debounce)
	fcts.Len(fcts.Nav.Calls(), 1)
	fcts.False(fc.Pending())
	fcts.Equal(model.NewTypeSet(model.CarTypeSedan, model.CarTypeSUV), fc.Types())
	fcts.Equal("page=2&type=SEDAN,SUV", fc.Query())
}

func (fcts *FilterControllerTestSuite) TestNavigationWaitsForQuietPeriod() {
	const delay = 100 * time.Millisecond
	fc, err := browseuc.NewFilterController(
		fcts.Ctx, fcts.Nav, "", browseuc.WithDebounce(delay),
	)
	fcts.Require().NoError(err)
	defer fc.Close()

	fcts.Require().NoError(fc.Toggle("suv", true))
	time.Sleep(delay * 6 / 10)
	lastToggle := time.Now()
	fcts.Require().NoError(fc.Toggle("sedan", true))

	fcts.Equal("type=SEDAN,SUV", fcts.await())
	elapsed := fcts.Nav.NavigatedAt(0).Sub(lastToggle)
	fcts.GreaterOrEqual(
		elapsed, delay, "each toggle must restart the quiet period",
	)
}

func (fcts *FilterControllerTestSuite) TestDefaultDebounce() {
	fc, err := browseuc.NewFilterController(fcts.Ctx, fcts.Nav, "")
	fcts.Require().NoError(err)
	defer fc.Close()

	lastToggle := time.Now()
	fcts.Require().NoError(fc.Toggle("coupe", true))
	time.Sleep(defaultDebounceMargin)
	fcts.Empty(fcts.Nav.Calls(), "navigated before the default delay")

	select {
	case raw := <-fcts.Nav.ch:
		fcts.Equal("type=COUPE", raw)
	case <-time.After(2 * browseuc.DefaultDebounce):
		fcts.FailNow("navigation did not happen")
	}
	fcts.GreaterOrEqual(
		fcts.Nav.NavigatedAt(0).Sub(lastToggle), browseuc.DefaultDebounce,
	)
}

func (fcts *FilterControllerTestSuite) TestToggleBackIsNoop() {
	fc := fcts.newController("type=SUV&q=red")
	fcts.Require().NoError(fc.Toggle("sedan", true))
	fcts.Require().NoError(fc.Toggle("sedan", false))
	time.Sleep(4 * debounce)
	fcts.Empty(fcts.Nav.Calls())
	fcts.Equal("q=red&type=SUV", fc.Query())
}

func (fcts *FilterControllerTestSuite) TestClearingRemovesParam() {
	fc := fcts.newController("type=SUV&page=3")
	fcts.Require().NoError(fc.Toggle("suv", false))
	fcts.Equal("page=3", fcts.await())
	fcts.True(fc.Types().Empty())
}

func (fcts *FilterControllerTestSuite) TestInvalidToken() {
	fc := fcts.newController("")
	err := fc.Toggle("tank", true)
	var ce *cerr.Error
	fcts.Require().ErrorAs(err, &ce)
	fcts.Equal(http.StatusBadRequest, ce.HTTPStatusCode)
	fcts.False(fc.Pending())
}

func (fcts *FilterControllerTestSuite) TestCloseCancelsPending() {
	fc := fcts.newController("")
	fcts.Require().NoError(fc.Toggle("suv", true))
	fc.Close()
	fc.Close()
	time.Sleep(3 * debounce)
	fcts.Empty(fcts.Nav.Calls())
	fcts.ErrorIs(fc.Toggle("suv", false), browseuc.ErrClosed)
}

func TestFilterControllerOptions(t *testing.T) {
	nav := newRecordingNavigator()
	_, err := browseuc.NewFilterController(
		context.Background(), nav, "", browseuc.WithDebounce(0),
	)
	assert.Error(t, err)
	_, err = browseuc.NewFilterController(
		context.Background(), nav, "", browseuc.WithDebounce(time.Second),
		browseuc.WithDebounce(time.Second),
	)
	assert.Error(t, err)
	_, err = browseuc.NewFilterController(context.Background(), nav, "%zz")
	assert.Error(t, err)

	fc, err := browseuc.NewFilterController(
		context.Background(), nav, "type=suv,bogus,sedan",
	)
	require.NoError(t, err)
	defer fc.Close()
	assert.Equal(
		t, model.NewTypeSet(model.CarTypeSUV, model.CarTypeSedan), fc.Types(),
	)
}

type fakeToggler struct {
	release chan struct{}
	err     error
	calls   int
	mu      sync.Mutex
}

func (ft *fakeToggler) ToggleBookmark(
	context.Context, uuid.UUID,
) (bool, error) {
	ft.mu.Lock()
	ft.calls++
	ft.mu.Unlock()
	if ft.release != nil {
		<-ft.release
	}
	return true, ft.err
}

func TestBookmarkIsOptimistic(t *testing.T) {
	ft := &fakeToggler{release: make(chan struct{})}
	b := browseuc.NewBookmark(ft, uuid.New(), false, true)
	done, err := b.Toggle(context.Background())
	require.NoError(t, err)
	assert.True(t, b.Saved(), "flag must flip before the request ends")
	close(ft.release)
	assert.NoError(t, <-done)
	assert.True(t, b.Saved())
}

func TestBookmarkRevertsOnFailure(t *testing.T) {
	ft := &fakeToggler{err: errors.New("status 500")}
	b := browseuc.NewBookmark(ft, uuid.New(), true, true)
	done, err := b.Toggle(context.Background())
	require.NoError(t, err)
	assert.Error(t, <-done)
	assert.True(t, b.Saved(), "failed toggle must be reverted")
}

func TestBookmarkKeepsNewerToggle(t *testing.T) {
	ft := &fakeToggler{release: make(chan struct{}), err: errors.New("boom")}
	b := browseuc.NewBookmark(ft, uuid.New(), false, true)
	first, err := b.Toggle(context.Background())
	require.NoError(t, err)
	second, err := b.Toggle(context.Background())
	require.NoError(t, err)
	assert.False(t, b.Saved())
	close(ft.release)
	assert.Error(t, <-first)
	assert.Error(t, <-second)
	assert.True(t, b.Saved(), "only the latest failed toggle reverts")
}

func TestBookmarkRequiresSignIn(t *testing.T) {
	ft := &fakeToggler{}
	b := browseuc.NewBookmark(ft, uuid.New(), false, false)
	_, err := b.Toggle(context.Background())
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusUnauthorized, ce.HTTPStatusCode)
	assert.False(t, b.Saved())
	assert.Zero(t, ft.calls)
}
