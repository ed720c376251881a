package screens

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/oyarzun/hoteltv/category"
	"github.com/oyarzun/hoteltv/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScreenStore struct {
	rows      map[string]*store.ScreenState
	upsertErr error
}

func newFakeScreenStore() *fakeScreenStore {
	return &fakeScreenStore{rows: make(map[string]*store.ScreenState)}
}

func (f *fakeScreenStore) EnsureScreen(cat string) (*store.ScreenState, error) {
	if _, ok := f.rows[cat]; !ok {
		f.rows[cat] = &store.ScreenState{Category: cat}
	}
	cp := *f.rows[cat]
	return &cp, nil
}

func (f *fakeScreenStore) UpsertRotation(cat string, degrees int) (*store.ScreenState, error) {
	row, _ := f.EnsureScreen(cat)
	row.RotationDegrees = degrees
	f.rows[cat] = row
	cp := *row
	return &cp, nil
}

func (f *fakeScreenStore) UpsertVideo(cat, ref string) (*store.ScreenState, string, error) {
	if f.upsertErr != nil {
		return nil, "", f.upsertErr
	}
	row, _ := f.EnsureScreen(cat)
	prev := row.VideoRef
	row.VideoRef = ref
	f.rows[cat] = row
	cp := *row
	return &cp, prev, nil
}

type fakeMediaStore struct {
	saved   []string
	removed []string
	saveErr error
}

func (f *fakeMediaStore) Save(ctx context.Context, cat, filename string, r io.Reader, size int64) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	ref := fmt.Sprintf("http://localhost:5000/uploads/%s-%d-%s", cat, len(f.saved), filename)
	f.saved = append(f.saved, ref)
	return ref, nil
}

func (f *fakeMediaStore) Remove(ctx context.Context, ref string) error {
	f.removed = append(f.removed, ref)
	return nil
}

func TestGetStateAutoCreates(t *testing.T) {
	svc := NewService(newFakeScreenStore(), &fakeMediaStore{})

	state, err := svc.GetState(category.Lobby)
	require.NoError(t, err)
	assert.Equal(t, category.Lobby, state.Category)
	assert.Empty(t, state.VideoRef)
	assert.Equal(t, 0, state.RotationDegrees)
}

func TestGetStateUnknownCategory(t *testing.T) {
	svc := NewService(newFakeScreenStore(), &fakeMediaStore{})

	_, err := svc.GetState("spa")
	require.ErrorIs(t, err, category.ErrUnknown)
}

func TestSetRotation(t *testing.T) {
	testData := []struct {
		degrees  int
		expected int
		valid    bool
	}{
		{degrees: 0, expected: 0, valid: true},
		{degrees: 90, expected: 90, valid: true},
		{degrees: 180, expected: 180, valid: true},
		{degrees: 270, expected: 270, valid: true},
		{degrees: 360, expected: 0, valid: true},
		{degrees: 450, expected: 90, valid: true},
		{degrees: -90, expected: 270, valid: true},
		{degrees: -450, expected: 270, valid: true},
		{degrees: 45, valid: false},
		{degrees: 91, valid: false},
	}
	for _, td := range testData {
		t.Run(fmt.Sprintf("%d", td.degrees), func(t *testing.T) {
			svc := NewService(newFakeScreenStore(), &fakeMediaStore{})
			state, err := svc.SetRotation(category.Promotions, td.degrees)
			if !td.valid {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "multiple of 90")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, state.RotationDegrees)
		})
	}
}

func TestSetVideoReplacesAndRemovesPrior(t *testing.T) {
	screensStore := newFakeScreenStore()
	mediaStore := &fakeMediaStore{}
	svc := NewService(screensStore, mediaStore)

	first, err := svc.SetVideo(context.Background(), category.HappyHour, "a.mp4", strings.NewReader("aa"), 2)
	require.NoError(t, err)
	assert.NotEmpty(t, first.VideoRef)
	assert.Empty(t, mediaStore.removed)

	second, err := svc.SetVideo(context.Background(), category.HappyHour, "b.mp4", strings.NewReader("bb"), 2)
	require.NoError(t, err)
	assert.NotEqual(t, first.VideoRef, second.VideoRef)
	assert.Equal(t, []string{first.VideoRef}, mediaStore.removed)
}

func TestSetVideoDoesNotTouchOtherCategories(t *testing.T) {
	screensStore := newFakeScreenStore()
	svc := NewService(screensStore, &fakeMediaStore{})

	_, err := svc.SetVideo(context.Background(), category.Lobby, "a.mp4", strings.NewReader("aa"), 2)
	require.NoError(t, err)

	state, err := svc.GetState(category.Clients)
	require.NoError(t, err)
	assert.Empty(t, state.VideoRef)
}

func TestSetVideoRowFailureRetiresNewObject(t *testing.T) {
	screensStore := newFakeScreenStore()
	screensStore.upsertErr = errors.New("disk full")
	mediaStore := &fakeMediaStore{}
	svc := NewService(screensStore, mediaStore)

	_, err := svc.SetVideo(context.Background(), category.Lobby, "a.mp4", strings.NewReader("aa"), 2)
	require.Error(t, err)
	require.Len(t, mediaStore.saved, 1)
	assert.Equal(t, mediaStore.saved, mediaStore.removed)
}

func TestSetVideoSaveFailureLeavesRowUntouched(t *testing.T) {
	screensStore := newFakeScreenStore()
	mediaStore := &fakeMediaStore{saveErr: errors.New("bucket unavailable")}
	svc := NewService(screensStore, mediaStore)

	_, err := svc.SetVideo(context.Background(), category.Lobby, "a.mp4", strings.NewReader("aa"), 2)
	require.Error(t, err)

	state, err := svc.GetState(category.Lobby)
	require.NoError(t, err)
	assert.Empty(t, state.VideoRef)
}
