package main

import (
	"context"
	"errors"
	"testing"

	"hackerhome-api/core/dashboard"
	"hackerhome-api/core/domain"
	"hackerhome-api/core/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver serves totalPages pages of two items each
type fakeDriver struct {
	totalPages int
	page       int
	enabled    []string
	loadMores  int
	failOn     int
	enableErr  error
}

func (f *fakeDriver) SetEnabled(_ context.Context, source string, enabled bool) (dashboard.SourceStatus, error) {
	if f.enableErr != nil {
		return dashboard.SourceStatus{}, f.enableErr
	}
	f.enabled = append(f.enabled, source)
	if f.page == 0 {
		f.page = 1
	}
	return dashboard.SourceStatus{Enabled: enabled}, nil
}

func (f *fakeDriver) Items(_ context.Context, source, feed, _ string, _ []string, _ bool) (dashboard.View, error) {
	if feed == "" {
		feed = "top"
	}
	view := dashboard.View{
		Snapshot: session.Snapshot{
			Phase:   session.PhaseSettled,
			Page:    f.page,
			HasMore: f.page < f.totalPages,
		},
		Source: domain.SourceInfo{ID: source},
		Feed:   feed,
	}
	if f.failOn > 0 && f.page >= f.failOn {
		view.Phase = session.PhaseFailed
		view.HasMore = false
		view.Err = errors.New("boom")
	}
	for i := 0; i < f.page*2; i++ {
		view.Items = append(view.Items, domain.Item{ID: string(rune('a' + i))})
	}
	return view, nil
}

func (f *fakeDriver) LoadMore(_ context.Context, _, feed string) (bool, error) {
	f.loadMores++
	if f.page >= f.totalPages {
		return false, nil
	}
	f.page++
	return true, nil
}

func TestFetchPages(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		pages     int
		failOn    int
		wantPage  int
		wantMores int
	}{
		{"single page", 5, 1, 0, 1, 0},
		{"three pages", 5, 3, 0, 3, 2},
		{"stops when exhausted", 2, 5, 0, 2, 1},
		{"stops on failure", 5, 5, 2, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDriver{totalPages: tt.total, failOn: tt.failOn}

			view, err := fetchPages(context.Background(), d, "hn", "", "", nil, tt.pages)
			require.NoError(t, err)

			assert.Equal(t, []string{"hn"}, d.enabled)
			assert.Equal(t, "top", view.Feed)
			assert.Equal(t, tt.wantPage, view.Page)
			assert.Len(t, view.Items, tt.wantPage*2)
			assert.Equal(t, tt.wantMores, d.loadMores)
		})
	}
}

func TestFetchPages_EnableError(t *testing.T) {
	d := &fakeDriver{enableErr: errors.New("unknown source")}
	_, err := fetchPages(context.Background(), d, "nope", "", "", nil, 1)
	assert.EqualError(t, err, "unknown source")
}
