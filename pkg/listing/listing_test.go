package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/petition-in-go/pkg/model"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/store/mocks"
)

// fakeSignatures serves a fixed number of signatures in id order
type fakeSignatures struct {
	*mocks.MockSignaturesStore
	n int
}

func (f *fakeSignatures) Count(context.Context) (int64, error) {
	return int64(f.n), nil
}

func (f *fakeSignatures) List(_ context.Context, offset, limit int) ([]model.Signature, error) {
	var out []model.Signature
	for i := offset; i < f.n && len(out) < limit; i++ {
		out = append(out, model.Signature{ID: uint(i + 1)})
	}
	return out, nil
}

func newTestLister(t *testing.T, n int) *Lister {
	t.Helper()
	l, err := NewLister(&fakeSignatures{MockSignaturesStore: mocks.NewMockSignaturesStore(), n: n}, "http://localhost:3000")
	require.NoError(t, err)
	return l
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		name     string
		offset   string
		limit    string
		expected Window
	}{
		{name: "defaults", expected: Window{Offset: 0, Limit: 50}},
		{name: "explicit", offset: "100", limit: "20", expected: Window{Offset: 100, Limit: 20}},
		{name: "negative offset", offset: "-5", limit: "10", expected: Window{Offset: 0, Limit: 10}},
		{name: "zero limit", offset: "3", limit: "0", expected: Window{Offset: 3, Limit: 50}},
		{name: "negative limit", limit: "-1", expected: Window{Offset: 0, Limit: 50}},
		{name: "limit above max", limit: "10000", expected: Window{Offset: 0, Limit: 500}},
		{name: "malformed", offset: "abc", limit: "1e3", expected: Window{Offset: 0, Limit: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ParseWindow(tt.offset, tt.limit, DefaultLimit, MaxLimit)
			assert.Equal(t, tt.expected, w)
			assert.True(t, w.Valid())
		})
	}
}

func TestList_FirstPage(t *testing.T) {
	l := newTestLister(t, 120)

	page, err := l.List(context.Background(), Window{Offset: 0, Limit: 50})
	require.NoError(t, err)

	assert.Len(t, page.Items, 50)
	assert.Equal(t, int64(120), page.Total)
	assert.Equal(t, "http://localhost:3000/admin/?offset=0&limit=50", page.Links.Self.Href)
	assert.Nil(t, page.Links.Prev)
	require.NotNil(t, page.Links.Next)
	assert.Equal(t, "http://localhost:3000/admin/?offset=50&limit=50", page.Links.Next.Href)
}

func TestList_LastPage(t *testing.T) {
	l := newTestLister(t, 120)

	page, err := l.List(context.Background(), Window{Offset: 100, Limit: 50})
	require.NoError(t, err)

	assert.Len(t, page.Items, 20)
	assert.Equal(t, uint(101), page.Items[0].ID)
	assert.Equal(t, "http://localhost:3000/admin/?offset=100&limit=50", page.Links.Self.Href)
	require.NotNil(t, page.Links.Prev)
	assert.Equal(t, "http://localhost:3000/admin/?offset=50&limit=50", page.Links.Prev.Href)
	assert.Nil(t, page.Links.Next)
}

func TestList_Links(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		window   Window
		wantPrev string
		wantNext string
	}{
		{
			name:     "prev clamps at zero",
			total:    120,
			window:   Window{Offset: 10, Limit: 50},
			wantPrev: "http://localhost:3000/admin/?offset=0&limit=50",
			wantNext: "http://localhost:3000/admin/?offset=60&limit=50",
		},
		{
			name:     "exactly full last page",
			total:    100,
			window:   Window{Offset: 50, Limit: 50},
			wantPrev: "http://localhost:3000/admin/?offset=0&limit=50",
		},
		{
			name:   "empty repository",
			total:  0,
			window: Window{Offset: 0, Limit: 50},
		},
		{
			name:     "offset past the end",
			total:    10,
			window:   Window{Offset: 40, Limit: 20},
			wantPrev: "http://localhost:3000/admin/?offset=20&limit=20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := newTestLister(t, tt.total).List(context.Background(), tt.window)
			require.NoError(t, err)

			if tt.wantPrev == "" {
				assert.Nil(t, page.Links.Prev)
			} else {
				require.NotNil(t, page.Links.Prev)
				assert.Equal(t, tt.wantPrev, page.Links.Prev.Href)
			}
			if tt.wantNext == "" {
				assert.Nil(t, page.Links.Next)
			} else {
				require.NotNil(t, page.Links.Next)
				assert.Equal(t, tt.wantNext, page.Links.Next.Href)
			}
			assert.NotNil(t, page.Items)
		})
	}
}

func TestList_RejectsInvalidWindow(t *testing.T) {
	signatures := mocks.NewMockSignaturesStore()
	l, err := NewLister(signatures, "http://localhost:3000")
	require.NoError(t, err)

	for _, w := range []Window{{Offset: -1, Limit: 10}, {Offset: 0, Limit: 0}} {
		_, err := l.List(context.Background(), w)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	}
	signatures.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	signatures.AssertNotCalled(t, "Count", mock.Anything)
}

func TestList_RepositoryError(t *testing.T) {
	signatures := mocks.NewMockSignaturesStore()
	signatures.On("Count", mock.Anything).Return(int64(0), errors.New("connection refused"))
	signatures.On("List", mock.Anything, 0, 50).Return(nil, nil).Maybe()

	l, err := NewLister(signatures, "http://localhost:3000/")
	require.NoError(t, err)

	_, err = l.List(context.Background(), Window{Offset: 0, Limit: 50})
	assert.ErrorContains(t, err, "count signatures")
}
