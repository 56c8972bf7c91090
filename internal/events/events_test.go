package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingInvalidator struct {
	handles []string
	err     error
}

func (r *recordingInvalidator) Invalidate(_ context.Context, handle string) error {
	r.handles = append(r.handles, handle)
	return r.err
}

type recordingStore struct {
	docs []*domain.ContentDocument
	err  error
}

func (r *recordingStore) SaveProductContent(_ context.Context, doc *domain.ContentDocument) error {
	r.docs = append(r.docs, doc)
	return r.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInvalidateProducts(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		invErr  error
		handles []string
		code    string
	}{
		{name: "evicts named product", payload: `{"handle":"mug"}`, handles: []string{"mug"}},
		{name: "trims handle", payload: `{"handle":"  mug "}`, handles: []string{"mug"}},
		{name: "malformed payload", payload: `mug`, code: domain.EINVALID},
		{name: "missing handle", payload: `{"id":"gid://shop/Product/1"}`, code: domain.EINVALID},
		{name: "cache failure", payload: `{"handle":"mug"}`, invErr: errors.New("connection refused"), handles: []string{"mug"}, code: domain.EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &recordingInvalidator{err: tt.invErr}
			h := InvalidateProducts(inv, discardLogger())

			err := h(context.Background(), []byte(tt.payload))

			if tt.code == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.code, domain.ErrorCode(err))
			}
			assert.Equal(t, tt.handles, inv.handles)
		})
	}
}

func TestSyncContent(t *testing.T) {
	t.Run("saves decoded document", func(t *testing.T) {
		store := &recordingStore{}
		h := SyncContent(store, discardLogger())

		err := h(context.Background(), []byte(`{
			"_id": "shopifyProduct-7",
			"slug": "linen-print",
			"available": true,
			"variants": [{"id": "v1", "dimensions": {"width": 297.5, "height": 420}}]
		}`))

		require.NoError(t, err)
		require.Len(t, store.docs, 1)
		doc := store.docs[0]
		assert.Equal(t, "shopifyProduct-7", doc.ID)
		require.Len(t, doc.Variants, 1)
		assert.Equal(t, "297.5mm x 420mm", doc.Variants[0].Dimensions.Label())
	})

	t.Run("malformed payload", func(t *testing.T) {
		store := &recordingStore{}

		err := SyncContent(store, discardLogger())(context.Background(), []byte(`[`))

		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		assert.Empty(t, store.docs)
	})

	t.Run("store failure keeps code", func(t *testing.T) {
		store := &recordingStore{err: domain.Invalid("content.save", "content document requires an id and slug")}

		err := SyncContent(store, discardLogger())(context.Background(), []byte(`{"slug":"mug"}`))

		require.Error(t, err)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})
}

func TestSubscriber_WithoutConnection(t *testing.T) {
	s := &Subscriber{logger: discardLogger()}

	assert.Error(t, s.Check(context.Background()))
	assert.Error(t, s.Listen(DefaultSubject, InvalidateProducts(&recordingInvalidator{}, discardLogger())))
	assert.NoError(t, s.Close())
}
