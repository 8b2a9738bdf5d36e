package payslip_test

import (
	"context"
	"io"
	"testing"

	"go-payroll/internal/payslip"

	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) payslip.Store {
	t.Helper()
	store, err := payslip.NewFSStore(t.TempDir())
	assert.NoError(t, err)
	return store
}

func TestFSStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	key := "payslips/company-a/2026-03/emp-1.pdf"
	assert.NoError(t, store.Put(ctx, key, []byte("%PDF-1.4 content")))

	rc, err := store.Open(ctx, key)
	assert.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	assert.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 content", string(data))
}

func TestFSStore_OpenMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Open(context.Background(), "payslips/nothing/here.pdf")
	assert.ErrorIs(t, err, payslip.ErrArtifactNotFound)
}

func TestFSStore_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	key := "payslips/company-a/2026-03/emp-1.pdf"
	assert.NoError(t, store.Put(ctx, key, []byte("x")))
	assert.NoError(t, store.Delete(ctx, key))

	_, err := store.Open(ctx, key)
	assert.ErrorIs(t, err, payslip.ErrArtifactNotFound)

	// deleting an already-deleted key is not an error
	assert.NoError(t, store.Delete(ctx, key))
}

func TestFSStore_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, key := range []string{"../outside.pdf", "/etc/passwd", "a/../../b.pdf", "."} {
		assert.Error(t, store.Put(ctx, key, []byte("x")), "key %q", key)
		_, err := store.Open(ctx, key)
		assert.Error(t, err, "key %q", key)
	}
}
