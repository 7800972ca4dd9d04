package services_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"elegardens/internal/models"
	"elegardens/internal/repositories"
	"elegardens/internal/services"
	"elegardens/pkg/mediastore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploadFile struct {
	name        string
	contentType string
	content     []byte
}

// fileHeaders builds real multipart file headers by round-tripping a
// form through the stdlib parser, so header metadata (size, content
// type) matches what Fiber hands the services.
func fileHeaders(t *testing.T, files ...uploadFile) []*multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="%s"`, f.name))
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["images"]
}

// imageFiles builds valid JPEG file headers for the given filenames.
func imageFiles(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()

	files := make([]uploadFile, 0, len(names))
	for _, name := range names {
		files = append(files, uploadFile{name: name, contentType: "image/jpeg", content: []byte("jpeg bytes")})
	}
	return fileHeaders(t, files...)
}

func newImageService() (*services.ImageService, *mediastore.MockStore, *repositories.MockPendingUploadRepository) {
	store := mediastore.NewMockStore()
	pending := repositories.NewMockPendingUploadRepository()
	return services.NewImageService(store, pending), store, pending
}

func TestImageService_UploadBatch(t *testing.T) {
	imageService, store, pending := newImageService()

	refs, err := imageService.UploadBatch(context.Background(), imageFiles(t, "lavender.jpg", "rose bush.png"), mediastore.FolderProducts)
	require.NoError(t, err)
	require.Len(t, refs, 2)

	// Every uploaded file is stored and staged in the pending ledger
	assert.Equal(t, 2, store.Count())
	assert.Equal(t, 2, pending.Count())

	// Alt text is the filename minus its extension
	assert.Equal(t, "lavender", refs[0].AltText)
	assert.Equal(t, "rose bush", refs[1].AltText)

	for _, ref := range refs {
		assert.True(t, store.Has(ref.PublicID))
		assert.Contains(t, ref.PublicID, mediastore.FolderProducts+"/")
		assert.NotEmpty(t, ref.URL)
	}
}

func TestImageService_UploadBatch_RejectsBeforeUploading(t *testing.T) {
	imageService, store, pending := newImageService()

	// One bad file in the middle rejects the whole batch; the valid
	// file before it must not have been uploaded either
	files := fileHeaders(t,
		uploadFile{name: "ok.jpg", contentType: "image/jpeg", content: []byte("jpeg bytes")},
		uploadFile{name: "notes.txt", contentType: "text/plain", content: []byte("not an image")},
	)
	_, err := imageService.UploadBatch(context.Background(), files, mediastore.FolderProducts)

	var validationErr *services.FileValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "Invalid file type: text/plain")
	assert.Equal(t, 0, store.Count())
	assert.Equal(t, 0, pending.Count())
}

func TestImageService_UploadBatch_RejectsOversizedFile(t *testing.T) {
	imageService, store, _ := newImageService()

	files := fileHeaders(t, uploadFile{
		name:        "huge.jpg",
		contentType: "image/jpeg",
		content:     bytes.Repeat([]byte("a"), services.MaxImageBytes+1),
	})
	_, err := imageService.UploadBatch(context.Background(), files, mediastore.FolderProducts)

	var validationErr *services.FileValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "huge.jpg is too large")
	assert.Equal(t, 0, store.Count())
}

func TestImageService_UploadBatch_EmptyBatch(t *testing.T) {
	imageService, _, _ := newImageService()

	_, err := imageService.UploadBatch(context.Background(), nil, mediastore.FolderProducts)
	var validationErr *services.FileValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestImageService_MarkAttached(t *testing.T) {
	imageService, store, pending := newImageService()

	refs, err := imageService.UploadBatch(context.Background(), imageFiles(t, "a.jpg", "b.jpg"), mediastore.FolderProducts)
	require.NoError(t, err)
	require.Equal(t, 2, pending.Count())

	// Attaching clears the ledger row but leaves the object stored
	imageService.MarkAttached(refs[0].PublicID)
	assert.Equal(t, 1, pending.Count())
	assert.True(t, store.Has(refs[0].PublicID))

	imageService.MarkAttached(refs[1].PublicID)
	assert.Equal(t, 0, pending.Count())
}

func TestImageService_DeleteByPublicID(t *testing.T) {
	imageService, store, pending := newImageService()

	refs, err := imageService.UploadBatch(context.Background(), imageFiles(t, "a.jpg"), mediastore.FolderProducts)
	require.NoError(t, err)

	require.NoError(t, imageService.DeleteByPublicID(context.Background(), refs[0].PublicID))
	assert.False(t, store.Has(refs[0].PublicID))
	assert.Equal(t, 0, pending.Count())

	// Deleting an unknown asset surfaces the store error
	err = imageService.DeleteByPublicID(context.Background(), "products/nope.jpg")
	assert.Error(t, err)
}

func TestImageService_CleanupAsset_FailureLeaksObject(t *testing.T) {
	imageService, store, pending := newImageService()

	refs, err := imageService.UploadBatch(context.Background(), imageFiles(t, "a.jpg"), mediastore.FolderProducts)
	require.NoError(t, err)

	// A failing store delete must not panic or clear the ledger; the
	// object leaks and stays visible to the sweeper
	store.FailDeletes = true
	imageService.CleanupAsset(context.Background(), refs[0].PublicID)
	assert.True(t, store.Has(refs[0].PublicID))
	assert.Equal(t, 1, pending.Count())

	store.FailDeletes = false
	imageService.CleanupAsset(context.Background(), refs[0].PublicID)
	assert.False(t, store.Has(refs[0].PublicID))
	assert.Equal(t, 0, pending.Count())
}

func TestImageService_SweepPending(t *testing.T) {
	imageService, store, pending := newImageService()

	refs, err := imageService.UploadBatch(context.Background(), imageFiles(t, "stale.jpg", "fresh.jpg"), mediastore.FolderProducts)
	require.NoError(t, err)

	// Age the first ledger row past the TTL
	require.NoError(t, pending.Create(&models.PendingUpload{
		PublicID:  refs[0].PublicID,
		URL:       refs[0].URL,
		Folder:    mediastore.FolderProducts,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}))

	reclaimed, err := imageService.SweepPending(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, reclaimed)

	// Only the stale asset was reclaimed
	assert.False(t, store.Has(refs[0].PublicID))
	assert.True(t, store.Has(refs[1].PublicID))
	assert.Equal(t, 1, pending.Count())
}
