package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"elegardens/internal/handlers"
	"elegardens/internal/middleware"
	"elegardens/internal/models"
	"elegardens/internal/repositories"
	"elegardens/internal/services"
	"elegardens/pkg/mediastore"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test_jwt_secret"

// setupApp builds the full Fiber app against in-memory SQLite and a
// mock media store, wired exactly like main.
func setupApp(t *testing.T) (*fiber.App, *mediastore.MockStore) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Employee{}, &models.Product{}, &models.PendingUpload{}))

	userRepo := repositories.NewGORMUserRepository(db)
	employeeRepo := repositories.NewGORMEmployeeRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	pendingRepo := repositories.NewGORMPendingUploadRepository(db)

	store := mediastore.NewMockStore()

	authService := services.NewAuthService(userRepo, testJWTSecret)
	imageService := services.NewImageService(store, pendingRepo)
	productService := services.NewProductService(productRepo, imageService)
	employeeService := services.NewEmployeeService(employeeRepo, imageService)

	authHandler := handlers.NewAuthHandler(authService)
	imageHandler := handlers.NewImageHandler(imageService)
	productHandler := handlers.NewProductHandler(productService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	contactHandler := handlers.NewContactHandler(nil)

	app := fiber.New(fiber.Config{BodyLimit: 64 * 1024 * 1024})

	adminOnly := middleware.AdminRequired(authService)

	api := app.Group("/api")
	contactHandler.RegisterRoutes(api)

	admin := api.Group("/admin")
	authHandler.RegisterRoutes(admin)
	imageHandler.RegisterRoutes(admin, adminOnly)
	productHandler.RegisterRoutes(admin, adminOnly)
	employeeHandler.RegisterRoutes(admin, adminOnly)

	return app, store
}

type envelope struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Data    map[string]json.RawMessage `json:"data"`
	Errors  []handlers.FieldError      `json:"errors"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	resp.Body.Close()
	return resp, env
}

// doMultipart sends image files under the given form field.
func doMultipart(t *testing.T, app *fiber.App, method, path, token, field string, filenames ...string) (*http.Response, envelope) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, name := range filenames {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, name))
		h.Set("Content-Type", "image/jpeg")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	resp.Body.Close()
	return resp, env
}

// registerAndLogin registers a fresh admin account and returns a token.
// Usernames are randomized because the shared-cache SQLite database
// survives across tests in the same process.
func registerAndLogin(t *testing.T, app *fiber.App) string {
	t.Helper()

	username := "admin-" + uuid.New().String()[:8]
	resp, _ := doJSON(t, app, http.MethodPost, "/api/admin/auth/register", "", fiber.Map{
		"first_name": "Test",
		"last_name":  "Admin",
		"username":   username,
		"email":      username + "@example.com",
		"password":   "password123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, env := doJSON(t, app, http.MethodPost, "/api/admin/auth/login", "", fiber.Map{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var token string
	require.NoError(t, json.Unmarshal(env.Data["token"], &token))
	require.NotEmpty(t, token)
	return token
}

// uploadProductImages stages a batch and returns the references.
func uploadProductImages(t *testing.T, app *fiber.App, token string, filenames ...string) []models.ImageRef {
	t.Helper()

	resp, env := doMultipart(t, app, http.MethodPost, "/api/admin/products/images", token, "images", filenames...)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	var refs []models.ImageRef
	require.NoError(t, json.Unmarshal(env.Data["images"], &refs))
	require.Len(t, refs, len(filenames))
	return refs
}

func productPayload(images []models.ImageRef) fiber.Map {
	return fiber.Map{
		"common_name": fiber.Map{"en": "Lavender", "de": "Lavendel"},
		"description": fiber.Map{"en": "Fragrant evergreen shrub", "de": "Duftender immergruener Strauch"},
		"height":      "30-60",
		"diameter":    "40-50",
		"hardiness":   "-15",
		"light":       fiber.Map{"en": "sun"},
		"color":       "#9683EC",
		"images":      images,
	}
}

func TestAuthEndpoints(t *testing.T) {
	app, _ := setupApp(t)

	username := "auth-" + uuid.New().String()[:8]
	register := fiber.Map{
		"first_name": "Test",
		"last_name":  "Admin",
		"username":   username,
		"email":      username + "@example.com",
		"password":   "password123",
	}

	resp, env := doJSON(t, app, http.MethodPost, "/api/admin/auth/register", "", register)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)

	// The registered account is forced to ADMIN and never leaks the
	// password hash
	var user models.User
	require.NoError(t, json.Unmarshal(env.Data["user"], &user))
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NotContains(t, string(env.Data["user"]), "password")

	// Duplicate registration
	resp, env = doJSON(t, app, http.MethodPost, "/api/admin/auth/register", "", register)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Username or email already exists", env.Message)

	// Wrong password
	resp, env = doJSON(t, app, http.MethodPost, "/api/admin/auth/login", "", fiber.Map{
		"username": username,
		"password": "wrongpassword",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid credentials", env.Message)

	// Validation failure carries a field-level error list
	resp, env = doJSON(t, app, http.MethodPost, "/api/admin/auth/login", "", fiber.Map{
		"username": username,
		"password": "short",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", env.Message)
	require.NotEmpty(t, env.Errors)
	assert.Equal(t, "password", env.Errors[0].Field)
}

func TestAdminGuard(t *testing.T) {
	app, _ := setupApp(t)

	// No token
	resp, env := doJSON(t, app, http.MethodPost, "/api/admin/products", "", productPayload(nil))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authentication required", env.Message)

	// Garbage token
	resp, env = doJSON(t, app, http.MethodPost, "/api/admin/products", "not.a.token", productPayload(nil))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid admin token", env.Message)

	// Reads stay public
	resp, _ = doJSON(t, app, http.MethodGet, "/api/admin/products", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProductLifecycle(t *testing.T) {
	app, store := setupApp(t)
	token := registerAndLogin(t, app)

	// Phase one: upload, which stages the assets
	refs := uploadProductImages(t, app, token, "lavender-1.jpg", "lavender-2.jpg")
	assert.Equal(t, "lavender-1", refs[0].AltText)
	for _, ref := range refs {
		assert.True(t, store.Has(ref.PublicID))
	}

	// Phase two: create the product carrying the references
	resp, env := doJSON(t, app, http.MethodPost, "/api/admin/products", token, productPayload(refs))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)

	var product models.Product
	require.NoError(t, json.Unmarshal(env.Data["product"], &product))
	require.NotEmpty(t, product.ID)
	assert.Len(t, product.Images, 2)
	assert.Equal(t, "sonne", product.Light.DE)

	// Public read
	resp, env = doJSON(t, app, http.MethodGet, "/api/admin/products/"+product.ID, "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Listing carries pagination metadata
	resp, env = doJSON(t, app, http.MethodGet, "/api/admin/products?page=1&limit=5", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var pagination services.Pagination
	require.NoError(t, json.Unmarshal(env.Data["pagination"], &pagination))
	assert.Equal(t, 1, pagination.CurrentPage)
	assert.Equal(t, 5, pagination.ProductsPerPage)
	assert.GreaterOrEqual(t, pagination.TotalProducts, int64(1))

	// Partial update leaves untouched fields alone
	resp, env = doJSON(t, app, http.MethodPut, "/api/admin/products/"+product.ID, token, fiber.Map{
		"height": "50-80",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	require.NoError(t, json.Unmarshal(env.Data["product"], &product))
	assert.Equal(t, "50-80", product.Height)
	assert.Equal(t, "Lavender", product.CommonName.EN)

	// Delete cleans up the media objects
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/admin/products/"+product.ID, token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	for _, ref := range refs {
		assert.False(t, store.Has(ref.PublicID))
	}

	resp, env = doJSON(t, app, http.MethodGet, "/api/admin/products/"+product.ID, "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestProductImageEndpoints(t *testing.T) {
	app, store := setupApp(t)
	token := registerAndLogin(t, app)

	refs := uploadProductImages(t, app, token, "a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg")
	resp, env := doJSON(t, app, http.MethodPost, "/api/admin/products", token, productPayload(refs))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)

	var product models.Product
	require.NoError(t, json.Unmarshal(env.Data["product"], &product))

	// Pushing past the cap is rejected before any upload happens
	before := store.Count()
	resp, env = doMultipart(t, app, http.MethodPost, "/api/admin/products/"+product.ID+"/images", token, "images", "f.jpg", "g.jpg")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Cannot upload 2 images. Product already has 5 images. Maximum 6 total allowed.", env.Message)
	assert.Equal(t, before, store.Count())

	// Adding one more stays within the cap
	resp, env = doMultipart(t, app, http.MethodPost, "/api/admin/products/"+product.ID+"/images", token, "images", "f.jpg")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	var totalImages int
	require.NoError(t, json.Unmarshal(env.Data["totalImages"], &totalImages))
	assert.Equal(t, 6, totalImages)

	// Upload batches over the cap are rejected outright
	resp, env = doMultipart(t, app, http.MethodPost, "/api/admin/products/images", token, "images",
		"1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg", "6.jpg", "7.jpg")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Maximum 6 images are allowed", env.Message)

	// Positional delete
	resp, env = doJSON(t, app, http.MethodDelete, "/api/admin/products/"+product.ID+"/images/0", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	var deleted models.ImageRef
	require.NoError(t, json.Unmarshal(env.Data["deletedImage"], &deleted))
	assert.Equal(t, refs[0].PublicID, deleted.PublicID)
	assert.False(t, store.Has(refs[0].PublicID))

	// Out-of-bounds index
	resp, env = doJSON(t, app, http.MethodDelete, "/api/admin/products/"+product.ID+"/images/9", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid image index. Product has 5 images (indices 0-4)", env.Message)

	// Keyed delete survives position shifts
	resp, env = doJSON(t, app, http.MethodDelete, "/api/admin/products/"+product.ID+"/images", token, fiber.Map{
		"public_id": refs[3].PublicID,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.False(t, store.Has(refs[3].PublicID))

	// Image listing reflects both deletions
	resp, env = doJSON(t, app, http.MethodGet, "/api/admin/products/"+product.ID+"/images", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data["totalImages"], &totalImages))
	assert.Equal(t, 4, totalImages)
}

func TestEmployeeLifecycle(t *testing.T) {
	app, store := setupApp(t)
	token := registerAndLogin(t, app)

	// Stage a profile picture before the employee exists
	resp, env := doMultipart(t, app, http.MethodPost, "/api/admin/employees/profile-picture", token, "profilePicture", "file.jpg")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	var picture models.ImageRef
	require.NoError(t, json.Unmarshal(env.Data["profilePicture"], &picture))
	assert.Equal(t, "file", picture.AltText)
	assert.True(t, store.Has(picture.PublicID))

	// Create the employee carrying the staged reference
	resp, env = doJSON(t, app, http.MethodPost, "/api/admin/employees", token, fiber.Map{
		"first_name":     "Maria",
		"last_name":      "Keller",
		"email":          "maria.keller@example.com",
		"telephone":      "+49 170 1234567",
		"role":           fiber.Map{"en": "Head Gardener", "de": "Chefgaertnerin"},
		"department":     fiber.Map{"en": "Nursery", "de": "Baumschule"},
		"profilePicture": picture,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)

	var employee models.Employee
	require.NoError(t, json.Unmarshal(env.Data["employee"], &employee))
	require.NotEmpty(t, employee.ID)
	require.NotNil(t, employee.ProfilePicture)
	assert.Equal(t, picture.PublicID, employee.ProfilePicture.PublicID)

	// Public read
	resp, _ = doJSON(t, app, http.MethodGet, "/api/admin/employees/"+employee.ID, "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Replace uploads the new picture but does not mutate the record
	resp, env = doMultipart(t, app, http.MethodPost, "/api/admin/employees/"+employee.ID+"/profile-picture", token, "profilePicture", "new.jpg")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	var newPicture, oldPicture models.ImageRef
	require.NoError(t, json.Unmarshal(env.Data["profilePicture"], &newPicture))
	require.NoError(t, json.Unmarshal(env.Data["oldProfilePicture"], &oldPicture))
	assert.Equal(t, picture.PublicID, oldPicture.PublicID)

	// Attaching the replacement disposes of the old object
	resp, env = doJSON(t, app, http.MethodPut, "/api/admin/employees/"+employee.ID, token, fiber.Map{
		"profilePicture": newPicture,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.False(t, store.Has(picture.PublicID))
	assert.True(t, store.Has(newPicture.PublicID))

	// First delete clears the slot, the second finds it empty
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/admin/employees/"+employee.ID+"/profile-picture", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.False(t, store.Has(newPicture.PublicID))

	resp, env = doJSON(t, app, http.MethodDelete, "/api/admin/employees/"+employee.ID+"/profile-picture", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No profile picture found", env.Message)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/admin/employees/"+employee.ID, token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestStagedImageDeletion(t *testing.T) {
	app, store := setupApp(t)
	token := registerAndLogin(t, app)

	// Abandoned form: the client deletes the staged asset by public id
	refs := uploadProductImages(t, app, token, "abandoned.jpg")

	resp, env := doJSON(t, app, http.MethodDelete, "/api/admin/products/images", token, fiber.Map{
		"public_id": refs[0].PublicID,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.False(t, store.Has(refs[0].PublicID))

	// Missing public_id
	resp, env = doJSON(t, app, http.MethodDelete, "/api/admin/products/images", token, fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "The public_id is required", env.Message)
}

func TestContactEndpoints(t *testing.T) {
	app, _ := setupApp(t)

	// Publishing is best-effort; without a broker the submission still
	// succeeds
	resp, env := doJSON(t, app, http.MethodPost, "/api/contact", "", fiber.Map{
		"firstname": "Hans",
		"lastname":  "Gruber",
		"email":     "hans@example.com",
		"message":   "Do you deliver to Berlin?",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Thank you for your message! We will get back to you soon.", env.Message)

	resp, env = doJSON(t, app, http.MethodPost, "/api/contact", "", fiber.Map{
		"firstname": "Hans",
		"email":     "not-an-email",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/newsletter", "", fiber.Map{
		"email":   "hans@example.com",
		"consent": true,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
