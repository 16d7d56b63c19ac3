package web

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/mitienda/internal/common"
	"github.com/dmitrijs2005/mitienda/internal/dbx"
	"github.com/dmitrijs2005/mitienda/internal/logging"
	"github.com/dmitrijs2005/mitienda/internal/server/models"
	"github.com/dmitrijs2005/mitienda/internal/server/repositories/products"
	"github.com/dmitrijs2005/mitienda/internal/server/repositories/ratings"
	"github.com/dmitrijs2005/mitienda/internal/server/repositories/users"
	"github.com/dmitrijs2005/mitienda/internal/server/services"
	"github.com/dmitrijs2005/mitienda/internal/server/session"
	"github.com/stretchr/testify/require"
)

// memStore holds all state of the in-memory repositories backing handler
// tests. One instance is shared by all repos of a test server.
type memStore struct {
	mu       sync.Mutex
	users    map[int64]models.User
	products map[int64]models.Product
	ratings  map[[2]int64]struct{}
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]models.User),
		products: make(map[int64]models.Product),
		ratings:  make(map[[2]int64]struct{}),
		nextID:   1,
	}
}

type memManager struct{ store *memStore }

func (m *memManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *memManager) Users(db dbx.DBTX) users.Repository                  { return &memUsers{m.store} }
func (m *memManager) Products(db dbx.DBTX) products.Repository            { return &memProducts{m.store} }
func (m *memManager) Ratings(db dbx.DBTX) ratings.Repository              { return &memRatings{m.store} }

type memUsers struct{ s *memStore }

func (r *memUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	created := *user
	created.ID = r.s.nextID
	created.CreatedAt = time.Now()
	r.s.nextID++
	r.s.users[created.ID] = created
	return &created, nil
}

func (r *memUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *memUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type memProducts struct{ s *memStore }

func (r *memProducts) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	created := *product
	created.ID = r.s.nextID
	r.s.nextID++
	r.s.products[created.ID] = created
	return &created, nil
}

func (r *memProducts) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (r *memProducts) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (r *memProducts) ListByPopularity(ctx context.Context) ([]models.ProductWithRating, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.ProductWithRating{}
	for _, p := range r.s.products {
		count := int64(0)
		for key := range r.s.ratings {
			if key[1] == p.ID {
				count++
			}
		}
		out = append(out, models.ProductWithRating{Product: p, RatingCount: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RatingCount != out[j].RatingCount {
			return out[i].RatingCount > out[j].RatingCount
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memProducts) ListByOwner(ctx context.Context, ownerID int64) ([]models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Product{}
	for _, p := range r.s.products {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memProducts) Update(ctx context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; !ok {
		return common.ErrorNotFound
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *memProducts) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.products, id)
	return nil
}

type memRatings struct{ s *memStore }

func (r *memRatings) Create(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]int64{rating.UserID, rating.ProductID}
	if _, ok := r.s.ratings[key]; ok {
		return nil, common.ErrorAlreadyExists
	}
	r.s.ratings[key] = struct{}{}
	created := *rating
	created.ID = r.s.nextID
	r.s.nextID++
	return &created, nil
}

func (r *memRatings) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.ratings[[2]int64{userID, productID}]
	return ok, nil
}

func (r *memRatings) CountForProduct(ctx context.Context, productID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := int64(0)
	for key := range r.s.ratings {
		if key[1] == productID {
			count++
		}
	}
	return count, nil
}

func (r *memRatings) DeleteForProduct(ctx context.Context, productID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for key := range r.s.ratings {
		if key[1] == productID {
			delete(r.s.ratings, key)
		}
	}
	return nil
}

// memImages is an image store that keeps everything in memory.
type memImages struct {
	mu    sync.Mutex
	refs  map[string][]byte
	calls []string
}

func newMemImages() *memImages {
	return &memImages{refs: make(map[string][]byte)}
}

func (s *memImages) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	ref := filename
	s.refs[ref] = data
	s.calls = append(s.calls, "save:"+ref)
	return ref, nil
}

func (s *memImages) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refs, ref)
	s.calls = append(s.calls, "delete:"+ref)
	return nil
}

func (s *memImages) URL(ref string) string {
	return "/static/images/" + ref
}

type testEnv struct {
	server   *Server
	store    *memStore
	images   *memImages
	sessions *session.Registry
	db       *sql.DB
}

func newTestEnv(t *testing.T, db *sql.DB) *testEnv {
	t.Helper()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	store := newMemStore()
	manager := &memManager{store: store}
	images := newMemImages()
	sessions := session.NewRegistry()

	us := services.NewUserService(db, manager)
	ps := services.NewProductService(db, manager, images, logger)
	rs := services.NewRatingService(db, manager)

	srv, err := NewServer(":0", logger, us, ps, rs, sessions, images, time.Second)
	require.NoError(t, err)

	return &testEnv{server: srv, store: store, images: images, sessions: sessions, db: db}
}

// register creates a user through the HTTP surface and returns the session
// cookie the response carried.
func (e *testEnv) register(t *testing.T, username, email, password string) *http.Cookie {
	t.Helper()

	form := url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
		"whatsapp": {"+34600000000"},
	}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	cookie := sessionCookie(rec.Result())
	require.NotNil(t, cookie)
	return cookie
}

// addProduct creates a product for the session's user and returns its id.
func (e *testEnv) addProduct(t *testing.T, cookie *http.Cookie, name string) int64 {
	t.Helper()

	body, contentType := productForm(t, name, "a description", "9.99", "3", "photo.png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/add_product", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)

	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	for _, p := range e.store.products {
		if p.Name == name {
			return p.ID
		}
	}
	t.Fatalf("product %q was not created", name)
	return 0
}

func productForm(t *testing.T, name, description, price, stock, imageName string, image []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("name", name))
	require.NoError(t, w.WriteField("description", description))
	require.NoError(t, w.WriteField("price", price))
	require.NoError(t, w.WriteField("stock", stock))
	if imageName != "" {
		part, err := w.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == common.SessionCookieName {
			return c
		}
	}
	return nil
}
