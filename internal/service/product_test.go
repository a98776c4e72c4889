package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/testutil"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type flakyProductStore struct {
	*repo.ProductRepo
	upsertDrop   int
	replaceFails int
	updateZero   bool
}

func (s *flakyProductStore) Atomic(_ context.Context, fn func(repo.ProductStore) error) error {
	return fn(s)
}

func (s *flakyProductStore) UpsertProductTags(ctx context.Context, links []models.ProductTag) (int64, error) {
	return s.ProductRepo.UpsertProductTags(ctx, links[:len(links)-s.upsertDrop])
}

// ReplaceProductTags fails its first replaceFails calls after clearing the
// product's tags, leaving the set half written.
func (s *flakyProductStore) ReplaceProductTags(ctx context.Context, id uuid.UUID, links []models.ProductTag) (int64, error) {
	if s.replaceFails > 0 {
		s.replaceFails--
		return s.ProductRepo.ReplaceProductTags(ctx, id, links[:1])
	}
	return s.ProductRepo.ReplaceProductTags(ctx, id, links)
}

func (s *flakyProductStore) UpdateProduct(ctx context.Context, p *models.Product) (int64, error) {
	if s.updateZero {
		return 0, nil
	}
	return s.ProductRepo.UpdateProduct(ctx, p)
}

type fakeCache struct {
	items       map[string]*transport.ProductDetail
	invalidated []string
}

func newFakeCache() *fakeCache { return &fakeCache{items: map[string]*transport.ProductDetail{}} }

func (c *fakeCache) Get(_ context.Context, id string) (*transport.ProductDetail, bool, error) {
	d, ok := c.items[id]
	return d, ok, nil
}

func (c *fakeCache) Set(_ context.Context, d *transport.ProductDetail) error {
	c.items[d.ID] = d
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, id string) error {
	delete(c.items, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

type fakeIndex struct {
	docs      map[string]search.Document
	searchErr error
}

func (f *fakeIndex) IndexProduct(_ context.Context, d search.Document) error {
	f.docs[d.ID] = d
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id string) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []search.Document, error) {
	if f.searchErr != nil {
		return 0, nil, f.searchErr
	}
	out := make([]search.Document, 0, len(f.docs))
	for _, d := range f.docs {
		out = append(out, d)
	}
	return int64(len(out)), out, nil
}

type catalogFixture struct {
	db   *gorm.DB
	cat  *models.Category
	tags []*models.Tag
}

func newCatalogFixture(t *testing.T, nTags int) catalogFixture {
	t.Helper()

	db := testutil.NewDB(t)
	f := catalogFixture{db: db, cat: testutil.SeedCategory(t, db, "沙發")}
	for i := 0; i < nTags; i++ {
		f.tags = append(f.tags, testutil.SeedTag(t, db, "tag"+string(rune('a'+i))))
	}
	return f
}

func (f catalogFixture) tagIDs(n int) []string {
	out := make([]string, 0, n)
	for _, tag := range f.tags[:n] {
		out = append(out, tag.ID.String())
	}
	return out
}

func storedTagIDs(t *testing.T, db *gorm.DB, productID uuid.UUID) []string {
	t.Helper()

	var ids []uuid.UUID
	require.NoError(t, db.Model(&models.ProductTag{}).Where("product_id = ?", productID).Pluck("tag_id", &ids).Error)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	sort.Strings(out)
	return out
}

func sorted(in []string) []string {
	out := append([]string{}, in...)
	sort.Strings(out)
	return out
}

func TestCreateProduct_LinksEveryTag(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t, 3)
	pub := &fakePublisher{}
	idx := &fakeIndex{docs: map[string]search.Document{}}
	svc := &ProductService{Store: &repo.ProductRepo{DB: f.db}, Index: idx, Events: pub}

	p, err := svc.CreateProduct(ctx, productRequest(f.cat.ID.String(), f.tagIDs(3)...))
	require.NoError(t, err)

	assert.Equal(t, sorted(f.tagIDs(3)), storedTagIDs(t, f.db, p.ID))
	assert.Contains(t, idx.docs, p.ID.String())
	assert.Equal(t, "沙發", idx.docs[p.ID.String()].Category)
	assert.Equal(t, []string{"product_created"}, pub.types())
}

func TestCreateProduct_InvalidRequestWritesNothing(t *testing.T) {
	f := newCatalogFixture(t, 1)
	svc := &ProductService{Store: &repo.ProductRepo{DB: f.db}}

	cases := map[string]func(r *transport.ProductRequest){
		"no tags":         func(r *transport.ProductRequest) { r.TagsID = nil },
		"bad tag id":      func(r *transport.ProductRequest) { r.TagsID = []string{"nope"} },
		"short name":      func(r *transport.ProductRequest) { r.Name = ptr("ab") },
		"http image":      func(r *transport.ProductRequest) { r.ImageURL = ptr("http://img.example.com/x.png") },
		"negative price":  func(r *transport.ProductRequest) { r.Price = ptr(-1.0) },
		"empty colors":    func(r *transport.ProductRequest) { r.Colors = []string{} },
		"long spec item":  func(r *transport.ProductRequest) { r.Spec = []string{"abcdefghijk"} },
		"missing enable":  func(r *transport.ProductRequest) { r.Enable = nil },
		"bad category id": func(r *transport.ProductRequest) { r.CategoryID = ptr("") },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := productRequest(f.cat.ID.String(), f.tagIDs(1)...)
			mutate(&req)

			_, err := svc.CreateProduct(context.Background(), req)
			require.ErrorIs(t, err, ErrValidation)
			assert.Zero(t, testutil.Count(t, f.db, &models.Product{}, ""))
			assert.Zero(t, testutil.Count(t, f.db, &models.ProductTag{}, ""))
		})
	}
}

func TestCreateProduct_ShortTagWriteCompensates(t *testing.T) {
	f := newCatalogFixture(t, 3)
	store := &flakyProductStore{ProductRepo: &repo.ProductRepo{DB: f.db}, upsertDrop: 1}
	svc := &ProductService{Store: store}

	_, err := svc.CreateProduct(context.Background(), productRequest(f.cat.ID.String(), f.tagIDs(3)...))
	require.ErrorIs(t, err, ErrPartialWrite)

	assert.Zero(t, testutil.Count(t, f.db.Unscoped(), &models.Product{}, ""))
	assert.Zero(t, testutil.Count(t, f.db, &models.ProductTag{}, ""))
}

func TestUpdateProduct_ReplacesTagSet(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t, 4)
	cache := newFakeCache()
	pub := &fakePublisher{}
	svc := &ProductService{Store: &repo.ProductRepo{DB: f.db}, Cache: cache, Events: pub}

	p, err := svc.CreateProduct(ctx, productRequest(f.cat.ID.String(), f.tagIDs(3)...))
	require.NoError(t, err)

	_, err = svc.Detail(ctx, p.ID, true)
	require.NoError(t, err)
	require.Contains(t, cache.items, p.ID.String())

	req := productRequest(f.cat.ID.String(), f.tags[3].ID.String())
	req.Name = ptr("新款沙發")
	req.Enable = ptr(false)
	require.NoError(t, svc.UpdateProduct(ctx, p.ID, req))

	assert.Equal(t, []string{f.tags[3].ID.String()}, storedTagIDs(t, f.db, p.ID))
	assert.NotContains(t, cache.items, p.ID.String())

	d, err := svc.Detail(ctx, p.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "新款沙發", d.Name)
	require.NotNil(t, d.Enable)
	assert.False(t, *d.Enable)
	assert.Equal(t, []string{"product_created", "product_updated"}, pub.types())
}

func TestUpdateProduct_FailedReplaceRestoresPreviousState(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t, 4)
	plain := &ProductService{Store: &repo.ProductRepo{DB: f.db}}

	p, err := plain.CreateProduct(ctx, productRequest(f.cat.ID.String(), f.tagIDs(2)...))
	require.NoError(t, err)

	store := &flakyProductStore{ProductRepo: &repo.ProductRepo{DB: f.db}, replaceFails: 1}
	svc := &ProductService{Store: store}

	req := productRequest(f.cat.ID.String(), f.tags[2].ID.String(), f.tags[3].ID.String())
	req.Name = ptr("不該留下的名字")
	err = svc.UpdateProduct(ctx, p.ID, req)
	require.ErrorIs(t, err, ErrPartialWrite)

	assert.Equal(t, sorted(f.tagIDs(2)), storedTagIDs(t, f.db, p.ID))

	var stored models.Product
	require.NoError(t, f.db.First(&stored, "id = ?", p.ID).Error)
	assert.Equal(t, "北歐沙發", stored.Name)
}

func TestUpdateProduct_MissingOrDeletedIsWriteFailed(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t, 1)
	svc := &ProductService{Store: &repo.ProductRepo{DB: f.db}}

	err := svc.UpdateProduct(ctx, uuid.New(), productRequest(f.cat.ID.String(), f.tagIDs(1)...))
	require.ErrorIs(t, err, ErrWriteFailed)

	p := testutil.SeedProduct(t, f.db, f.cat, "old sofa", f.tags[0])
	require.NoError(t, svc.DeleteProduct(ctx, p.ID))

	err = svc.UpdateProduct(ctx, p.ID, productRequest(f.cat.ID.String(), f.tagIDs(1)...))
	require.ErrorIs(t, err, ErrWriteFailed)

	err = svc.DeleteProduct(ctx, p.ID)
	require.ErrorIs(t, err, ErrWriteFailed)
}

func TestUpdateProduct_ZeroRowsIsWriteFailed(t *testing.T) {
	f := newCatalogFixture(t, 1)
	p := testutil.SeedProduct(t, f.db, f.cat, "sofa", f.tags[0])
	svc := &ProductService{Store: &flakyProductStore{ProductRepo: &repo.ProductRepo{DB: f.db}, updateZero: true}}

	err := svc.UpdateProduct(context.Background(), p.ID, productRequest(f.cat.ID.String(), f.tagIDs(1)...))
	require.ErrorIs(t, err, ErrWriteFailed)
	assert.Equal(t, []string{f.tags[0].ID.String()}, storedTagIDs(t, f.db, p.ID))
}

func TestDetail_AssemblesCategoryAndActiveTags(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t, 2)
	p := testutil.SeedProduct(t, f.db, f.cat, "sofa", f.tags[0], f.tags[1])
	require.NoError(t, f.db.Delete(f.tags[1]).Error)
	svc := &ProductService{Store: &repo.ProductRepo{DB: f.db}}

	d, err := svc.Detail(ctx, p.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "沙發", d.Category)
	assert.Equal(t, []string{"c1", "c2"}, d.Colors)
	assert.Equal(t, []string{"s1", "s2"}, d.Spec)
	assert.Nil(t, d.Enable)
	require.Len(t, d.Tags, 1)
	assert.Equal(t, transport.TagRef{ID: f.tags[0].ID.String(), Name: f.tags[0].Name}, d.Tags[0])

	d, err = svc.Detail(ctx, p.ID, true)
	require.NoError(t, err)
	require.NotNil(t, d.Enable)
	assert.True(t, *d.Enable)
}

func TestDetail_PublicHidesDisabled(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t, 1)
	p := testutil.SeedProduct(t, f.db, f.cat, "sofa", f.tags[0])
	require.NoError(t, f.db.Model(p).Update("enable", false).Error)
	svc := &ProductService{Store: &repo.ProductRepo{DB: f.db}}

	_, err := svc.Detail(ctx, p.ID, false)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Detail(ctx, p.ID, true)
	require.NoError(t, err)

	_, err = svc.Detail(ctx, uuid.New(), true)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListPublic_FiltersByCategoryName(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t, 1)
	other := testutil.SeedCategory(t, f.db, "桌子")
	testutil.SeedProduct(t, f.db, f.cat, "sofa one", f.tags[0])
	testutil.SeedProduct(t, f.db, f.cat, "sofa two", f.tags[0])
	testutil.SeedProduct(t, f.db, other, "table", f.tags[0])
	svc := &ProductService{Store: &repo.ProductRepo{DB: f.db}}

	page, err := svc.ListPublic(ctx, 1, "沙發")
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.EqualValues(t, 1, page.Pagination.TotalPage)
	assert.Nil(t, page.Products[0].Enable)

	_, err = svc.ListPublic(ctx, 1, "不存在")
	require.ErrorIs(t, err, ErrUnknownCategory)

	admin, err := svc.ListAdmin(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, admin.Products, 3)
	require.NotNil(t, admin.Products[0].Enable)
}

func TestSearch_FallsBackToDatabase(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t, 1)
	testutil.SeedProduct(t, f.db, f.cat, "Velvet Sofa", f.tags[0])
	testutil.SeedProduct(t, f.db, f.cat, "Oak Table", f.tags[0])

	idx := &fakeIndex{docs: map[string]search.Document{}, searchErr: errors.New("cluster down")}
	svc := &ProductService{Store: &repo.ProductRepo{DB: f.db}, Index: idx}

	page, err := svc.Search(ctx, "sofa", 1)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Velvet Sofa", page.Products[0].Name)

	_, err = svc.Search(ctx, "  ", 1)
	require.ErrorIs(t, err, ErrValidation)
}
