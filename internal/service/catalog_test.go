package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/testutil"
	"github.com/Skotchmaster/storefront/internal/transport"
)

func TestNamedService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	pub := &fakePublisher{}
	svc := NewTagService(&repo.NamedRepo[models.Tag]{DB: db}, pub)

	item, err := svc.Create(ctx, transport.NameRequest{Name: ptr("  新品 ")})
	require.NoError(t, err)
	assert.Equal(t, "新品", item.Name)

	_, err = svc.Create(ctx, transport.NameRequest{Name: ptr("x")})
	require.ErrorIs(t, err, ErrValidation)

	id := uuid.MustParse(item.ID)
	require.NoError(t, svc.Rename(ctx, id, transport.NameRequest{Name: ptr("特價")}))

	pg, items, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, pg)
	assert.EqualValues(t, 1, pg.TotalPage)
	assert.Equal(t, []transport.NamedItem{{ID: item.ID, Name: "特價"}}, items)

	require.NoError(t, svc.Delete(ctx, id))
	require.ErrorIs(t, svc.Delete(ctx, id), ErrWriteFailed)
	require.ErrorIs(t, svc.Rename(ctx, id, transport.NameRequest{Name: ptr("再來")}), ErrWriteFailed)

	pg, items, err = svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, pg)
	assert.Empty(t, items)

	assert.Equal(t, []string{"tag_created", "tag_updated", "tag_deleted"}, pub.types())
}

func TestNamedService_TagDeleteDropsCachedDetail(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t, 2)
	cache := newFakeCache()
	products := &ProductService{Store: &repo.ProductRepo{DB: f.db}, Cache: cache}
	tags := NewTagService(&repo.NamedRepo[models.Tag]{DB: f.db}, nil)
	tags.OnChange = products.RefreshTag

	p, err := products.CreateProduct(ctx, productRequest(f.cat.ID.String(), f.tagIDs(2)...))
	require.NoError(t, err)

	d, err := products.Detail(ctx, p.ID, true)
	require.NoError(t, err)
	require.Len(t, d.Tags, 2)
	require.Contains(t, cache.items, p.ID.String())

	require.NoError(t, tags.Delete(ctx, f.tags[0].ID))
	assert.NotContains(t, cache.items, p.ID.String())

	d, err = products.Detail(ctx, p.ID, true)
	require.NoError(t, err)
	require.Len(t, d.Tags, 1)
	assert.Equal(t, f.tags[1].ID.String(), d.Tags[0].ID)
}

func TestNamedService_CategoryRenameRefreshesProducts(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t, 1)
	cache := newFakeCache()
	idx := &fakeIndex{docs: map[string]search.Document{}}
	products := &ProductService{Store: &repo.ProductRepo{DB: f.db}, Cache: cache, Index: idx}
	categories := NewCategoryService(&repo.NamedRepo[models.Category]{DB: f.db}, nil)
	categories.OnChange = products.RefreshCategory

	p, err := products.CreateProduct(ctx, productRequest(f.cat.ID.String(), f.tagIDs(1)...))
	require.NoError(t, err)
	_, err = products.Detail(ctx, p.ID, true)
	require.NoError(t, err)
	require.Equal(t, "沙發", idx.docs[p.ID.String()].Category)

	require.NoError(t, categories.Rename(ctx, f.cat.ID, transport.NameRequest{Name: ptr("沙發床")}))

	d, err := products.Detail(ctx, p.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "沙發床", d.Category)
	assert.Equal(t, "沙發床", idx.docs[p.ID.String()].Category)
}
