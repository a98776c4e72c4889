package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/hash"
)

const Password = "Passw0rdOK"

func SeedUser(t *testing.T, gdb *gorm.DB, email, role string) *models.User {
	t.Helper()

	h, err := hash.HashPassword(Password)
	require.NoError(t, err)

	u := &models.User{Name: "tester", Email: email, Password: h, Role: role}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

func SeedCategory(t *testing.T, gdb *gorm.DB, name string) *models.Category {
	t.Helper()

	c := &models.Category{Name: name}
	require.NoError(t, gdb.Create(c).Error)
	return c
}

func SeedTag(t *testing.T, gdb *gorm.DB, name string) *models.Tag {
	t.Helper()

	tag := &models.Tag{Name: name}
	require.NoError(t, gdb.Create(tag).Error)
	return tag
}

func SeedProduct(t *testing.T, gdb *gorm.DB, category *models.Category, name string, tags ...*models.Tag) *models.Product {
	t.Helper()

	p := &models.Product{
		CategoryID:  category.ID,
		Name:        name,
		Description: "a test product",
		ImageURL:    "https://img.example.com/p.png",
		Price:       100,
		OriginPrice: 500,
		Colors:      []string{"c1", "c2"},
		Spec:        []string{"s1", "s2"},
		Enable:      true,
	}
	require.NoError(t, gdb.Omit("Category", "Tags").Create(p).Error)

	for _, tag := range tags {
		require.NoError(t, gdb.Omit("Tag").Create(&models.ProductTag{ProductID: p.ID, TagID: tag.ID}).Error)
	}
	return p
}
