package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/models"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/repo"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/tokens"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Photo{}, &models.Tag{}, &models.Comment{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestIssuer(t *testing.T) *tokens.Issuer {
	t.Helper()

	issuer, err := tokens.NewIssuer([]byte("test-jwt-secret"), "HS256", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return issuer
}

func newTestAuthService(t *testing.T) (*AuthService, *repo.GormRepo) {
	t.Helper()

	store := repo.New(initTestDB(t))
	svc := &AuthService{Store: store, Tokens: newTestIssuer(t)}
	return svc, store
}
