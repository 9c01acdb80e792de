package database

import (
	"path/filepath"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPostgresDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{"blog.db", false},
		{"/var/lib/inkwell/blog.db", false},
		{":memory:", false},
		{"postgres://user:pw@localhost:5432/blog", true},
		{"postgresql://user:pw@localhost:5432/blog", true},
		{"host=localhost user=blog password=pw dbname=blog", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isPostgresDSN(tt.dsn), "dsn %q", tt.dsn)
	}
}

func TestConnect_CreatesSchema(t *testing.T) {
	cfg := &config.Config{
		DBDSN: filepath.Join(t.TempDir(), "blog.db"),
	}

	db, err := Connect(cfg)
	require.NoError(t, err)

	for _, table := range []string{"users", "blog_posts", "comments"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}

	// Schema creation is idempotent on restart.
	_, err = Connect(cfg)
	require.NoError(t, err)
}

func TestConnect_UniqueConstraints(t *testing.T) {
	cfg := &config.Config{
		DBDSN: filepath.Join(t.TempDir(), "blog.db"),
	}

	db, err := Connect(cfg)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.User{Email: "a@x.com", Password: "hash", Name: "A"}).Error)
	assert.Error(t, db.Create(&models.User{Email: "a@x.com", Password: "hash", Name: "Other"}).Error)

	require.NoError(t, db.Create(&models.Post{
		AuthorID: 1, Title: "T1", Subtitle: "S", Date: "April 03, 2025", Body: "B", ImgURL: "http://x/img.png",
	}).Error)
	assert.Error(t, db.Create(&models.Post{
		AuthorID: 1, Title: "T1", Subtitle: "S2", Date: "April 04, 2025", Body: "B2", ImgURL: "http://x/img2.png",
	}).Error)
}
