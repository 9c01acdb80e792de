// Package seed creates demo users, posts and comments for development.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls how much demo data is created.
type Options struct {
	Users           int
	Posts           int
	CommentsPerPost int
	// Password is assigned to every seeded user so developers can log in.
	Password string
}

// DefaultOptions returns a small but lively demo data set.
func DefaultOptions() Options {
	return Options{
		Users:           5,
		Posts:           12,
		CommentsPerPost: 3,
		Password:        "password123",
	}
}

// Run populates the database with fake users, posts and comments.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	hashed, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user := &models.User{
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password: string(hashed),
			Name:     gofakeit.Name(),
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
	}

	for i := 0; i < opts.Posts; i++ {
		author := users[r.Intn(len(users))]
		post := &models.Post{
			AuthorID: author.ID,
			Title:    fmt.Sprintf("%s #%d", gofakeit.BookTitle(), i+1),
			Subtitle: gofakeit.Sentence(6),
			Body:     gofakeit.Paragraph(2, 4, 8, "\n\n"),
			ImgURL:   fmt.Sprintf("https://picsum.photos/seed/%s/900/450", gofakeit.LetterN(8)),
			Date:     gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).Format("January 02, 2006"),
		}
		if err := db.Create(post).Error; err != nil {
			return fmt.Errorf("seed post: %w", err)
		}

		for j := 0; j < opts.CommentsPerPost; j++ {
			comment := &models.Comment{
				AuthorID: users[r.Intn(len(users))].ID,
				PostID:   post.ID,
				Text:     gofakeit.Sentence(10),
			}
			if err := db.Create(comment).Error; err != nil {
				return fmt.Errorf("seed comment: %w", err)
			}
		}
	}

	return nil
}
