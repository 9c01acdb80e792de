package server

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func makePostForm(title string) url.Values {
	return url.Values{
		"title":    {title},
		"subtitle": {"A subtitle"},
		"body":     {"<p>Some body text.</p>"},
		"img_url":  {"https://example.com/cover.jpg"},
	}
}

func seedPost(t *testing.T, db *gorm.DB, authorID uint, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		AuthorID: authorID,
		Title:    title,
		Subtitle: "Seeded subtitle",
		Date:     "August 30, 2026",
		Body:     "<p>Seeded body.</p>",
		ImgURL:   "https://example.com/seed.jpg",
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestCreatePost(t *testing.T) {
	app, db, _ := setupTestServer(t)

	t.Run("authenticated user can publish", func(t *testing.T) {
		c := newClient(t, app)
		c.register("Dana", "dana@example.com", "password123")

		resp := c.postForm("/new-post", makePostForm("First Light"))
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))

		var post models.Post
		require.NoError(t, db.First(&post, "title = ?", "First Light").Error)
		assert.Equal(t, "A subtitle", post.Subtitle)
		assert.Equal(t, time.Now().Format("January 02, 2006"), post.Date)

		var author models.User
		require.NoError(t, db.First(&author, post.AuthorID).Error)
		assert.Equal(t, "dana@example.com", author.Email)

		resp = c.get("/")
		assert.Contains(t, readBody(t, resp), "First Light")
	})

	t.Run("duplicate title flashes back to the form", func(t *testing.T) {
		c := newClient(t, app)
		c.register("Eve", "eve@example.com", "password123")

		resp := c.postForm("/new-post", makePostForm("Hello World"))
		require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

		resp = c.postForm("/new-post", makePostForm("Hello World"))
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/new-post", resp.Header.Get("Location"))

		resp = c.get("/new-post")
		assert.Contains(t, readBody(t, resp), "That title is already taken, pick another one.")

		var count int64
		require.NoError(t, db.Model(&models.Post{}).Where("title = ?", "Hello World").Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("anonymous visitor is sent to login and nothing persists", func(t *testing.T) {
		c := newClient(t, app)

		resp := c.get("/new-post")
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))

		resp = c.postForm("/new-post", makePostForm("Sneaky Draft"))
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))

		resp = c.get("/login")
		assert.Contains(t, readBody(t, resp), "You need to login or register to comment.")

		var count int64
		require.NoError(t, db.Model(&models.Post{}).Where("title = ?", "Sneaky Draft").Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	t.Run("missing fields bounce back to the form", func(t *testing.T) {
		c := newClient(t, app)
		c.register("Frank", "frank@example.com", "password123")

		form := makePostForm("Half Finished")
		form.Del("subtitle")
		resp := c.postForm("/new-post", form)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/new-post", resp.Header.Get("Location"))

		var count int64
		require.NoError(t, db.Model(&models.Post{}).Where("title = ?", "Half Finished").Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})
}

func TestShowPost(t *testing.T) {
	app, db, _ := setupTestServer(t)

	author := &models.User{Email: "author@example.com", Password: hashPassword(t, "password123"), Name: "The Author"}
	require.NoError(t, db.Create(author).Error)
	post := seedPost(t, db, author.ID, "On Writing")

	c := newClient(t, app)
	resp := c.get(fmt.Sprintf("/post/%d", post.ID))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "On Writing")
	assert.Contains(t, body, "The Author")
	assert.Contains(t, body, "August 30, 2026")
	// The rich-text body must come through unescaped.
	assert.Contains(t, body, "<p>Seeded body.</p>")
	assert.Contains(t, body, "No comments yet.")
	// Anonymous readers never see the management links.
	assert.NotContains(t, body, "Edit Post")
	assert.NotContains(t, body, "Delete Post")
}

func TestCreateComment(t *testing.T) {
	app, db, _ := setupTestServer(t)

	author := &models.User{Email: "poster@example.com", Password: hashPassword(t, "password123"), Name: "Poster"}
	require.NoError(t, db.Create(author).Error)
	post := seedPost(t, db, author.ID, "Open Thread")

	t.Run("anonymous commenter is sent to login", func(t *testing.T) {
		c := newClient(t, app)
		resp := c.postForm(fmt.Sprintf("/post/%d", post.ID), url.Values{"comment": {"First!"}})
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))

		resp = c.get("/login")
		assert.Contains(t, readBody(t, resp), "You need to login or register to comment.")

		var count int64
		require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	t.Run("empty comment is rejected", func(t *testing.T) {
		c := newClient(t, app)
		c.register("Gail", "gail@example.com", "password123")

		resp := c.postForm(fmt.Sprintf("/post/%d", post.ID), url.Values{"comment": {"   "}})
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, fmt.Sprintf("/post/%d", post.ID), resp.Header.Get("Location"))

		var count int64
		require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	t.Run("comment on a missing post is 404", func(t *testing.T) {
		c := newClient(t, app)
		resp := c.postForm("/post/9999", url.Values{"comment": {"Hello?"}})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		readBody(t, resp)
	})

	t.Run("logged-in comment lands on the post page", func(t *testing.T) {
		c := newClient(t, app)
		c.register("Hank", "hank@example.com", "password123")

		resp := c.postForm(fmt.Sprintf("/post/%d", post.ID), url.Values{"comment": {"Great piece."}})
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, fmt.Sprintf("/post/%d", post.ID), resp.Header.Get("Location"))

		resp = c.get(fmt.Sprintf("/post/%d", post.ID))
		body := readBody(t, resp)
		assert.Contains(t, body, "Great piece.")
		assert.Contains(t, body, "Hank")
		// Each comment carries its author's Gravatar.
		assert.Contains(t, body, "https://www.gravatar.com/avatar/")
	})
}

func TestEditPost(t *testing.T) {
	app, db, _ := setupTestServer(t)

	owner := newClient(t, app)
	owner.register("Iris", "iris@example.com", "password123")

	resp := owner.postForm("/new-post", makePostForm("Original Title"))
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	var post models.Post
	require.NoError(t, db.First(&post, "title = ?", "Original Title").Error)
	originalDate := post.Date

	t.Run("anonymous editor gets 403", func(t *testing.T) {
		c := newClient(t, app)
		resp := c.get(fmt.Sprintf("/edit-post/%d", post.ID))
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		readBody(t, resp)
	})

	t.Run("edit form is prefilled", func(t *testing.T) {
		resp := owner.get(fmt.Sprintf("/edit-post/%d", post.ID))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body := readBody(t, resp)
		assert.Contains(t, body, "Original Title")
		assert.Contains(t, body, "Edit Post")
	})

	t.Run("missing post is 404 even when logged in", func(t *testing.T) {
		resp := owner.get("/edit-post/9999")
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		readBody(t, resp)
	})

	t.Run("any signed-in user may edit and becomes the author", func(t *testing.T) {
		editor := newClient(t, app)
		editor.register("Jules", "jules@example.com", "password123")

		form := makePostForm("Revised Title")
		resp := editor.postForm(fmt.Sprintf("/edit-post/%d", post.ID), form)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, fmt.Sprintf("/post/%d", post.ID), resp.Header.Get("Location"))

		var updated models.Post
		require.NoError(t, db.First(&updated, post.ID).Error)
		assert.Equal(t, "Revised Title", updated.Title)
		assert.Equal(t, originalDate, updated.Date)

		var editorUser models.User
		require.NoError(t, db.First(&editorUser, "email = ?", "jules@example.com").Error)
		assert.Equal(t, editorUser.ID, updated.AuthorID)
	})

	t.Run("edit to a taken title flashes back", func(t *testing.T) {
		resp := owner.postForm("/new-post", makePostForm("Second Post"))
		require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

		var second models.Post
		require.NoError(t, db.First(&second, "title = ?", "Second Post").Error)

		resp = owner.postForm(fmt.Sprintf("/edit-post/%d", second.ID), makePostForm("Revised Title"))
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, fmt.Sprintf("/edit-post/%d", second.ID), resp.Header.Get("Location"))

		var unchanged models.Post
		require.NoError(t, db.First(&unchanged, second.ID).Error)
		assert.Equal(t, "Second Post", unchanged.Title)
	})
}

func TestDeletePost(t *testing.T) {
	app, db, _ := setupTestServer(t)

	owner := newClient(t, app)
	owner.register("Kim", "kim@example.com", "password123")

	resp := owner.postForm("/new-post", makePostForm("Doomed Post"))
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	var post models.Post
	require.NoError(t, db.First(&post, "title = ?", "Doomed Post").Error)

	resp = owner.postForm(fmt.Sprintf("/post/%d", post.ID), url.Values{"comment": {"Shame to lose this."}})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	t.Run("anonymous delete is 403 and the post survives", func(t *testing.T) {
		c := newClient(t, app)
		resp := c.get(fmt.Sprintf("/delete/%d", post.ID))
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		readBody(t, resp)

		var count int64
		require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("delete removes the post and its comments", func(t *testing.T) {
		resp := owner.get(fmt.Sprintf("/delete/%d", post.ID))
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))

		var posts, comments int64
		require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&posts).Error)
		require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments).Error)
		assert.EqualValues(t, 0, posts)
		assert.EqualValues(t, 0, comments)
	})

	t.Run("deleting a missing post is 404", func(t *testing.T) {
		resp := owner.get(fmt.Sprintf("/delete/%d", post.ID))
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		readBody(t, resp)
	})
}

// TestTwoUserConversation walks the whole flow: one user registers and
// publishes, a second registers and comments, and the post page shows both.
func TestTwoUserConversation(t *testing.T) {
	app, db, _ := setupTestServer(t)

	alice := newClient(t, app)
	alice.register("Alice", "alice@example.com", "password123")
	resp := alice.postForm("/new-post", makePostForm("Field Notes"))
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	var post models.Post
	require.NoError(t, db.First(&post, "title = ?", "Field Notes").Error)

	bob := newClient(t, app)
	bob.register("Bob", "bob@example.com", "password123")
	resp = bob.postForm(fmt.Sprintf("/post/%d", post.ID), url.Values{"comment": {"Nice!"}})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	reader := newClient(t, app)
	resp = reader.get(fmt.Sprintf("/post/%d", post.ID))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "Field Notes")
	assert.Contains(t, body, "Alice")
	assert.Contains(t, body, "Nice!")
	assert.Contains(t, body, "Bob")
}
