package server

import (
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// postDateFormat is the long-form display date stamped on new posts.
const postDateFormat = "January 02, 2006"

// Home handles GET /. Every post is rendered; there is no pagination.
func (s *Server) Home(c *fiber.Ctx) error {
	posts, err := s.postRepo.List(c.UserContext())
	if err != nil {
		return err
	}
	return s.render(c, "index", fiber.Map{
		"Posts": posts,
	})
}

// ShowPost handles GET /post/:id.
func (s *Server) ShowPost(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	comments, err := s.commentRepo.ListByPost(c.UserContext(), post.ID)
	if err != nil {
		return err
	}

	return s.render(c, "post", fiber.Map{
		"Post":     post,
		"Comments": comments,
	})
}

// CreateComment handles POST /post/:id. Commenting requires a logged-in
// user; anonymous visitors are flashed toward the login form.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	text := strings.TrimSpace(c.FormValue("comment"))
	if text == "" {
		s.flash(c, flashEmptyComment)
		return c.Redirect("/post/"+c.Params("id"), fiber.StatusSeeOther)
	}

	user := currentUser(c)
	if user == nil {
		s.flash(c, flashLoginToComment)
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	comment := &models.Comment{
		AuthorID: user.ID,
		PostID:   post.ID,
		Text:     text,
	}
	if err := s.commentRepo.Create(c.UserContext(), comment); err != nil {
		return err
	}

	return c.Redirect("/post/"+c.Params("id"), fiber.StatusSeeOther)
}

// NewPostPage handles GET /new-post. Unauthenticated visitors get a flash
// redirect to login rather than a 403; only edit and delete use the hard gate.
func (s *Server) NewPostPage(c *fiber.Ctx) error {
	if currentUser(c) == nil {
		s.flash(c, flashLoginToComment)
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return s.render(c, "make-post", fiber.Map{
		"IsEdit":   false,
		"Title":    "",
		"Subtitle": "",
		"Body":     "",
		"ImgURL":   "",
	})
}

// CreatePost handles POST /new-post.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		s.flash(c, flashLoginToComment)
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	title := strings.TrimSpace(c.FormValue("title"))
	subtitle := strings.TrimSpace(c.FormValue("subtitle"))
	body := c.FormValue("body")
	imgURL := strings.TrimSpace(c.FormValue("img_url"))

	if title == "" || subtitle == "" || body == "" || imgURL == "" {
		s.flash(c, flashFieldsRequired)
		return c.Redirect("/new-post", fiber.StatusSeeOther)
	}

	post := &models.Post{
		AuthorID: user.ID,
		Title:    title,
		Subtitle: subtitle,
		Body:     body,
		ImgURL:   imgURL,
		Date:     time.Now().Format(postDateFormat),
	}
	if err := s.postRepo.Create(c.UserContext(), post); err != nil {
		if models.IsConflict(err) {
			s.flash(c, flashDuplicateTitle)
			return c.Redirect("/new-post", fiber.StatusSeeOther)
		}
		return err
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// EditPostPage handles GET /edit-post/:id (access-gated).
func (s *Server) EditPostPage(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return s.render(c, "make-post", fiber.Map{
		"IsEdit":   true,
		"Title":    post.Title,
		"Subtitle": post.Subtitle,
		"Body":     post.Body,
		"ImgURL":   post.ImgURL,
	})
}

// UpdatePost handles POST /edit-post/:id (access-gated). The edit overwrites
// the display fields and reassigns the post to the submitting user; the
// creation date is never touched.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	title := strings.TrimSpace(c.FormValue("title"))
	subtitle := strings.TrimSpace(c.FormValue("subtitle"))
	body := c.FormValue("body")
	imgURL := strings.TrimSpace(c.FormValue("img_url"))

	if title == "" || subtitle == "" || body == "" || imgURL == "" {
		s.flash(c, flashFieldsRequired)
		return c.Redirect("/edit-post/"+c.Params("id"), fiber.StatusSeeOther)
	}

	user := currentUser(c)
	post.Title = title
	post.Subtitle = subtitle
	post.Body = body
	post.ImgURL = imgURL
	post.AuthorID = user.ID
	post.Author = *user

	if err := s.postRepo.Update(c.UserContext(), post); err != nil {
		if models.IsConflict(err) {
			s.flash(c, flashDuplicateTitle)
			return c.Redirect("/edit-post/"+c.Params("id"), fiber.StatusSeeOther)
		}
		return err
	}

	return c.Redirect("/post/"+c.Params("id"), fiber.StatusSeeOther)
}

// DeletePost handles GET /delete/:id (access-gated). The post's comments go
// with it.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	if err := s.postRepo.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}
