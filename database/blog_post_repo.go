package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-admin-console/errs"
	"github.com/rpupo63/blog-admin-console/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

// FindAll returns every blog post, most recently created first
func (r *BlogPostRepo) FindAll(ctx context.Context) ([]models.BlogPost, error) {
	var blogPosts []models.BlogPost
	err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Find(&blogPosts).Error
	if err != nil {
		return nil, errs.NewDatabaseError("find", "blog_posts", err)
	}
	return blogPosts, nil
}

// FindByID returns a blog post by its ID
func (r *BlogPostRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	var blogPost models.BlogPost
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).First(&blogPost, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errs.NewNotFound("blog post")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "blog_post", err)
	}
	return &blogPost, nil
}

// Add inserts a new blog post and returns the stored row
func (r *BlogPostRepo) Add(ctx context.Context, blogPost *models.BlogPost) (*models.BlogPost, error) {
	if err := r.db.WithContext(ctx).Create(blogPost).Error; err != nil {
		return nil, errs.NewDatabaseError("create", "blog_post", err)
	}
	return r.FindByID(ctx, blogPost.ID)
}

// Update overwrites the editable columns of the post with blogPost.ID and
// returns the stored row. id, user_id and created_at are never touched.
func (r *BlogPostRepo) Update(ctx context.Context, blogPost *models.BlogPost) (*models.BlogPost, error) {
	result := r.db.WithContext(ctx).
		Model(&models.BlogPost{}).
		Where("id = ?", blogPost.ID).
		Updates(map[string]any{
			"image":   blogPost.Image,
			"title":   blogPost.Title,
			"content": blogPost.Content,
		})
	if result.Error != nil {
		return nil, errs.NewDatabaseError("update", "blog_post", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errs.NewNotFound("blog post")
	}
	return r.FindByID(ctx, blogPost.ID)
}

// Delete removes a blog post from the database by id. Deleting a missing id is not an error.
func (r *BlogPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.BlogPost{}, "id = ?", id).Error; err != nil {
		return errs.NewDatabaseError("delete", "blog_post", err)
	}
	return nil
}
