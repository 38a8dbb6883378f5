package repo

import (
	"context"
	"database/sql"

	"github.com/devhub/devconnect/internal/models"
)

type PostRepo struct {
	DB *sql.DB
}

func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{DB: db}
}

func scanPost(row interface{ Scan(...interface{}) error }) (*models.Post, error) {
	p := &models.Post{}
	var likes, comments []byte

	err := row.Scan(&p.ID, &p.UserID, &p.Text, &p.Name, &p.Avatar, &likes, &comments, &p.Version, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	p.Likes = []models.Like{}
	p.Comments = []models.Comment{}
	if err := unmarshalInto(likes, &p.Likes); err != nil {
		return nil, err
	}
	if err := unmarshalInto(comments, &p.Comments); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostRepo) Create(ctx context.Context, userID int, text, name, avatar string) (*models.Post, error) {
	query := `
		INSERT INTO posts (user_id, text, name, avatar)
		VALUES ($1, $2, $3, $4)
		RETURNING id, version, created_at
	`

	post := &models.Post{
		UserID:   userID,
		Text:     text,
		Name:     name,
		Avatar:   avatar,
		Likes:    []models.Like{},
		Comments: []models.Comment{},
	}

	err := r.DB.QueryRowContext(ctx, query, userID, text, name, avatar).
		Scan(&post.ID, &post.Version, &post.CreatedAt)

	if err != nil {
		return nil, err
	}

	return post, nil
}

// List returns all posts, newest first.
func (r *PostRepo) List(ctx context.Context) ([]models.Post, error) {
	query := `
		SELECT id, user_id, text, name, avatar, likes, comments, version, created_at
		FROM posts
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}

	return posts, rows.Err()
}

func (r *PostRepo) GetByID(ctx context.Context, id int) (*models.Post, error) {
	query := `
		SELECT id, user_id, text, name, avatar, likes, comments, version, created_at
		FROM posts
		WHERE id = $1
	`
	return scanPost(r.DB.QueryRowContext(ctx, query, id))
}

// Save persists mutated likes/comments lists with an optimistic version guard.
func (r *PostRepo) Save(ctx context.Context, p *models.Post) error {
	query := `
		UPDATE posts
		SET likes = $1, comments = $2, version = version + 1
		WHERE id = $3 AND version = $4
	`

	likes, err := marshalList(p.Likes)
	if err != nil {
		return err
	}
	comments, err := marshalList(p.Comments)
	if err != nil {
		return err
	}

	result, err := r.DB.ExecContext(ctx, query, likes, comments, p.ID, p.Version)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrVersionConflict
	}

	p.Version++
	return nil
}

func (r *PostRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// DeleteByUserID removes every post the user owns. Used by account deletion.
func (r *PostRepo) DeleteByUserID(ctx context.Context, userID int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM posts WHERE user_id = $1`, userID)
	return err
}

func (r *PostRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}
