package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"social-hub/domain/model"

	"github.com/lib/pq"
)

// PostRepository persists publish attempts. Rows are written pending first
// and finalized exactly once; there is no other update path.
type PostRepository struct{ db *sql.DB }

func NewPostRepository(db *sql.DB) *PostRepository { return &PostRepository{db: db} }

func (r *PostRepository) Create(ctx context.Context, p *model.Post) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = model.PostStatusPending
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, content, image_url, platforms, status, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.UserID, p.Content, p.ImageURL, pq.Array(p.Platforms), p.Status, p.CreatedAt, p.UpdatedAt)
	return err
}

// Finalize records the terminal outcome. The status='pending' guard keeps
// the row immutable once settled.
func (r *PostRepository) Finalize(ctx context.Context, postID, status string, platformPostIDs, errorDetails map[string]string) error {
	ids, err := json.Marshal(platformPostIDs)
	if err != nil {
		return err
	}
	errs, err := json.Marshal(errorDetails)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE posts SET status=$1, platform_post_ids=$2, error_details=$3, updated_at=$4 WHERE id=$5 AND status='pending'`,
		status, ids, errs, time.Now().UTC(), postID)
	return err
}

func (r *PostRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Post, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, content, image_url, platforms, status, platform_post_ids, error_details, created_at, updated_at
		 FROM posts WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*model.Post
	for rows.Next() {
		p := &model.Post{}
		var imageURL sql.NullString
		var ids, errs []byte
		if err := rows.Scan(&p.ID, &p.UserID, &p.Content, &imageURL, pq.Array(&p.Platforms),
			&p.Status, &ids, &errs, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if imageURL.Valid {
			p.ImageURL = &imageURL.String
		}
		if len(ids) > 0 {
			if err := json.Unmarshal(ids, &p.PlatformPostIDs); err != nil {
				return nil, err
			}
		}
		if len(errs) > 0 {
			if err := json.Unmarshal(errs, &p.ErrorDetails); err != nil {
				return nil, err
			}
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
