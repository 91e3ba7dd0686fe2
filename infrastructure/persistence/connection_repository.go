package persistence

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"social-hub/domain/model"

	"github.com/lib/pq"
)

// SocialConnectionRepository stores per-(user, platform) credentials in
// PostgreSQL. The upsert relies on the table's (user_id, platform) unique
// constraint so concurrent re-authorizations stay single-row.
type SocialConnectionRepository struct{ db *sql.DB }

func NewSocialConnectionRepository(db *sql.DB) *SocialConnectionRepository {
	return &SocialConnectionRepository{db: db}
}

const connectionColumns = `id, user_id, platform, platform_user_id, platform_username, access_token, refresh_token, token_expires_at, is_active, metadata, created_at, updated_at`

func (r *SocialConnectionRepository) Upsert(ctx context.Context, c *model.SocialConnection) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	c.Platform = strings.ToLower(c.Platform)
	q := `INSERT INTO social_connections (user_id, platform, platform_user_id, platform_username, access_token, refresh_token, token_expires_at, is_active, metadata, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		  ON CONFLICT (user_id, platform) DO UPDATE SET
			platform_user_id=EXCLUDED.platform_user_id,
			platform_username=EXCLUDED.platform_username,
			access_token=EXCLUDED.access_token,
			refresh_token=EXCLUDED.refresh_token,
			token_expires_at=EXCLUDED.token_expires_at,
			is_active=EXCLUDED.is_active,
			metadata=EXCLUDED.metadata,
			updated_at=EXCLUDED.updated_at`
	var metadata interface{}
	if len(c.Metadata) > 0 {
		metadata = []byte(c.Metadata)
	}
	_, err := r.db.ExecContext(ctx, q,
		c.UserID, c.Platform, c.PlatformUserID, c.PlatformUsername,
		c.AccessToken, c.RefreshToken, c.TokenExpiresAt, c.IsActive,
		metadata, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *SocialConnectionRepository) Get(ctx context.Context, userID, platform string) (*model.SocialConnection, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+connectionColumns+` FROM social_connections WHERE user_id=$1 AND platform=$2`,
		userID, strings.ToLower(platform))
	conn, err := scanConnection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return conn, err
}

// ListActive returns only active rows, filtered to the requested platform
// set. Callers never see connections for platforms they did not ask about.
func (r *SocialConnectionRepository) ListActive(ctx context.Context, userID string, platforms []string) ([]*model.SocialConnection, error) {
	lowered := make([]string, 0, len(platforms))
	for _, p := range platforms {
		lowered = append(lowered, strings.ToLower(p))
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+connectionColumns+` FROM social_connections WHERE user_id=$1 AND is_active=TRUE AND platform = ANY($2)`,
		userID, pq.Array(lowered))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*model.SocialConnection
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, conn)
	}
	return list, rows.Err()
}

// Deactivate soft-deletes: the row stays for audit, re-connecting later
// reuses it via the upsert. A missing or already-inactive row is a no-op.
func (r *SocialConnectionRepository) Deactivate(ctx context.Context, userID, platform string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE social_connections SET is_active=FALSE, updated_at=$1 WHERE user_id=$2 AND platform=$3`,
		time.Now().UTC(), userID, strings.ToLower(platform))
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConnection(row rowScanner) (*model.SocialConnection, error) {
	conn := &model.SocialConnection{}
	var expiresAt sql.NullTime
	var metadata []byte
	if err := row.Scan(&conn.ID, &conn.UserID, &conn.Platform, &conn.PlatformUserID,
		&conn.PlatformUsername, &conn.AccessToken, &conn.RefreshToken,
		&expiresAt, &conn.IsActive, &metadata, &conn.CreatedAt, &conn.UpdatedAt); err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		conn.TokenExpiresAt = &expiresAt.Time
	}
	if len(metadata) > 0 {
		conn.Metadata = metadata
	}
	return conn, nil
}
