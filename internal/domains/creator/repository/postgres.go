package repository

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"creator-dashboard/internal/domains/creator/model"
	"creator-dashboard/pkg/cache"
	"creator-dashboard/pkg/database"
)

const creatorColumns = `id, username, full_name, profile_url, pk,
	follower_count, following_count, media_count,
	is_verified, is_business, is_private,
	category, bio, external_url, profile_pic_url, profile_pic_local,
	bio_hashtags, bio_mentions, engagement_rate,
	source_keyword, search_score, profile_type,
	scraped_at, last_updated`

const statsCacheKey = "creators:stats"

// postgresRepository - raw SQL with pgxpool
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

func scanCreator(row pgx.Row) (*model.Creator, error) {
	var c model.Creator
	err := row.Scan(
		&c.ID, &c.Username, &c.FullName, &c.ProfileURL, &c.PK,
		&c.FollowerCount, &c.FollowingCount, &c.MediaCount,
		&c.IsVerified, &c.IsBusiness, &c.IsPrivate,
		&c.Category, &c.Bio, &c.ExternalURL, &c.ProfilePicURL, &c.ProfilePicLocal,
		&c.BioHashtags, &c.BioMentions, &c.EngagementRate,
		&c.SourceKeyword, &c.SearchScore, &c.ProfileType,
		&c.ScrapedAt, &c.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepository) Create(ctx context.Context, creator *model.Creator) error {
	query := `
		INSERT INTO creators (
			username, full_name, profile_url, pk,
			follower_count, following_count, media_count,
			is_verified, is_business, is_private,
			category, bio, external_url, profile_pic_url, profile_pic_local,
			bio_hashtags, bio_mentions, engagement_rate,
			source_keyword, search_score, profile_type,
			scraped_at, last_updated
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21,
			NOW(), NOW()
		)
		RETURNING id, scraped_at, last_updated
	`

	err := r.pool.QueryRow(ctx, query,
		creator.Username, creator.FullName, creator.ProfileURL, creator.PK,
		creator.FollowerCount, creator.FollowingCount, creator.MediaCount,
		creator.IsVerified, creator.IsBusiness, creator.IsPrivate,
		creator.Category, creator.Bio, creator.ExternalURL, creator.ProfilePicURL, creator.ProfilePicLocal,
		creator.BioHashtags, creator.BioMentions, creator.EngagementRate,
		creator.SourceKeyword, creator.SearchScore, creator.ProfileType,
	).Scan(&creator.ID, &creator.ScrapedAt, &creator.LastUpdated)

	if err != nil {
		if strings.Contains(err.Error(), "creators_username_key") {
			return model.ErrUsernameTaken
		}
		return fmt.Errorf("failed to create creator: %w", err)
	}

	r.invalidate(ctx)
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Creator, error) {
	query := fmt.Sprintf(`SELECT %s FROM creators WHERE id = $1`, creatorColumns)

	creator, err := scanCreator(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, model.ErrCreatorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}

	return creator, nil
}

func (r *postgresRepository) GetByUsername(ctx context.Context, username string) (*model.Creator, error) {
	query := fmt.Sprintf(`SELECT %s FROM creators WHERE LOWER(username) = LOWER($1)`, creatorColumns)

	creator, err := scanCreator(r.pool.QueryRow(ctx, query, username))
	if err == pgx.ErrNoRows {
		return nil, model.ErrCreatorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get creator by username: %w", err)
	}

	return creator, nil
}

func (r *postgresRepository) Update(ctx context.Context, creator *model.Creator) error {
	query := `
		UPDATE creators SET
			username = $2, full_name = $3, profile_url = $4, pk = $5,
			follower_count = $6, following_count = $7, media_count = $8,
			is_verified = $9, is_business = $10, is_private = $11,
			category = $12, bio = $13, external_url = $14,
			profile_pic_url = $15, profile_pic_local = $16,
			bio_hashtags = $17, bio_mentions = $18, engagement_rate = $19,
			source_keyword = $20, search_score = $21, profile_type = $22,
			last_updated = NOW()
		WHERE id = $1
	`

	cmd, err := r.pool.Exec(ctx, query,
		creator.ID,
		creator.Username, creator.FullName, creator.ProfileURL, creator.PK,
		creator.FollowerCount, creator.FollowingCount, creator.MediaCount,
		creator.IsVerified, creator.IsBusiness, creator.IsPrivate,
		creator.Category, creator.Bio, creator.ExternalURL,
		creator.ProfilePicURL, creator.ProfilePicLocal,
		creator.BioHashtags, creator.BioMentions, creator.EngagementRate,
		creator.SourceKeyword, creator.SearchScore, creator.ProfileType,
	)
	if err != nil {
		return fmt.Errorf("failed to update creator: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrCreatorNotFound
	}

	r.invalidate(ctx)
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM creators WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete creator: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrCreatorNotFound
	}

	r.invalidate(ctx)
	return nil
}

// Search builds a dynamic WHERE clause from the filters. Results are
// ordered by follower_count descending.
func (r *postgresRepository) Search(ctx context.Context, filters model.SearchFilters) ([]model.Creator, int, error) {
	whereClause, args := buildSearchWhere(filters)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM creators %s`, whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("search count failed: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`
		SELECT %s FROM creators
		%s
		ORDER BY follower_count DESC
		LIMIT $%d OFFSET $%d
	`, creatorColumns, whereClause, len(args)+1, len(args)+2)

	args = append(args, limit, filters.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	creators := make([]model.Creator, 0, limit)
	for rows.Next() {
		c, err := scanCreator(rows)
		if err != nil {
			log.Printf("[Repository] Scan error: %v", err)
			continue
		}
		creators = append(creators, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return creators, total, nil
}

func buildSearchWhere(filters model.SearchFilters) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	addCondition := func(cond string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argIndex))
		args = append(args, value)
		argIndex++
	}

	if filters.MinFollowers > 0 {
		addCondition("follower_count >= $%d", filters.MinFollowers)
	}
	// The max slider at its cap means "no upper bound".
	if filters.MaxFollowers > 0 && filters.MaxFollowers < model.MaxFollowerSentinel {
		addCondition("follower_count <= $%d", filters.MaxFollowers)
	}

	if filters.IsVerified != nil {
		addCondition("is_verified = $%d", *filters.IsVerified)
	}
	if filters.IsBusiness != nil {
		addCondition("is_business = $%d", *filters.IsBusiness)
	}
	if filters.IsPrivate != nil {
		addCondition("is_private = $%d", *filters.IsPrivate)
	}

	if filters.Category != "" {
		addCondition("category ILIKE $%d", "%"+filters.Category+"%")
	}
	if filters.ProfileType != "" {
		addCondition("profile_type ILIKE $%d", "%"+filters.ProfileType+"%")
	}

	// Each hashtag/mention/keyword list matches if any entry matches.
	if orClause := buildAnyMatch([]string{"bio_hashtags"}, filters.Hashtags, &args, &argIndex); orClause != "" {
		conditions = append(conditions, orClause)
	}
	if orClause := buildAnyMatch([]string{"bio_mentions"}, filters.Mentions, &args, &argIndex); orClause != "" {
		conditions = append(conditions, orClause)
	}
	if orClause := buildAnyMatch([]string{"username", "full_name", "bio", "category"}, filters.Keywords, &args, &argIndex); orClause != "" {
		conditions = append(conditions, orClause)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func buildAnyMatch(columns, terms []string, args *[]interface{}, argIndex *int) string {
	parts := []string{}
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		for _, col := range columns {
			parts = append(parts, fmt.Sprintf("%s ILIKE $%d", col, *argIndex))
			*args = append(*args, "%"+term+"%")
			*argIndex++
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func (r *postgresRepository) GetAll(ctx context.Context) ([]model.Creator, error) {
	query := fmt.Sprintf(`SELECT %s FROM creators ORDER BY username`, creatorColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch creators: %w", err)
	}
	defer rows.Close()

	var creators []model.Creator
	for rows.Next() {
		c, err := scanCreator(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan creator: %w", err)
		}
		creators = append(creators, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return creators, nil
}

// UpsertBatch writes one multi-row INSERT ... ON CONFLICT statement.
// A conflicting username overwrites the whole row; scraped_at keeps
// its original value, last_updated is bumped.
func (r *postgresRepository) UpsertBatch(ctx context.Context, creators []model.Creator) (int64, error) {
	if len(creators) == 0 {
		return 0, nil
	}

	const fieldsPerRow = 21
	valueRows := make([]string, 0, len(creators))
	args := make([]interface{}, 0, len(creators)*fieldsPerRow)

	for i, c := range creators {
		base := i * fieldsPerRow
		placeholders := make([]string, fieldsPerRow)
		for j := 0; j < fieldsPerRow; j++ {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueRows = append(valueRows, "("+strings.Join(placeholders, ", ")+", NOW(), NOW())")

		args = append(args,
			c.Username, c.FullName, c.ProfileURL, c.PK,
			c.FollowerCount, c.FollowingCount, c.MediaCount,
			c.IsVerified, c.IsBusiness, c.IsPrivate,
			c.Category, c.Bio, c.ExternalURL, c.ProfilePicURL, c.ProfilePicLocal,
			c.BioHashtags, c.BioMentions, c.EngagementRate,
			c.SourceKeyword, c.SearchScore, c.ProfileType,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO creators (
			username, full_name, profile_url, pk,
			follower_count, following_count, media_count,
			is_verified, is_business, is_private,
			category, bio, external_url, profile_pic_url, profile_pic_local,
			bio_hashtags, bio_mentions, engagement_rate,
			source_keyword, search_score, profile_type,
			scraped_at, last_updated
		) VALUES %s
		ON CONFLICT (username) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			profile_url = EXCLUDED.profile_url,
			pk = EXCLUDED.pk,
			follower_count = EXCLUDED.follower_count,
			following_count = EXCLUDED.following_count,
			media_count = EXCLUDED.media_count,
			is_verified = EXCLUDED.is_verified,
			is_business = EXCLUDED.is_business,
			is_private = EXCLUDED.is_private,
			category = EXCLUDED.category,
			bio = EXCLUDED.bio,
			external_url = EXCLUDED.external_url,
			profile_pic_url = EXCLUDED.profile_pic_url,
			profile_pic_local = EXCLUDED.profile_pic_local,
			bio_hashtags = EXCLUDED.bio_hashtags,
			bio_mentions = EXCLUDED.bio_mentions,
			engagement_rate = EXCLUDED.engagement_rate,
			source_keyword = EXCLUDED.source_keyword,
			search_score = EXCLUDED.search_score,
			profile_type = EXCLUDED.profile_type,
			last_updated = NOW()
	`, strings.Join(valueRows, ", "))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("batch upsert failed: %w", err)
	}

	r.invalidate(ctx)
	return cmd.RowsAffected(), nil
}

func (r *postgresRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	cmd, err := r.pool.Exec(ctx, `DELETE FROM creators WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete failed: %w", err)
	}

	r.invalidate(ctx)
	return cmd.RowsAffected(), nil
}

// MergeGroup runs the loser deletion and the survivor touch in one
// transaction, so a half-merged group can never be observed.
func (r *postgresRepository) MergeGroup(ctx context.Context, survivorID int64, loserIDs []int64) (int64, error) {
	if len(loserIDs) == 0 {
		return 0, nil
	}

	deleted, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (int64, error) {
		cmd, err := tx.Exec(ctx, `DELETE FROM creators WHERE id = ANY($1)`, loserIDs)
		if err != nil {
			return 0, fmt.Errorf("failed to delete merged creators: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE creators SET last_updated = NOW() WHERE id = $1`, survivorID,
		); err != nil {
			return 0, fmt.Errorf("failed to touch merge survivor: %w", err)
		}

		return cmd.RowsAffected(), nil
	})
	if err != nil {
		return 0, err
	}

	r.invalidate(ctx)
	return deleted, nil
}

func (r *postgresRepository) SetProfilePicLocal(ctx context.Context, id int64, localURL string) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE creators SET profile_pic_local = $2, last_updated = NOW() WHERE id = $1`,
		id, localURL,
	)
	if err != nil {
		return fmt.Errorf("failed to set local picture: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrCreatorNotFound
	}
	return nil
}

// Stats aggregates the table. Cached for a minute because the
// dashboard header polls it.
func (r *postgresRepository) Stats(ctx context.Context) (*model.CreatorStats, error) {
	var stats model.CreatorStats
	if found, err := r.cache.Get(ctx, statsCacheKey, &stats); err == nil && found {
		return &stats, nil
	}

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_verified),
			COUNT(*) FILTER (WHERE is_business),
			COUNT(*) FILTER (WHERE is_private),
			COALESCE(AVG(follower_count), 0),
			COALESCE(MAX(follower_count), 0),
			MAX(last_updated)
		FROM creators
	`

	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalCreators,
		&stats.VerifiedCount,
		&stats.BusinessCount,
		&stats.PrivateCount,
		&stats.AvgFollowers,
		&stats.MaxFollowers,
		&stats.LastSync,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	if err := r.cache.Set(ctx, statsCacheKey, &stats, time.Minute); err != nil {
		log.Printf("[Repository] Stats cache write failed: %v", err)
	}

	return &stats, nil
}

func (r *postgresRepository) invalidate(ctx context.Context) {
	if err := r.cache.Delete(ctx, statsCacheKey); err != nil {
		log.Printf("[Repository] Cache invalidation failed: %v", err)
	}
}
