package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"gather/internal/models"
	"gather/internal/repository"
)

// FeedKind tags the entries of the merged stream.
type FeedKind string

const (
	FeedKindPhoto FeedKind = "photo"
	FeedKindPost  FeedKind = "post"
)

// FeedItem is one entry of the heterogeneous feed. Exactly one of Post and
// Photo is set, matching Kind.
type FeedItem struct {
	Kind      FeedKind      `json:"kind"`
	ID        uint          `json:"id"`
	AuthorID  uint          `json:"author_id"`
	Timestamp time.Time     `json:"timestamp"`
	Post      *models.Post  `json:"post,omitempty"`
	Photo     *models.Photo `json:"photo,omitempty"`
}

// FeedService merges posts and photos from a user and everyone they follow
// into one time-ordered stream.
type FeedService struct {
	db       *gorm.DB
	settings *SettingsService
}

func NewFeedService(db *gorm.DB, settings *SettingsService) *FeedService {
	return &FeedService{db: db, settings: settings}
}

// Feed returns one page. perPage <= 0 uses the posts_per_page site setting.
// Ordering is timestamp descending with ties broken by kind then id
// descending, so pages are stable.
func (s *FeedService) Feed(ctx context.Context, user *models.User, page, perPage int) ([]FeedItem, models.PageInfo, error) {
	if user == nil {
		return nil, models.PageInfo{}, models.NewUnauthenticatedError("authentication required")
	}
	if perPage <= 0 {
		perPage = s.settings.PostsPerPage(ctx)
	}
	if page < 1 {
		page = 1
	}

	followed, err := repository.NewFollowRepository(s.db).FollowingIDs(ctx, user.ID)
	if err != nil {
		return nil, models.PageInfo{}, err
	}
	authorIDs := append([]uint{user.ID}, followed...)

	// Fetch up to the end of the requested page from each source, then
	// merge in memory. Counts stay exact via the separate totals.
	limit := page * perPage
	posts := repository.NewPostRepository(s.db)
	photos := repository.NewPhotoRepository(s.db)

	postItems, err := posts.ListForFeed(ctx, authorIDs, limit)
	if err != nil {
		return nil, models.PageInfo{}, err
	}
	photoItems, err := photos.ListForFeed(ctx, authorIDs, limit)
	if err != nil {
		return nil, models.PageInfo{}, err
	}
	postTotal, err := posts.CountForFeed(ctx, authorIDs)
	if err != nil {
		return nil, models.PageInfo{}, err
	}
	photoTotal, err := photos.CountForFeed(ctx, authorIDs)
	if err != nil {
		return nil, models.PageInfo{}, err
	}

	items := make([]FeedItem, 0, len(postItems)+len(photoItems))
	for _, p := range postItems {
		items = append(items, FeedItem{
			Kind:      FeedKindPost,
			ID:        p.ID,
			AuthorID:  p.UserID,
			Timestamp: p.FeedTimestamp(),
			Post:      p,
		})
	}
	for _, ph := range photoItems {
		items = append(items, FeedItem{
			Kind:      FeedKindPhoto,
			ID:        ph.ID,
			AuthorID:  ph.UserID,
			Timestamp: ph.CreatedAt,
			Photo:     ph,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.ID > b.ID
	})

	info := models.NewPageInfo(page, perPage, postTotal+photoTotal)
	start := info.Offset()
	if start >= len(items) {
		return []FeedItem{}, info, nil
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], info, nil
}
