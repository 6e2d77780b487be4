package portal

import (
	"context"
	"log"

	"github.com/jesterfour4/higher-ground-care/internal/services"
)

// CachedRepository wraps another Repository with the Redis cache. Lessons
// and videos change rarely so they cache well; children are small but get
// the same treatment for consistency.
type CachedRepository struct {
	inner Repository
}

func NewCachedRepository(inner Repository) *CachedRepository {
	return &CachedRepository{inner: inner}
}

func (r *CachedRepository) Children(ctx context.Context, parentID string) ([]Child, error) {
	key := services.CacheKey("portal_children", parentID)

	var children []Child
	if hit, err := services.Cache.Get(key, &children); err == nil && hit {
		return children, nil
	}

	children, err := r.inner.Children(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if err := services.Cache.Set(key, children); err != nil {
		log.Printf("Failed to cache children: %v", err)
	}
	return children, nil
}

func (r *CachedRepository) Lessons(ctx context.Context) ([]Lesson, error) {
	key := services.CacheKey("portal_lessons", "all")

	var lessons []Lesson
	if hit, err := services.Cache.Get(key, &lessons); err == nil && hit {
		return lessons, nil
	}

	lessons, err := r.inner.Lessons(ctx)
	if err != nil {
		return nil, err
	}
	if err := services.Cache.Set(key, lessons); err != nil {
		log.Printf("Failed to cache lessons: %v", err)
	}
	return lessons, nil
}

func (r *CachedRepository) Videos(ctx context.Context, childID string) ([]Video, error) {
	key := services.CacheKey("portal_videos", childID)

	var videos []Video
	if hit, err := services.Cache.Get(key, &videos); err == nil && hit {
		return videos, nil
	}

	videos, err := r.inner.Videos(ctx, childID)
	if err != nil {
		return nil, err
	}
	if err := services.Cache.Set(key, videos); err != nil {
		log.Printf("Failed to cache videos: %v", err)
	}
	return videos, nil
}
