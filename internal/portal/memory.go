package portal

import (
	"context"
	"sync"
)

// MemoryRepository serves seeded portal content from memory. It is the
// default when MongoDB isn't configured, and what tests run against.
type MemoryRepository struct {
	mu       sync.RWMutex
	children []Child
	lessons  []Lesson
	videos   []Video
}

// NewMemoryRepository returns a repository pre-seeded with demo content.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		children: []Child{
			{
				ID:              "child-1",
				ParentID:        "demo-parent",
				Name:            "Emma",
				Age:             5,
				Avatar:          "👧",
				PictureSequence: []string{"🐱", "🐶", "🐦", "🐠"},
				Progress:        Progress{LessonsCompleted: 8, CurrentStreak: 12, TotalMinutes: 45},
				Goals:           []string{"Speech sounds", "Social interaction"},
			},
			{
				ID:              "child-2",
				ParentID:        "demo-parent",
				Name:            "Liam",
				Age:             7,
				Avatar:          "👦",
				PictureSequence: []string{"🍎", "🍌", "🍪", "🎂"},
				Progress:        Progress{LessonsCompleted: 15, CurrentStreak: 8, TotalMinutes: 67},
				Goals:           []string{"Language development", "Focus skills"},
			},
		},
		lessons: []Lesson{
			{
				ID:          "lesson-1",
				Title:       "Fun with Letter Sounds",
				Description: "Practice making sounds with Laura",
				Duration:    "5 min",
				Category:    "speech",
				Emoji:       "🔤",
				Completed:   false,
			},
			{
				ID:          "lesson-2",
				Title:       "Story Time Adventures",
				Description: "Listen and talk about a story",
				Duration:    "8 min",
				Category:    "language",
				Emoji:       "📖",
				Completed:   true,
			},
			{
				ID:          "lesson-3",
				Title:       "Breathing and Relaxation",
				Description: "Calm-down exercises for big feelings",
				Duration:    "4 min",
				Category:    "regulation",
				Emoji:       "🌬️",
				Completed:   false,
			},
		},
		videos: []Video{
			{
				ID:          "video-1",
				Title:       "Your First Session with Laura!",
				Description: "A welcome video just for you",
				Duration:    "2:30",
				Thumbnail:   "🎬",
				Category:    "welcome",
			},
			{
				ID:          "video-2",
				Title:       "Fun with Sounds - Letter A",
				Description: "Practice the A sound together",
				Duration:    "4:15",
				Thumbnail:   "🔠",
				Category:    "lesson",
			},
			{
				ID:          "video-3",
				Title:       "Celebration - You Did It!",
				Description: "Celebrate finishing your first week",
				Duration:    "1:45",
				Thumbnail:   "🎉",
				Category:    "celebration",
			},
		},
	}
}

func (r *MemoryRepository) Children(ctx context.Context, parentID string) ([]Child, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if parentID == "" {
		out := make([]Child, len(r.children))
		copy(out, r.children)
		return out, nil
	}

	// Demo children are visible to every parent until real family linking
	// lands; see the seeded ParentID above.
	var out []Child
	for _, c := range r.children {
		if c.ParentID == parentID || c.ParentID == "demo-parent" {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *MemoryRepository) Lessons(ctx context.Context) ([]Lesson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Lesson, len(r.lessons))
	copy(out, r.lessons)
	return out, nil
}

func (r *MemoryRepository) Videos(ctx context.Context, childID string) ([]Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Video
	for _, v := range r.videos {
		if v.ForChildID == "" || v.ForChildID == childID {
			out = append(out, v)
		}
	}
	return out, nil
}
