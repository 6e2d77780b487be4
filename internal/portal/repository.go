package portal

import "context"

// Child is one kid in a family's portal, including their picture-login
// sequence and lesson progress.
type Child struct {
	ID              string   `json:"id" bson:"_id"`
	ParentID        string   `json:"parent_id,omitempty" bson:"parent_id"`
	Name            string   `json:"name" bson:"name"`
	Age             int      `json:"age" bson:"age"`
	Avatar          string   `json:"avatar" bson:"avatar"`
	PictureSequence []string `json:"picture_sequence" bson:"picture_sequence"`
	Progress        Progress `json:"progress" bson:"progress"`
	Goals           []string `json:"goals" bson:"goals"`
}

// Progress summarizes a child's activity for the parent dashboard.
type Progress struct {
	LessonsCompleted int `json:"lessons_completed" bson:"lessons_completed"`
	CurrentStreak    int `json:"current_streak" bson:"current_streak"`
	TotalMinutes     int `json:"total_minutes" bson:"total_minutes"`
}

// Lesson is one mini-lesson in the kid portal.
type Lesson struct {
	ID          string `json:"id" bson:"_id"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	Duration    string `json:"duration" bson:"duration"`
	Category    string `json:"category" bson:"category"` // speech|language|regulation
	Emoji       string `json:"emoji" bson:"emoji"`
	Completed   bool   `json:"completed" bson:"completed"`
}

// Video is one entry in the kid portal's video gallery.
type Video struct {
	ID          string `json:"id" bson:"_id"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	Duration    string `json:"duration" bson:"duration"`
	Thumbnail   string `json:"thumbnail" bson:"thumbnail"`
	Category    string `json:"category" bson:"category"` // welcome|lesson|celebration
	ForChildID  string `json:"for_child_id,omitempty" bson:"for_child_id"`
}

// Repository serves portal content. Reads only; content management happens
// out of band.
type Repository interface {
	// Children lists the children visible to a parent. An empty parentID
	// returns every child (kid-portal picture login matches across all).
	Children(ctx context.Context, parentID string) ([]Child, error)
	Lessons(ctx context.Context) ([]Lesson, error)
	// Videos lists the gallery for a child. Videos with no ForChildID are
	// shared and always included.
	Videos(ctx context.Context, childID string) ([]Video, error)
}
