package learn

import (
	"errors"
	"sync"
)

var ErrLessonNotFound = errors.New("lesson not found")

// Course holds the curriculum plus the player's completion state.
// Completion persists to disk best-effort; a write failure never blocks
// the player.
type Course struct {
	mu      sync.Mutex
	lessons []Lesson
}

// NewCourse loads the default curriculum and merges saved progress.
func NewCourse() *Course {
	lessons := DefaultLessons()
	if p, err := loadProgress(); err == nil {
		for _, title := range p.Completed {
			for i := range lessons {
				if lessons[i].Title == title {
					lessons[i].Completed = true
				}
			}
		}
	}
	return &Course{lessons: lessons}
}

func (c *Course) Lessons() []Lesson {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Lesson, len(c.lessons))
	copy(out, c.lessons)
	return out
}

func (c *Course) Lesson(title string) (Lesson, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.lessons {
		if l.Title == title {
			return l, nil
		}
	}
	return Lesson{}, ErrLessonNotFound
}

// Current is the first incomplete lesson, or the last lesson when the
// whole course is done.
func (c *Course) Current() Lesson {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.lessons {
		if !l.Completed {
			return l
		}
	}
	return c.lessons[len(c.lessons)-1]
}

func (c *Course) CompletedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lessons {
		if l.Completed {
			n++
		}
	}
	return n
}

// Complete grades the quiz for the named lesson and marks it done when
// every answer is correct. Returns the score either way.
func (c *Course) Complete(title string, answers []int) (correct, total int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lessons {
		if c.lessons[i].Title != title {
			continue
		}
		quiz := c.lessons[i].Quiz
		correct = quiz.Grade(answers)
		total = len(quiz.Questions)
		if correct == total {
			c.lessons[i].Completed = true
			c.persistLocked()
		}
		return correct, total, nil
	}
	return 0, 0, ErrLessonNotFound
}

func (c *Course) persistLocked() {
	var p progress
	for _, l := range c.lessons {
		if l.Completed {
			p.Completed = append(p.Completed, l.Title)
		}
	}
	// Best effort: losing progress on disk only means re-taking a quiz.
	_ = saveProgress(p)
}
