package enrollment

import (
	"math"
	"sort"

	courseModels "ibuild/models/course"
)

// PopularCourse is one entry of the instructor ranking.
type PopularCourse struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	EnrolledCount uint   `json:"enrolled_count"`
}

// InstructorStats aggregates a trainer's enrollments across all courses.
type InstructorStats struct {
	TotalCourses      int             `json:"total_courses"`
	TotalStudents     int             `json:"total_students"`
	TotalEnrollments  int             `json:"total_enrollments"`
	ActiveEnrollments int             `json:"active_enrollments"`
	Completed         int             `json:"completed_enrollments"`
	AverageProgress   int             `json:"average_progress"`
	CompletionRate    int             `json:"completion_rate"` // percent
	PopularCourses    []PopularCourse `json:"popular_courses"`
}

// GetStatsForInstructor computes the dashboard aggregates for one trainer:
// distinct students, totals, active vs completed, mean progress, completion
// rate and the top 5 courses by enrollment count.
func (s *Service) GetStatsForInstructor(trainerID uint) (*InstructorStats, error) {
	var courses []courseModels.Course
	if err := s.db.Where("trainer_id = ?", trainerID).Find(&courses).Error; err != nil {
		return nil, err
	}

	enrollments, err := s.ListByTrainer(trainerID)
	if err != nil {
		return nil, err
	}

	students := make(map[uint]bool)
	active, completed := 0, 0
	var progressSum float64
	for _, e := range enrollments {
		students[e.StudentID] = true
		switch e.Status {
		case courseModels.StatusInProgress:
			active++
		case courseModels.StatusCompleted:
			completed++
		}
		progressSum += e.Progress
	}

	avgProgress := 0
	completionRate := 0
	if len(enrollments) > 0 {
		avgProgress = int(math.Round(progressSum / float64(len(enrollments))))
		completionRate = int(math.Round(float64(completed) / float64(len(enrollments)) * 100))
	}

	sort.Slice(courses, func(i, j int) bool {
		return courses[i].EnrolledCount > courses[j].EnrolledCount
	})
	top := courses
	if len(top) > 5 {
		top = top[:5]
	}
	popular := make([]PopularCourse, len(top))
	for i, c := range top {
		popular[i] = PopularCourse{ID: c.ID, Title: c.Title, EnrolledCount: c.EnrolledCount}
	}

	return &InstructorStats{
		TotalCourses:      len(courses),
		TotalStudents:     len(students),
		TotalEnrollments:  len(enrollments),
		ActiveEnrollments: active,
		Completed:         completed,
		AverageProgress:   avgProgress,
		CompletionRate:    completionRate,
		PopularCourses:    popular,
	}, nil
}
