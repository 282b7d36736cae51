package controllers

import "ibuild/services/qualification"

type CourseRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Duration     int64   `json:"duration"`
	Price        float64 `json:"price"`
	ThumbnailURL string  `json:"thumbnail_url"`
}

type ModuleRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type LessonRequest struct {
	Title    string `json:"title"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	VideoURL string `json:"video_url"`
	FileURL  string `json:"file_url"`
	Duration int    `json:"duration"`
	Order    int    `json:"order"`
}

type EnrollRequest struct {
	CourseID uint `json:"course_id"`
}

type ProgressRequest struct {
	Progress         float64 `json:"progress"`
	CompletedLessons []uint  `json:"completed_lessons"`
}

type LessonCompleteRequest struct {
	LessonID    uint     `json:"lesson_id"`
	TimeWatched *int     `json:"time_watched"`
	Score       *float64 `json:"score"`
}

type SubmitTestRequest struct {
	Answers []qualification.Answer `json:"answers"`
}
