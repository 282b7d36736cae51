package certificate

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDimensions(t *testing.T) {
	score := 16.5
	out, err := Render(Data{
		StudentName:    "Julie Bernard",
		CourseTitle:    "Advanced Reinforced Concrete Formwork and Structural Shoring Techniques",
		TrainerName:    "Marc Dubois",
		CompletionDate: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		Duration:       40,
		Score:          &score,
		EnrollmentID:   7,
	})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1123, img.Bounds().Dx())
	assert.Equal(t, 794, img.Bounds().Dy())
}

func TestRenderWithoutScore(t *testing.T) {
	out, err := Render(Data{
		StudentName:    "Julie Bernard",
		CourseTitle:    "Masonry 101",
		TrainerName:    "Marc Dubois",
		CompletionDate: time.Now(),
		Duration:       40,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
