package certificate

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Data is everything printed on a certificate.
type Data struct {
	StudentName    string
	CourseTitle    string
	TrainerName    string
	CompletionDate time.Time
	Duration       int64 // hours
	Score          *float64
	EnrollmentID   uint
}

// A4 landscape at 96 dpi.
const (
	pageWidth  = 1123
	pageHeight = 794
)

func face(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

// Render draws the completion certificate and returns it PNG-encoded.
func Render(data Data) ([]byte, error) {
	dc := gg.NewContext(pageWidth, pageHeight)

	// background
	dc.SetHexColor("#f0f9ff")
	dc.Clear()

	// decorative double border
	dc.SetHexColor("#2563eb")
	dc.SetLineWidth(3)
	dc.DrawRectangle(30, 30, pageWidth-60, pageHeight-60)
	dc.Stroke()
	dc.SetHexColor("#60a5fa")
	dc.SetLineWidth(1)
	dc.DrawRectangle(40, 40, pageWidth-80, pageHeight-80)
	dc.Stroke()

	headingFace, err := face(gobold.TTF, 40)
	if err != nil {
		return nil, err
	}
	titleFace, err := face(gobold.TTF, 58)
	if err != nil {
		return nil, err
	}
	nameFace, err := face(gobold.TTF, 38)
	if err != nil {
		return nil, err
	}
	courseFace, err := face(gobold.TTF, 26)
	if err != nil {
		return nil, err
	}
	bodyFace, err := face(goregular.TTF, 17)
	if err != nil {
		return nil, err
	}
	smallFace, err := face(goregular.TTF, 13)
	if err != nil {
		return nil, err
	}
	italicFace, err := face(goitalic.TTF, 16)
	if err != nil {
		return nil, err
	}

	center := float64(pageWidth) / 2

	dc.SetFontFace(headingFace)
	dc.SetHexColor("#1e40af")
	dc.DrawStringAnchored("INTELLECT BUILDING", center, 100, 0.5, 0.5)

	dc.SetFontFace(bodyFace)
	dc.SetHexColor("#64748b")
	dc.DrawStringAnchored("Construction Training Platform", center, 140, 0.5, 0.5)

	dc.SetFontFace(titleFace)
	dc.SetHexColor("#1e3a8a")
	dc.DrawStringAnchored("CERTIFICATE", center, 215, 0.5, 0.5)

	dc.SetFontFace(bodyFace)
	dc.SetHexColor("#475569")
	dc.DrawStringAnchored("OF ACHIEVEMENT", center, 260, 0.5, 0.5)

	dc.SetHexColor("#64748b")
	dc.DrawStringAnchored("This certificate is awarded to", center, 320, 0.5, 0.5)

	dc.SetFontFace(nameFace)
	dc.SetHexColor("#0f172a")
	dc.DrawStringAnchored(data.StudentName, center, 365, 0.5, 0.5)

	dc.SetFontFace(bodyFace)
	dc.SetHexColor("#64748b")
	dc.DrawStringAnchored("for successfully completing the course", center, 420, 0.5, 0.5)

	dc.SetFontFace(courseFace)
	dc.SetHexColor("#1e40af")
	dc.DrawStringWrapped(data.CourseTitle, center, 465, 0.5, 0.5, pageWidth-300, 1.3, gg.AlignCenter)

	infoY := 540.0
	dc.SetFontFace(bodyFace)
	dc.SetHexColor("#475569")
	dc.DrawStringAnchored(fmt.Sprintf("Duration: %d hours", data.Duration), center, infoY, 0.5, 0.5)
	if data.Score != nil {
		infoY += 26
		dc.DrawStringAnchored(fmt.Sprintf("Final score: %.1f/20", *data.Score), center, infoY, 0.5, 0.5)
	}
	infoY += 26
	dc.DrawStringAnchored("Completed on "+data.CompletionDate.Format("02/01/2006"), center, infoY, 0.5, 0.5)

	// signature block
	dc.SetFontFace(italicFace)
	dc.SetHexColor("#64748b")
	dc.DrawString("Trainer: "+data.TrainerName, 100, 680)
	dc.SetHexColor("#94a3b8")
	dc.SetLineWidth(1)
	dc.DrawLine(100, 700, 320, 700)
	dc.Stroke()

	// traceable watermark
	dc.SetFontFace(smallFace)
	dc.SetHexColor("#94a3b8")
	dc.DrawStringAnchored(fmt.Sprintf("ID: %d", data.EnrollmentID), center, float64(pageHeight)-65, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
