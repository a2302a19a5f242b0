package analysis

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/TarikSercanESENKUL/Dinamik-Operat-r-Atamas-Q-Learning-ile-K-k-Bir-Fabrika-Oyunu/factory"
)

// maxGIFFrames caps the animation length; longer histories are subsampled.
const maxGIFFrames = 200

var gifPalette = color.Palette{
	color.RGBA{255, 255, 255, 255}, // background
	color.RGBA{0, 0, 0, 255},       // borders
	color.RGBA{200, 200, 200, 255}, // idle machine
	color.RGBA{96, 180, 96, 255},   // busy machine
	color.RGBA{220, 80, 80, 255},   // broken machine
	color.RGBA{235, 180, 80, 255},  // maintenance
	color.RGBA{70, 110, 200, 255},  // time bar
	color.RGBA{60, 160, 60, 255},   // production bar
	color.RGBA{250, 220, 90, 255},  // medium-skill marker
	color.RGBA{30, 90, 30, 255},    // high-skill marker
	color.RGBA{150, 40, 40, 255},   // low-skill marker
}

const (
	colBackground = iota
	colBorder
	colIdle
	colBusy
	colBroken
	colMaintenance
	colTimeBar
	colProdBar
	colSkillMedium
	colSkillHigh
	colSkillLow
)

// RenderTimelineGIF draws the recorded episode as an animated strip: one
// box per machine colored by status, a skill marker for the working
// operator, a time bar on top and a production bar at the bottom.
func RenderTimelineGIF(frames []factory.Frame, cfg factory.Config, path string, fps int) error {
	if len(frames) == 0 {
		return fmt.Errorf("no history frames recorded")
	}
	if fps <= 0 {
		fps = 10
	}
	stride := 1
	if len(frames) > maxGIFFrames {
		stride = (len(frames) + maxGIFFrames - 1) / maxGIFFrames
	}

	const box, gap, margin = 60, 12, 16
	width := margin*2 + cfg.NumMachines*box + (cfg.NumMachines-1)*gap
	height := 130
	bounds := image.Rect(0, 0, width, height)

	anim := &gif.GIF{LoopCount: 0}
	delay := 100 / fps
	encoder := factory.NewEncoder(cfg)

	for i := 0; i < len(frames); i += stride {
		frame := frames[i]
		img := image.NewPaletted(bounds, gifPalette)
		fillRect(img, bounds, colBackground)

		// time bar
		progress := frame.Time / cfg.DayLengthMinutes
		if progress > 1 {
			progress = 1
		}
		fillRect(img, image.Rect(margin, 8, margin+int(progress*float64(width-2*margin)), 16), colTimeBar)
		drawBorder(img, image.Rect(margin, 8, width-margin, 16))

		// machines
		for m := 0; m < cfg.NumMachines && m < len(frame.Statuses); m++ {
			x := margin + m*(box+gap)
			cell := image.Rect(x, 28, x+box, 28+box)
			fillRect(img, cell, statusColor(frame.Statuses[m]))
			drawBorder(img, cell)
			if frame.Assignments[m] >= 0 {
				marker := image.Rect(x+4, 28+box-14, x+box-4, 28+box-4)
				fillRect(img, marker, skillColor(encoder.SkillBucket(frame.Skills[m])))
			}
		}

		// production bar
		ratio := float64(frame.Produced) / float64(cfg.TargetPerDay)
		if ratio > 1 {
			ratio = 1
		}
		fillRect(img, image.Rect(margin, height-20, margin+int(ratio*float64(width-2*margin)), height-10), colProdBar)
		drawBorder(img, image.Rect(margin, height-20, width-margin, height-10))

		anim.Image = append(anim.Image, img)
		anim.Delay = append(anim.Delay, delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gif %s: %w", path, err)
	}
	defer f.Close()
	return gif.EncodeAll(f, anim)
}

func statusColor(s factory.Status) uint8 {
	switch s {
	case factory.StatusBusy:
		return colBusy
	case factory.StatusBroken:
		return colBroken
	case factory.StatusMaintenance:
		return colMaintenance
	}
	return colIdle
}

func skillColor(bucket int) uint8 {
	switch bucket {
	case factory.SkillHigh:
		return colSkillHigh
	case factory.SkillLow:
		return colSkillLow
	}
	return colSkillMedium
}

func fillRect(img *image.Paletted, r image.Rectangle, c uint8) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetColorIndex(x, y, c)
		}
	}
}

func drawBorder(img *image.Paletted, r image.Rectangle) {
	r = r.Intersect(img.Bounds())
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetColorIndex(x, r.Min.Y, colBorder)
		img.SetColorIndex(x, r.Max.Y-1, colBorder)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetColorIndex(r.Min.X, y, colBorder)
		img.SetColorIndex(r.Max.X-1, y, colBorder)
	}
}
