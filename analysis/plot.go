package analysis

import (
	"fmt"
	"os"
	"path"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/TarikSercanESENKUL/Dinamik-Operat-r-Atamas-Q-Learning-ile-K-k-Bir-Fabrika-Oyunu/rl"
)

// PlotTrainingCurves writes the standard training PNGs into dir: episode
// returns with a smoothed overlay, production against the daily target,
// the exploration schedule and state-space coverage.
func PlotTrainingCurves(stats []rl.EpisodeStats, coverage []int, target int, dir string) error {
	if _, err := os.Stat(dir); err != nil {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}
	returns := Returns(stats)
	if err := plotSeries(path.Join(dir, "returns.png"), "Episode returns", "Episode", "Return",
		series{"return", returns},
		series{"avg(100)", MovingAverage(returns, 100)},
	); err != nil {
		return fmt.Errorf("plot returns: %w", err)
	}

	produced := Produced(stats)
	targetLine := make([]float64, len(produced))
	for i := range targetLine {
		targetLine[i] = float64(target)
	}
	if err := plotSeries(path.Join(dir, "production.png"), "Good parts per episode", "Episode", "Parts",
		series{"produced", produced},
		series{"avg(100)", MovingAverage(produced, 100)},
		series{"target", targetLine},
	); err != nil {
		return fmt.Errorf("plot production: %w", err)
	}

	if err := plotSeries(path.Join(dir, "epsilon.png"), "Exploration schedule", "Episode", "Epsilon",
		series{"epsilon", Epsilons(stats)},
	); err != nil {
		return fmt.Errorf("plot epsilon: %w", err)
	}

	cov := make([]float64, len(coverage))
	for i, c := range coverage {
		cov[i] = float64(c)
	}
	if err := plotSeries(path.Join(dir, "coverage.png"), "Unique states visited", "Episode", "States",
		series{"coverage", cov},
	); err != nil {
		return fmt.Errorf("plot coverage: %w", err)
	}
	return nil
}

type series struct {
	name   string
	values []float64
}

func plotSeries(file, title, xLabel, yLabel string, all ...series) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	for i, s := range all {
		points := make(plotter.XYs, len(s.values))
		for j, v := range s.values {
			points[j] = plotter.XY{X: float64(j), Y: v}
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			continue
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}
	return p.Save(8*vg.Inch, 8*vg.Inch, file)
}
