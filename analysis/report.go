package analysis

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/TarikSercanESENKUL/Dinamik-Operat-r-Atamas-Q-Learning-ile-K-k-Bir-Fabrika-Oyunu/rl"
)

// WriteReport renders the training run as a single interactive HTML page:
// returns, production and coverage, one chart each.
func WriteReport(stats []rl.EpisodeStats, coverage []int, target int, path string) error {
	episodes := make([]string, len(stats))
	for i := range stats {
		episodes[i] = fmt.Sprintf("%d", i+1)
	}

	returns := Returns(stats)
	returnsChart := lineChart("Episode returns", episodes,
		lineSeries{"return", returns},
		lineSeries{"avg(100)", MovingAverage(returns, 100)},
	)

	produced := Produced(stats)
	targetLine := make([]float64, len(produced))
	for i := range targetLine {
		targetLine[i] = float64(target)
	}
	productionChart := lineChart("Good parts per episode", episodes,
		lineSeries{"produced", produced},
		lineSeries{"target", targetLine},
	)

	cov := make([]float64, len(coverage))
	for i, c := range coverage {
		cov[i] = float64(c)
	}
	coverageChart := lineChart("Unique states visited", episodes,
		lineSeries{"coverage", cov},
	)

	page := components.NewPage()
	page.AddCharts(returnsChart, productionChart, coverageChart)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer f.Close()
	return page.Render(f)
}

type lineSeries struct {
	name   string
	values []float64
}

func lineChart(title string, xAxis []string, all ...lineSeries) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)
	line = line.SetXAxis(xAxis)
	for _, s := range all {
		items := make([]opts.LineData, len(s.values))
		for i, v := range s.values {
			items[i] = opts.LineData{Value: v}
		}
		line.AddSeries(s.name, items)
	}
	return line
}
