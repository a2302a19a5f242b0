package commands

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/TarikSercanESENKUL/Dinamik-Operat-r-Atamas-Q-Learning-ile-K-k-Bir-Fabrika-Oyunu/analysis"
	"github.com/TarikSercanESENKUL/Dinamik-Operat-r-Atamas-Q-Learning-ile-K-k-Bir-Fabrika-Oyunu/checkpoint"
	"github.com/TarikSercanESENKUL/Dinamik-Operat-r-Atamas-Q-Learning-ile-K-k-Bir-Fabrika-Oyunu/factory"
	"github.com/TarikSercanESENKUL/Dinamik-Operat-r-Atamas-Q-Learning-ile-K-k-Bir-Fabrika-Oyunu/rl"
	"github.com/TarikSercanESENKUL/Dinamik-Operat-r-Atamas-Q-Learning-ile-K-k-Bir-Fabrika-Oyunu/util"
)

// Train runs the full training pipeline: the learning loop, checkpointing,
// stats export, plots and an animation of the learned policy's day.
func Train(ctx context.Context, cfg factory.Config, episodes, horizon int, seed uint64, outDir, redisAddr string, progressEvery int) error {
	if err := util.EnsureDir(outDir); err != nil {
		return err
	}

	if episodes <= 0 {
		return fmt.Errorf("need at least one training episode, got %d", episodes)
	}
	env, err := factory.New(cfg, seed)
	if err != nil {
		return err
	}
	decay := cfg.DecayEpisodes
	if decay <= 0 {
		decay = episodes
	}
	agent, err := newAgent(cfg, seed+1, decay)
	if err != nil {
		return err
	}

	exp := rl.NewExperiment("q-learning", env, agent, rl.ExperimentConfig{
		Episodes:      episodes,
		Horizon:       horizon,
		ProgressEvery: progressEvery,
	})
	if err := exp.Run(ctx); err != nil {
		return err
	}

	if err := checkpoint.NewFileStore(path.Join(outDir, "q_table.json")).Save(agent.Table()); err != nil {
		return err
	}
	if redisAddr != "" {
		store := checkpoint.NewRedisStore(redisAddr, "fabrika:q_table")
		if err := store.Save(agent.Table()); err != nil {
			return fmt.Errorf("redis checkpoint: %w", err)
		}
		store.Close()
	}

	if err := writeEpisodeCSV(path.Join(outDir, "episodes.csv"), exp.Stats); err != nil {
		return err
	}
	scenario, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}
	if err := os.WriteFile(path.Join(outDir, "scenario.yaml"), scenario, 0644); err != nil {
		return err
	}

	if err := analysis.PlotTrainingCurves(exp.Stats, exp.Coverage, cfg.TargetPerDay, outDir); err != nil {
		return err
	}
	if err := analysis.WriteReport(exp.Stats, exp.Coverage, cfg.TargetPerDay, path.Join(outDir, "report.html")); err != nil {
		return err
	}

	// one recorded greedy day with the learned table, rendered to a GIF
	env.SetRecording(true)
	final, _ := rl.RunGreedyEpisode(env, agent, horizon)
	frames := env.History()
	env.SetRecording(false)
	if err := analysis.RenderTimelineGIF(frames, cfg, path.Join(outDir, "final_day.gif"), 10); err != nil {
		fmt.Printf("skipping animation: %v\n", err)
	}

	returns := analysis.Summarize(analysis.Returns(exp.Stats))
	line := runSummaryLine(time.Now(), episodes, seed, returns.Mean, final.Produced, cfg.TargetPerDay)
	if err := util.AppendLines(path.Join(outDir, "runs.log"), line); err != nil {
		return err
	}

	fmt.Printf("Best episode: %d (return %.2f)\n", exp.BestEpisode+1, exp.BestReturn)
	fmt.Printf("Returns: mean=%.2f std=%.2f min=%.2f max=%.2f\n",
		returns.Mean, returns.Std, returns.Min, returns.Max)
	fmt.Printf("Greedy day: produced %d/%d good parts, %d defective, return %.2f\n",
		final.Produced, cfg.TargetPerDay, final.Defective, final.Return)
	fmt.Printf("Unique states visited: %d, table entries: %d\n",
		exp.Coverage[len(exp.Coverage)-1], agent.Table().Len())
	fmt.Printf("Results written to %s\n", outDir)
	return nil
}

// runSummaryLine is one record in runs.log, the rolling history of training
// runs that accumulates across invocations sharing an output directory.
func runSummaryLine(when time.Time, episodes int, seed uint64, meanReturn float64, produced, target int) string {
	return fmt.Sprintf("%s episodes=%d seed=%d mean_return=%.2f greedy=%d/%d",
		when.Format(time.RFC3339), episodes, seed, meanReturn, produced, target)
}

func writeEpisodeCSV(path string, stats []rl.EpisodeStats) error {
	lines := make([]string, 0, len(stats)+1)
	lines = append(lines, "episode,return,produced,defective,steps,epsilon,alpha")
	for _, s := range stats {
		lines = append(lines, fmt.Sprintf("%d,%.4f,%d,%d,%d,%.4f,%.4f",
			s.Episode+1, s.Return, s.Produced, s.Defective, s.Steps, s.Epsilon, s.Alpha))
	}
	return util.WriteLines(path, lines...)
}

func TrainCommand() *cobra.Command {
	var redisAddr string
	var progressEvery int

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the assignment policy and write checkpoints, stats and plots",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadScenario()
			if err != nil {
				return err
			}
			return Train(cmd.Context(), cfg, episodes, horizon, seed, outDir, redisAddr, progressEvery)
		},
	}
	cmd.PersistentFlags().StringVar(&redisAddr, "redis", "", "Also checkpoint the value table to this Redis address")
	cmd.PersistentFlags().IntVar(&progressEvery, "progress-every", 500, "Print a stats line every N episodes (0 disables)")
	return cmd
}
