package commands

import (
	"github.com/spf13/cobra"

	"github.com/TarikSercanESENKUL/Dinamik-Operat-r-Atamas-Q-Learning-ile-K-k-Bir-Fabrika-Oyunu/factory"
	"github.com/TarikSercanESENKUL/Dinamik-Operat-r-Atamas-Q-Learning-ile-K-k-Bir-Fabrika-Oyunu/rl"
)

var (
	episodes   int
	horizon    int
	seed       uint64
	outDir     string
	configFile string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "fabrika",
		Short: "Dynamic operator assignment on a simulated factory floor, learned with tabular Q-learning",
	}
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 5000, "Number of episodes to run")
	rootCommand.PersistentFlags().IntVar(&horizon, "horizon", 10000, "Step cap per episode")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 42, "Random seed")
	rootCommand.PersistentFlags().StringVarP(&outDir, "out", "o", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Scenario YAML file (demo scenario when empty)")
	// adding the subcommands here
	rootCommand.AddCommand(TrainCommand())
	rootCommand.AddCommand(EvalCommand())
	rootCommand.AddCommand(TestCommand())
	return rootCommand
}

// loadScenario reads the scenario file when one is given, the built-in demo
// floor otherwise.
func loadScenario() (factory.Config, error) {
	if configFile != "" {
		return factory.Load(configFile)
	}
	cfg := factory.DemoConfig()
	cfg.ApplyDefaults()
	return cfg, cfg.Validate()
}

// newAgent wires the scenario's learning parameters into an agent. The
// schedules decay over decayEpisodes and hold their floors afterwards.
func newAgent(cfg factory.Config, agentSeed uint64, decayEpisodes int) (*rl.QLearningAgent, error) {
	return rl.NewQLearningAgent(rl.AgentConfig{
		NumActions: cfg.NumActions(),
		Gamma:      cfg.Gamma,
		Epsilon:    rl.NewEpsilonSchedule(cfg.EpsilonStart, cfg.EpsilonEnd, decayEpisodes),
		Alpha:      rl.NewAlphaSchedule(cfg.AlphaStart, decayEpisodes),
		Seed:       agentSeed,
	})
}
