package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stratsim/communication/server"
	"stratsim/engine"
	"stratsim/game"
	"stratsim/player"
	"stratsim/scenario"
	"stratsim/transcript"
)

var rootCmd = &cobra.Command{
	Use:   "stratsim",
	Short: "Round-based strategic competition simulator",
	Long: `stratsim runs a multi-party strategic competition: each round every
participant proposes actions, an arbiter validates them with a bounded
correction loop, accepted actions are batch-resolved against a shared
economic model, and each participant receives its own view of what
happened. Participants are scripted by default or driven by remote
decision services over HTTP.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(serveCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("STRATSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(viper.GetBool("verbose"))
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx)
		},
	}
	cmd.Flags().StringP("scenario", "s", "", "scenario YAML file (built-in baseline if empty)")
	cmd.Flags().IntP("rounds", "r", 0, "number of rounds (overrides scenario)")
	cmd.Flags().Uint64("seed", 0, "random seed (overrides scenario)")
	cmd.Flags().String("transcript-dir", "", "write a JSONL transcript under this directory")
	cmd.Flags().String("csv", "", "export per-round participant metrics to this CSV file")
	cmd.Flags().BoolP("verbose", "v", false, "debug logging")
	for _, flag := range []string{"scenario", "rounds", "seed", "transcript-dir", "csv", "verbose"} {
		_ = viper.BindPFlag(flag, cmd.Flags().Lookup(flag))
	}
	return cmd
}

func run(ctx context.Context) error {
	s, err := loadScenario(viper.GetString("scenario"))
	if err != nil {
		return err
	}
	if rounds := viper.GetInt("rounds"); rounds > 0 {
		s.Rounds = rounds
	}
	if seed := viper.GetUint64("seed"); seed > 0 {
		s.Seed = seed
	}

	var tw *transcript.Writer
	if dir := viper.GetString("transcript-dir"); dir != "" {
		tw, err = transcript.NewWriter(dir)
		if err != nil {
			return err
		}
		defer tw.Close()
		log.Info().Str("run_id", tw.RunID()).Str("dir", dir).Msg("transcript enabled")
	}

	gm, err := s.Build(tw)
	if err != nil {
		return err
	}

	log.Info().Str("scenario", s.Name).Int("rounds", s.Rounds).Int("participants", len(gm.Roster)).Msg("simulation starting")
	history, err := engine.New(gm, s.Rounds).Run(ctx)
	if err != nil {
		return err
	}

	for _, summary := range history {
		fmt.Println(summary)
	}
	printStandings(gm.Roster, gm.State)

	if tw != nil {
		if path := viper.GetString("csv"); path != "" {
			if err := tw.ExportCSV(path); err != nil {
				return err
			}
			log.Info().Str("path", path).Msg("metrics exported")
		}
	}
	return nil
}

func loadScenario(path string) (*scenario.Scenario, error) {
	if path == "" {
		log.Info().Msg("no scenario file given, using the built-in baseline")
		return scenario.Default(), nil
	}
	return scenario.Load(path)
}

func printStandings(roster game.Roster, st *game.RoundState) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetTitle(fmt.Sprintf("Standings after round %d (%s)", st.Round, st.CurrentDate.Format("2006-01-02")))
	tw.AppendHeader(table.Row{"Participant", "Budget", "Technical", "Capital", "Human"})
	for _, p := range roster {
		tw.AppendRow(table.Row{
			p.Name,
			fmt.Sprintf("$%.0f", p.Private.CurrentBudget(st.CurrentDate)),
			fmt.Sprintf("%.1f", p.Private.Balance.Technical),
			fmt.Sprintf("$%.0f", p.Private.Balance.Capital),
			fmt.Sprintf("%.1f", p.Private.Balance.Human),
		})
	}
	tw.Render()
}

// serveCmd exposes the built-in scripted proposer as a decision service,
// mostly useful for trying out remote participants end to end.
func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <participant>",
		Short: "Serve a scripted decision service for one participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(viper.GetBool("verbose"))
			addr := viper.GetString("addr")
			return server.New(args[0], player.NewScripted(args[0])).ListenAndServe(addr)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().BoolP("verbose", "v", false, "debug logging")
	_ = viper.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("verbose", cmd.Flags().Lookup("verbose"))
	return cmd
}

func setupLogging(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}
