package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/ygrebnov/lightspeed/textfmt"
)

func newRunCommand(a *app) *cobra.Command {
	var env []string

	cmd := &cobra.Command{
		Use:   "run [flags] -- <command> [args...]",
		Short: "Run a command once on a worker",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, argv []string) error {
			kwargs, err := parseEnv(env)
			if err != nil {
				return err
			}
			d, err := a.dispatcher()
			if err != nil {
				return err
			}

			res, err := d.Run(cmd.Context(), execCommand, commandArgs(argv), kwargs)
			if err != nil {
				return err
			}
			a.log.Debug("command finished", "command", argv[0], "elapsed", res.Elapsed)

			return render(cmd.OutOrStdout(), a.cfg.Output, res, func(w io.Writer) error {
				_, err := io.WriteString(w, res.Output)
				return err
			})
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringArrayVarP(&env, "env", "e", nil, "Environment variable for the command in KEY=VALUE form (repeatable)")
	return cmd
}

// multiplyReport is the structured output of the multiply command.
type multiplyReport struct {
	Results []Result `json:"results" yaml:"results"`
	Stats   *Stats   `json:"stats,omitempty" yaml:"stats,omitempty"`
}

func newMultiplyCommand(a *app) *cobra.Command {
	var (
		env   []string
		count int
		stats bool
	)

	cmd := &cobra.Command{
		Use:   "multiply [flags] -- <command> [args...]",
		Short: "Run a command count times in parallel and print the outputs in submission order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, argv []string) error {
			kwargs, err := parseEnv(env)
			if err != nil {
				return err
			}
			d, err := a.dispatcher()
			if err != nil {
				return err
			}

			results, err := d.Multiplier(cmd.Context(), execCommand, count, commandArgs(argv), kwargs)
			if err != nil {
				return err
			}
			a.log.Debug("commands finished", "command", argv[0], "count", len(results))

			report := multiplyReport{Results: results}
			if stats {
				s := latencyStats(results)
				report.Stats = &s
			}

			return render(cmd.OutOrStdout(), a.cfg.Output, report, func(w io.Writer) error {
				for _, r := range results {
					if _, err := io.WriteString(w, r.Output); err != nil {
						return err
					}
				}
				if report.Stats != nil {
					_, err := fmt.Fprintln(w, report.Stats.String())
					return err
				}
				return nil
			})
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringArrayVarP(&env, "env", "e", nil, "Environment variable for the command in KEY=VALUE form (repeatable)")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of invocations")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print latency percentiles of the invocations")
	return cmd
}

var profiles = map[string]termenv.Profile{
	"truecolor": termenv.TrueColor,
	"ansi256":   termenv.ANSI256,
	"ansi":      termenv.ANSI,
	"ascii":     termenv.Ascii,
}

func newFormatCommand() *cobra.Command {
	var (
		style   textfmt.Style
		profile string
	)

	cmd := &cobra.Command{
		Use:   "format <message...>",
		Short: "Print a message with colours and text attributes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, words []string) error {
			p, err := resolveProfile(cmd.OutOrStdout(), profile)
			if err != nil {
				return err
			}
			msg := textfmt.FormatText(strings.Join(words, " "), style, textfmt.WithProfile(p))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&style.Color, "color", "", "Foreground colour: a name such as red or bright_blue, or rgb(r,g,b)")
	f.StringVar(&style.Background, "bg", "", "Background colour, same forms as --color")
	f.BoolVar(&style.Bold, "bold", false, "Bold text")
	f.BoolVar(&style.Italic, "italic", false, "Italic text")
	f.BoolVar(&style.Underline, "underline", false, "Underlined text")
	f.StringVar(&profile, "profile", "auto", "Colour profile: auto, truecolor, ansi256, ansi or ascii")
	return cmd
}

// resolveProfile detects the profile of w for "auto".
func resolveProfile(w io.Writer, name string) (termenv.Profile, error) {
	name = strings.ToLower(name)
	if name == "" || name == "auto" {
		return termenv.NewOutput(w).EnvColorProfile(), nil
	}
	p, ok := profiles[name]
	if !ok {
		return termenv.Ascii, fmt.Errorf("unknown colour profile %q", name)
	}
	return p, nil
}
