// microbench times shell commands and writes a latency report.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/violenttestpen/microbench"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flagCfg config
	var configPath string

	cmd := &cobra.Command{
		Use:          "microbench [flags] <command>...",
		Short:        "Benchmark commands and report latency percentiles",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaultConfig()
			title := "microbench"
			if configPath != "" {
				if err := loadConfig(configPath, &cfg); err != nil {
					return err
				}
				title = filepath.Base(configPath)
			}
			mergeFlags(cmd.Flags(), flagCfg, &cfg)
			for _, arg := range args {
				cfg.Commands = append(cfg.Commands, commandSpec{Name: arg, Cmd: arg})
			}

			if cfg.NoColor {
				color.NoColor = true
			}
			return run(cmd.Context(), cfg, title, color.Output, isTerminal(os.Stdout))
		},
	}
	bindFlags(cmd.Flags(), &flagCfg, &configPath)
	return cmd
}

func runSetup(ctx context.Context, cfg config) error {
	cmdParts := commandLine(cfg, cfg.Setup)
	if len(cmdParts) == 0 {
		return errors.New("empty command string")
	}
	return exec.CommandContext(ctx, cmdParts[0], cmdParts[1:]...).Run()
}

func commandLine(cfg config, cmd string) []string {
	if strings.TrimSpace(cmd) == "" {
		return nil
	}
	if cfg.NoShell || cfg.Shell == "" {
		return list2Cmdline(cmd)
	}
	return shellArgs(cfg.Shell, cmd)
}

// childUsage totals the CPU time of the commands a task has run, so the
// harness can charge a benchmark for its children instead of for itself.
type childUsage struct {
	user   time.Duration
	system time.Duration
}

func (u *childUsage) add(state *os.ProcessState) {
	if state == nil {
		return
	}
	u.user += state.UserTime()
	u.system += state.SystemTime()
}

func (u *childUsage) clock() (time.Duration, time.Duration, error) {
	return u.user, u.system, nil
}

// commandTask runs spec once per invocation, adding each process's CPU time
// to usage. Its value is the command's standard output.
func commandTask(cfg config, spec commandSpec, usage *childUsage) (microbench.Task, error) {
	cmdParts := commandLine(cfg, spec.Cmd)
	if len(cmdParts) == 0 {
		return microbench.Task{}, errors.Errorf("benchmark %q: empty command string", spec.Name)
	}
	name := spec.Name
	if name == "" {
		name = spec.Cmd
	}
	return microbench.Task{
		Name: name,
		Fn: func(ctx context.Context) (any, error) {
			var stdout bytes.Buffer
			c := exec.CommandContext(ctx, cmdParts[0], cmdParts[1:]...)
			c.Stdout = &stdout
			err := c.Run()
			usage.add(c.ProcessState)
			return stdout.String(), err
		},
	}, nil
}

func run(ctx context.Context, cfg config, title string, out io.Writer, interactive bool) error {
	if len(cfg.Commands) == 0 {
		return errors.New("no commands to benchmark")
	}

	logger := log.New(os.Stderr, "microbench: ", 0)
	if !cfg.Verbose {
		logger.SetOutput(io.Discard)
	}

	if cfg.Setup != "" {
		if err := runSetup(ctx, cfg); err != nil {
			return errors.Wrap(err, "an error occurred during setup")
		}
	}

	results := make([]microbench.Result, 0, len(cfg.Commands))
	var failed int
	for i, spec := range cfg.Commands {
		usage := &childUsage{}
		task, err := commandTask(cfg, spec, usage)
		if err != nil {
			fmt.Fprintln(os.Stderr, "An error occurred during benchmark:", err)
			failed++
			continue
		}
		fmt.Fprintf(out, "Benchmark #%d: %s\n", i+1, task.Name)

		opts := []microbench.Option{
			microbench.WithWarmup(cfg.Warmup),
			microbench.WithRepeat(cfg.Runs),
			microbench.WithValidity(cfg.Valid),
			microbench.WithCPUClock(usage.clock),
		}
		if interactive {
			opts = append(opts, microbench.WithProgress(progressPrinter(out)))
		}
		result, err := microbench.Run(ctx, task, opts...)
		if interactive {
			clearCurrentTerminalLine(out)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "An error occurred during benchmark:", err)
			failed++
			continue
		}
		printResult(out, result, cfg.Runs)
		logger.Printf("%s: user %s, system %s per run", result.Name,
			microbench.FormatDuration(result.UserTime), microbench.FormatDuration(result.SystemTime))
		results = append(results, result)
	}

	if len(results) > 0 {
		report := reportAt(cfg.Report, title)
		if err := report.Write(out, results, !color.NoColor); err != nil {
			return err
		}
		logger.Printf("report written to %s", report.Path())
		if summary := microbench.FormatComparison(results); summary != "" {
			fmt.Fprintln(out)
			fmt.Fprint(out, summary)
		}
		if cfg.JSON {
			if err := microbench.WriteJSON(out, results); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return errors.Errorf("%d of %d benchmarks failed", failed, len(cfg.Commands))
	}
	return nil
}

func reportAt(path, title string) microbench.Report {
	base := filepath.Base(path)
	return microbench.Report{
		Dir:   filepath.Dir(path),
		Name:  strings.TrimSuffix(base, filepath.Ext(base)),
		Title: title,
	}
}

func progressPrinter(out io.Writer) microbench.ProgressFunc {
	return func(done, total int, avg float64) {
		eta := time.Duration(avg * float64(total-done) * float64(time.Millisecond))
		clearCurrentTerminalLine(out)
		line := fmt.Sprintf("Current estimate: %s ", color.GreenString("%s", microbench.FormatTime(avg)))
		printProgressLine(out, line, float64(done)/float64(total), eta)
	}
}

func printResult(out io.Writer, result microbench.Result, runs int) {
	fmt.Fprintf(out, "  Time (%s ± %s):\t%s ± %s\t%s\n",
		color.GreenString("mean"),
		color.GreenString("σ"),
		color.GreenString("%s", microbench.FormatTime(result.Avg)),
		color.GreenString("%s", microbench.FormatTime(result.StdDev)),
		fmt.Sprintf("[User: %s, System: %s]",
			color.CyanString("%s", microbench.FormatDuration(result.UserTime)),
			color.CyanString("%s", microbench.FormatDuration(result.SystemTime))))
	fmt.Fprintf(out, "  Range (%s … %s):\t%s … %s\t%s\n",
		color.CyanString("min"),
		color.RedString("max"),
		color.CyanString("%s", microbench.FormatTime(result.Min)),
		color.RedString("%s", microbench.FormatTime(result.Max)),
		color.HiBlackString("%d runs", runs))
	fmt.Fprintln(out)
}
