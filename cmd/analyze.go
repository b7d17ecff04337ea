package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-rater/internal/analysis"
	"github.com/spigell/resume-rater/internal/export"
	"github.com/spigell/resume-rater/internal/render"
	"github.com/spigell/resume-rater/internal/session"
	"github.com/spigell/resume-rater/internal/theme"
	"github.com/spigell/resume-rater/internal/upload"
)

const (
	PromptViewAll     = "View full report"
	PromptExport      = "Export report"
	PromptToggleTheme = "Toggle theme"
	PromptNewResume   = "Analyze a new resume"
	PromptTryAgain    = "Try the same file again"
	PromptQuit        = "Quit"
	promptViewPrefix  = "View: "
	defaultExportPath = "resume-report.xlsx"
)

var errExit = errors.New("exit requested")

var analyzeCmd = &cobra.Command{
	Use:   "analyze [FILE]",
	Short: "Send a resume to the analysis service and explore the report",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolP("no-interactive", "n", false, "analyze once, print the report and exit")
	analyzeCmd.Flags().StringP("output", "o", string(render.FormatText), "report format: text, json or yaml")
	analyzeCmd.Flags().StringP("export", "e", "", "write the report to a .xlsx or .json file")
	analyzeCmd.Flags().String("theme", string(theme.Default), "color theme: dark or light")
	analyzeCmd.Flags().Bool("no-color", false, "disable colored output")
	analyzeCmd.Flags().String("job-title", "", "target role to tailor the analysis to")
	analyzeCmd.Flags().Bool("check-health", false, "query the service health endpoint before submitting")

	viper.BindPFlag("output", analyzeCmd.Flags().Lookup("output"))
	viper.BindPFlag("theme", analyzeCmd.Flags().Lookup("theme"))
	viper.BindPFlag("job-title", analyzeCmd.Flags().Lookup("job-title"))
}

// analyze is the main command for the cli.
func analyze(cmd *cobra.Command, args []string) {
	logger := newLogger()
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting the resume-rater",
		zap.String("version", version),
		zap.String("service", config.Service.URL),
		zap.Duration("timeout", config.Service.Timeout),
	)

	format, err := render.ParseFormat(config.Output)
	if err != nil {
		logger.Fatal("parsing output format", zap.Error(err))
	}

	selected, err := theme.Parse(config.Theme)
	if err != nil {
		logger.Fatal("parsing theme", zap.Error(err))
	}
	theme.Set(selected)

	token, err := resolveToken(config)
	if err != nil {
		logger.Fatal(
			"loading analysis service token",
			zap.Error(err),
			zap.String("hint", "set RESUME_RATER_TOKEN or the 'service.token-file' key in the configuration file"),
		)
	}

	client := analysis.New(logger, config.Service.URL,
		analysis.WithToken(token),
		analysis.WithUserAgent(config.Service.UserAgent),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if flagBool(cmd, "check-health") {
		status, err := client.Health(ctx)
		if err != nil {
			logger.Fatal("analysis service is not healthy", zap.Error(err))
		}
		logger.Info("analysis service health", zap.String("status", status))
	}

	opts := []session.Option{
		session.WithLogger(logger),
		session.WithNotifier(logNotifier(logger)),
		session.WithTimeout(config.Service.Timeout),
		session.WithJobTitle(config.JobTitle),
		session.WithValidator(upload.New(upload.DefaultRules()...)),
	}

	exportPath := strings.TrimSpace(flagString(cmd, "export"))
	if exportPath != "" {
		exp, err := export.ForPath(exportPath)
		if err != nil {
			logger.Fatal("preparing export", zap.Error(err))
		}
		opts = append(opts, session.WithExporter(exp))
	}

	machine := session.New(client, opts...)
	watchSignals(machine, stop, logger)

	renderOpts := render.Options{
		Color: !flagBool(cmd, "no-color") && format == render.FormatText && readline.IsTerminal(int(os.Stdout.Fd())),
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	}

	if flagBool(cmd, "no-interactive") {
		if err := analyzeOnce(ctx, machine, path, format, renderOpts, exportPath); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	if err := interactive(ctx, machine, path, renderOpts, logger); err != nil && !errors.Is(err, errExit) {
		logger.Fatal("exiting", zap.Error(err))
	}
}

func analyzeOnce(ctx context.Context, machine *session.Machine, path string, format render.Format, opts render.Options, exportPath string) error {
	if path == "" {
		return errors.New("a resume file is required with --no-interactive")
	}

	f, err := upload.Stat(path)
	if err != nil {
		return err
	}

	if err := machine.Submit(ctx, f); err != nil {
		return err
	}

	opts.Theme = theme.Get()
	if err := render.Write(os.Stdout, machine.Snapshot().Report, format, opts); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	if exportPath != "" {
		return exportReport(machine, exportPath, nil)
	}

	return nil
}

func interactive(ctx context.Context, machine *session.Machine, path string, opts render.Options, logger *zap.Logger) error {
	for {
		if ctx.Err() != nil {
			return errExit
		}

		snap := machine.Snapshot()

		var err error
		switch snap.State {
		case session.StateIdle:
			path, err = submitInteractive(ctx, machine, path, logger)
		case session.StateSucceeded:
			err = reportMenu(machine, opts, logger)
		case session.StateFailed:
			path, err = failureMenu(machine, snap)
		default:
			return fmt.Errorf("unexpected state %s", snap.State)
		}

		if err != nil {
			return err
		}
	}
}

func submitInteractive(ctx context.Context, machine *session.Machine, path string, logger *zap.Logger) (string, error) {
	if path == "" {
		filePrompt := promptui.Prompt{
			Label: "Resume file (PDF, DOC, DOCX or TXT, max 10MB)",
			Validate: func(input string) error {
				f, err := upload.Stat(input)
				if err != nil {
					return err
				}
				return machine.Validate(f)
			},
		}

		input, err := filePrompt.Run()
		if err != nil {
			return "", promptErr(err)
		}
		path = input
	}

	f, err := upload.Stat(path)
	if err != nil {
		logger.Error("reading resume file", zap.Error(err))
		return "", nil
	}

	err = machine.Submit(ctx, f)

	var (
		validationErr *upload.ValidationError
		failedErr     *session.FailedError
	)
	switch {
	case err == nil, errors.As(err, &failedErr):
		return "", nil
	case errors.As(err, &validationErr):
		// Already reported through the notifier.
		return "", nil
	default:
		return "", err
	}
}

func reportMenu(machine *session.Machine, opts render.Options, logger *zap.Logger) error {
	items := make([]string, 0, len(render.Sections)+5)
	for _, s := range render.Sections {
		items = append(items, promptViewPrefix+string(s))
	}
	items = append(items, PromptViewAll, PromptExport, fmt.Sprintf("%s (%s)", PromptToggleTheme, theme.Get()), PromptNewResume, PromptQuit)

	menu := promptui.Select{
		Label: "What next?",
		Items: items,
		Size:  len(items),
	}

	_, action, err := menu.Run()
	if err != nil {
		return promptErr(err)
	}

	return handleAction(action, machine, opts, logger)
}

func handleAction(action string, machine *session.Machine, opts render.Options, logger *zap.Logger) error {
	opts.Theme = theme.Get()

	switch {
	case strings.HasPrefix(action, promptViewPrefix):
		opts.Sections = []render.Section{render.Section(strings.TrimPrefix(action, promptViewPrefix))}
		return render.Text(os.Stdout, machine.Snapshot().Report, opts)
	case action == PromptViewAll:
		return render.Text(os.Stdout, machine.Snapshot().Report, opts)
	case action == PromptExport:
		exportPrompt := promptui.Prompt{
			Label:   "Export to (.xlsx or .json)",
			Default: defaultExportPath,
			Validate: func(input string) error {
				_, err := export.FormatForPath(input)
				return err
			},
		}

		path, err := exportPrompt.Run()
		if err != nil {
			return promptErr(err)
		}

		exp, err := export.ForPath(path)
		if err != nil {
			return err
		}

		if err := exportReport(machine, path, exp); err != nil {
			logger.Error("exporting report", zap.Error(err))
			return nil
		}
		logger.Info("report exported", zap.String("filename", path))
		return nil
	case strings.HasPrefix(action, PromptToggleTheme):
		logger.Info("theme switched", zap.String("theme", string(theme.Toggle())))
		return nil
	case action == PromptNewResume:
		return machine.Reset()
	case action == PromptQuit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func failureMenu(machine *session.Machine, snap session.Snapshot) (string, error) {
	menu := promptui.Select{
		Label: fmt.Sprintf("Analysis failed: %s", snap.Failure),
		Items: []string{PromptTryAgain, PromptNewResume, PromptQuit},
	}

	_, action, err := menu.Run()
	if err != nil {
		return "", promptErr(err)
	}

	return handleFailureAction(action, machine, snap)
}

// handleFailureAction returns the path to submit next; empty means ask.
func handleFailureAction(action string, machine *session.Machine, snap session.Snapshot) (string, error) {
	switch action {
	case PromptTryAgain:
		return snap.File.Path, machine.Reset()
	case PromptNewResume:
		return "", machine.Reset()
	default:
		return "", errExit
	}
}

// exportReport writes the current report to path. A nil exporter means the
// one the machine was configured with.
func exportReport(machine *session.Machine, path string, exp session.Exporter) error {
	if !machine.Snapshot().ExportEnabled {
		return session.ErrNoReport
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := machine.Export(f, exp); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func logNotifier(logger *zap.Logger) session.Notifier {
	return session.NotifierFunc(func(n session.Notification) {
		fields := []zap.Field{zap.String("message", n.Message)}
		if n.Destructive {
			logger.Warn(n.Title, fields...)
			return
		}
		logger.Info(n.Title, fields...)
	})
}

// watchSignals cancels an in-flight submission on the first interrupt. With
// nothing in flight it stops the whole command.
func watchSignals(machine *session.Machine, stop context.CancelFunc, logger *zap.Logger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigs {
			if machine.Cancel() {
				logger.Info("cancelling analysis", zap.String("signal", sig.String()))
				continue
			}
			stop()
			return
		}
	}()
}

func promptErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, io.EOF) {
		return errExit
	}
	return err
}

func flagBool(cmd *cobra.Command, name string) bool {
	flag := cmd.Flag(name)
	return flag != nil && strings.EqualFold(flag.Value.String(), "true")
}

func flagString(cmd *cobra.Command, name string) string {
	flag := cmd.Flag(name)
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}
