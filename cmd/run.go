package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wayss000/Inner-See-sub000/internal/app"
	"github.com/wayss000/Inner-See-sub000/internal/config"
	"github.com/wayss000/Inner-See-sub000/internal/logger"
)

// openApp loads configuration, applies flag overrides and builds every
// dependency. Callers must Close the returned App.
func openApp(cmd *cobra.Command) (*app.App, error) {
	ctx := cmd.Context()

	var envFiles []string
	if f, _ := cmd.Flags().GetString("env-file"); f != "" {
		envFiles = append(envFiles, f)
	}
	cfg, err := config.Load(nil, envFiles...)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if p, _ := cmd.Flags().GetString("question-bank"); p != "" {
		cfg.QuestionBankPath = p
	}

	log, err := newLogger(cmd, cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.WatchResume(ctx)
	return a, nil
}

// closeApp prints the collected metrics to stderr when --metrics is set and
// releases the app.
func closeApp(cmd *cobra.Command, a *app.App) {
	if show, _ := cmd.Flags().GetBool("metrics"); show {
		if err := a.WriteMetrics(os.Stderr); err != nil {
			a.Log.Warn("write metrics failed", "error", err.Error())
		}
	}
	if err := a.Close(); err != nil {
		a.Log.Warn("close failed", "error", err.Error())
	}
}

func newLogger(cmd *cobra.Command, mode string) (*logger.Logger, error) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return logger.New("dev")
	}
	if mode == "" {
		return logger.Nop(), nil
	}
	return logger.New(mode)
}
