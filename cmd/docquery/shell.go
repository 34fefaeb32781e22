package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/docquery-go/docquery/queryservice"
)

const (
	historyFileName = ".docquery_history"
	prompt          = "docquery> "

	logMsgHistoryFailed = "failed to persist shell history"
)

func newShellCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shell; exit with exit, quit, or Ctrl-D",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.close()

			svc, err := a.newService(eng.collection)
			if err != nil {
				return err
			}

			return a.repl(cmd.Context(), svc, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func (a *app) repl(ctx context.Context, svc *queryservice.Service, out, errOut io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completer(svc.Collection()))

	historyPath := historyFile()
	if f, err := os.Open(historyPath); err == nil {
		_, _ = line.ReadHistory(f)
		_ = f.Close()
	}

	defer a.writeHistory(line, historyPath)

	for {
		input, err := line.Prompt(prompt)

		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case errors.Is(err, io.EOF):
			_, _ = fmt.Fprintln(out)
			return nil
		case err != nil:
			return err
		}

		statement := strings.TrimSpace(input)

		switch statement {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		line.AppendHistory(statement)

		result, queryErr := svc.QueryJSON(ctx, statement)
		if queryErr != nil {
			_, _ = fmt.Fprintf(errOut, "query failed: %v\n", queryErr)
			continue
		}

		_, _ = fmt.Fprintln(out, string(result))
	}
}

func (a *app) writeHistory(line *liner.State, path string) {
	f, err := os.Create(path)
	if err != nil {
		a.logger.Debug(logMsgHistoryFailed, logAttrError, err.Error())
		return
	}
	defer f.Close()

	if _, err := line.WriteHistory(f); err != nil {
		a.logger.Debug(logMsgHistoryFailed, logAttrError, err.Error())
	}
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFileName
	}

	return filepath.Join(home, historyFileName)
}

// completer offers the statement skeletons for collection.
func completer(collection string) liner.Completer {
	candidates := []string{
		"db." + collection + ".count()",
		"db." + collection + ".find({})",
		"exit",
		"quit",
	}

	return func(input string) []string {
		var matches []string

		for _, candidate := range candidates {
			if strings.HasPrefix(candidate, input) {
				matches = append(matches, candidate)
			}
		}

		return matches
	}
}
