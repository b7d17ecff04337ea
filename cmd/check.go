package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-rater/internal/upload"
)

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Check resume files against the upload rules without sending them",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		check(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().Bool("rules", false, "print the upload rules")
}

func check(cmd *cobra.Command, args []string) {
	logger := newLogger()
	defer logger.Sync()

	validator := upload.New()
	out := cmd.OutOrStdout()

	if flagBool(cmd, "rules") {
		printRules(out, validator.Rules())
	}

	if len(args) == 0 {
		if !flagBool(cmd, "rules") {
			logger.Fatal("nothing to check", zap.String("hint", "pass one or more files or --rules"))
		}
		return
	}

	rejected := checkFiles(out, validator, args)
	if rejected > 0 {
		logger.Fatal("some files can not be uploaded", zap.Int("rejected", rejected), zap.Int("checked", len(args)))
	}

	logger.Debug("all files passed", zap.Int("checked", len(args)))
}

// checkFiles prints one line per path and returns how many were rejected.
func checkFiles(w io.Writer, validator *upload.Validator, paths []string) int {
	rejected := 0
	for _, path := range paths {
		f, err := upload.Stat(path)
		if err == nil {
			err = validator.Validate(f)
		}

		if err == nil {
			fmt.Fprintf(w, "ok\t%s\n", path)
			continue
		}

		rejected++

		var validationErr *upload.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprintf(w, "%s\t%s\t%s\n", validationErr.Reason, path, validationErr.Error())
			continue
		}
		fmt.Fprintf(w, "error\t%s\t%s\n", path, err)
	}

	return rejected
}

func printRules(w io.Writer, rules []upload.Rule) {
	for _, status := range upload.Describe(rules) {
		keys := make([]string, 0, len(status.Details))
		for k := range status.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		details := make([]string, 0, len(keys))
		for _, k := range keys {
			details = append(details, k+"="+status.Details[k])
		}

		fmt.Fprintf(w, "rule\t%s\t%s\n", status.Name, strings.Join(details, " "))
	}
}
