package main

import (
	"context"
	"fmt"
	"io"

	"github.com/quantumx/qvr-backend/internal/services"
	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/store"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <id>",
	Short: "Report whether a record exists and is published",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		backend, err := services.OpenBackend(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		published, err := checkDocument(cmd.Context(), store.New(backend, logger), args[0], cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if !published {
			return fmt.Errorf("document %s is not published", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkDocument prints the record summary and reports whether it is visible on the public list.
func checkDocument(ctx context.Context, repo *store.Repository, id string, out io.Writer) (bool, error) {
	res := repo.GetByID(ctx, id)
	if !res.Success {
		if res.Kind() == store.KindNotFound {
			return false, fmt.Errorf("document %s not found", id)
		}
		return false, fmt.Errorf("failed to fetch document %s: %s", id, res.Error)
	}

	v := res.Data
	fmt.Fprintf(out, "id:           %s\n", v.ID)
	fmt.Fprintf(out, "name:         %s\n", v.Name)
	fmt.Fprintf(out, "organization: %s\n", v.Organization)
	fmt.Fprintf(out, "score:        %g\n", v.Score)
	fmt.Fprintf(out, "status:       %s\n", v.Status)
	if res.Demo {
		fmt.Fprintln(out, "source:       demo dataset (no backend configured)")
	}

	if v.Status != model.StatusVerified {
		fmt.Fprintf(out, "not published: status must be %q\n", model.StatusVerified)
		return false, nil
	}
	fmt.Fprintln(out, "published")
	return true, nil
}
