package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/match-cli/internal/ingest"
)

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "Inspect and load stored company entities",
}

var entitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored entities",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		entities, err := st.ListEntities(ctx, limit)
		if err != nil {
			return err
		}
		total, err := st.CountEntities(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, e := range entities {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\n",
				e.ProfileID, e.Name(), e.CompanyDetails.Country, e.Classification.ProfileType)
		}
		fmt.Fprintf(out, "%d of %d entities\n", len(entities), total)
		return nil
	},
}

var entitiesGetCmd = &cobra.Command{
	Use:   "get <profile-id>",
	Short: "Print one entity as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		entity, err := st.GetEntity(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(entity), "entities: encode")
	},
}

var entitiesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load entities from a JSON, CSV, or XLSX file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		entityCh, errCh := ingest.ReadFile(ctx, args[0])

		imported := 0
		for e := range entityCh {
			if e.ProfileID == "" {
				zap.L().Warn("skipping entity without profileId", zap.String("name", e.Name()))
				continue
			}
			if err := st.UpsertEntity(ctx, e); err != nil {
				return err
			}
			imported++
		}
		if err := <-errCh; err != nil {
			return err
		}

		zap.L().Info("entities imported", zap.Int("count", imported), zap.String("file", args[0]))
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d entities\n", imported)
		return nil
	},
}

func init() {
	entitiesListCmd.Flags().Int("limit", 50, "maximum entities to list")
	entitiesCmd.AddCommand(entitiesListCmd, entitiesGetCmd, entitiesImportCmd)
	rootCmd.AddCommand(entitiesCmd)
}
