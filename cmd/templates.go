package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/match-cli/internal/model"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage saved ICP templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		templates, err := st.ListTemplates(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, t := range templates {
			state := "active"
			if !t.Active {
				state = "inactive"
			}
			fmt.Fprintf(out, "%s\t%s\t%d criteria\t%s\n", t.ID, t.Name, len(t.Criteria), state)
		}
		fmt.Fprintf(out, "%d templates\n", len(templates))
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <template-id>",
	Short: "Print one template as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		template, err := st.GetTemplate(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(template), "templates: encode")
	},
}

var templatesSaveCmd = &cobra.Command{
	Use:   "save <file.yaml>",
	Short: "Save a template from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		template, err := loadTemplateFile(args[0])
		if err != nil {
			return err
		}
		if template.ID == "" {
			fresh := model.NewTemplate(template.Name, template.Criteria)
			fresh.Description = template.Description
			template = &fresh
		}
		if err := template.Validate(); err != nil {
			return err
		}

		if err := st.SaveTemplate(ctx, *template); err != nil {
			return eris.Wrapf(err, "templates: save %s", template.Name)
		}

		zap.L().Info("template saved", zap.String("id", template.ID), zap.String("name", template.Name))
		fmt.Fprintf(cmd.OutOrStdout(), "saved template %s (%s)\n", template.Name, template.ID)
		return nil
	},
}

func init() {
	templatesCmd.AddCommand(templatesListCmd, templatesShowCmd, templatesSaveCmd)
	rootCmd.AddCommand(templatesCmd)
}
