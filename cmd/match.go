package main

import (
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/match-cli/internal/export"
	"github.com/sells-group/match-cli/internal/model"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank stored companies against an ICP",
	Long: `Rank stored companies against an ideal customer profile.

The profile comes from a saved template (--template-id), a YAML file
(--template-file), or inline criteria. Inline criteria use the form
field=value:weight; list values separate items with "|".

Examples:
  # Inline criteria
  match -c country=Netherlands:9 -c profileType=Distributor:7

  # List value and numeric value
  match -c "keywords=logistics|freight:5" -c numberOfEmployees=100:3

  # From a template file, exported to xlsx
  match --template-file icp.yaml --format xlsx --output matches.xlsx

  # Saved template, pushed to Notion
  match --template-id icp-1234 --export-notion`,
	RunE: runMatch,
}

func init() {
	f := matchCmd.Flags()
	f.StringArrayP("criterion", "c", nil, "inline criterion as field=value:weight (repeatable)")
	f.String("template-id", "", "saved template id")
	f.String("template-file", "", "YAML template file")
	f.Float64("threshold", -1, "minimum match percentage (default from config)")
	f.Int("max-results", 0, "maximum candidates to retrieve (default from config)")
	f.String("format", "table", "output format: table, csv, or xlsx")
	f.String("output", "", "output file path (default: stdout; required for xlsx)")
	f.Bool("export-notion", false, "also export results to the configured Notion database")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	_, ranker := initEngine(st)

	templateID, _ := cmd.Flags().GetString("template-id")
	templateFile, _ := cmd.Flags().GetString("template-file")
	criteriaFlags, _ := cmd.Flags().GetStringArray("criterion")

	var template model.Template
	switch {
	case templateFile != "":
		t, err := loadTemplateFile(templateFile)
		if err != nil {
			return err
		}
		template = *t
	case templateID != "":
		t, err := st.GetTemplate(ctx, templateID)
		if err != nil {
			return err
		}
		template = *t
	case len(criteriaFlags) > 0:
		criteria := make([]model.Criterion, 0, len(criteriaFlags))
		for _, spec := range criteriaFlags {
			c, err := parseCriterion(spec)
			if err != nil {
				return err
			}
			criteria = append(criteria, c)
		}
		template = model.NewTemplate("Ad-hoc Match", criteria)
	default:
		return eris.New("match: provide --template-id, --template-file, or at least one --criterion")
	}

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	if threshold < 0 {
		threshold = cfg.Match.MinThreshold
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults <= 0 {
		maxResults = cfg.Match.MaxResults
	}

	resp, err := ranker.Rank(ctx, template, threshold, maxResults)
	if err != nil {
		return err
	}
	rows := export.Flatten(resp)

	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	if err := writeResults(cmd.OutOrStdout(), format, output, resp, rows); err != nil {
		return err
	}

	if exportNotion, _ := cmd.Flags().GetBool("export-notion"); exportNotion {
		exporter := initNotionExporter()
		if exporter == nil {
			return eris.New("match: notion export requested but notion.token / notion.export_db are not configured")
		}
		created, updated, err := exporter.Export(ctx, resp)
		if err != nil {
			return err
		}
		zap.L().Info("exported to notion", zap.Int("created", created), zap.Int("updated", updated))
	}

	return nil
}

// parseCriterion parses field=value:weight. Values containing "|" become
// lists; values that parse as numbers become numeric.
func parseCriterion(spec string) (model.Criterion, error) {
	eq := strings.Index(spec, "=")
	if eq <= 0 {
		return model.Criterion{}, eris.Errorf("match: invalid criterion %q, want field=value:weight", spec)
	}
	field := spec[:eq]
	rest := spec[eq+1:]

	weight := 5
	if colon := strings.LastIndex(rest, ":"); colon >= 0 {
		if w, err := strconv.Atoi(rest[colon+1:]); err == nil {
			weight = w
			rest = rest[:colon]
		}
	}
	if strings.TrimSpace(rest) == "" {
		return model.Criterion{}, eris.Errorf("match: criterion %q has no value", spec)
	}

	var value model.FieldValue
	switch {
	case strings.Contains(rest, "|"):
		parts := strings.Split(rest, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		value = model.ListValue(parts)
	default:
		if n, err := strconv.ParseFloat(rest, 64); err == nil {
			value = model.NumberValue(n)
		} else {
			value = model.StringValue(rest)
		}
	}

	return model.NewCriterion(field, value, weight), nil
}

// loadTemplateFile reads an ICP template from YAML.
func loadTemplateFile(path string) (*model.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "match: read template file %s", path)
	}
	var t model.Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrapf(err, "match: parse template file %s", path)
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(strings.TrimSuffix(path, ".yaml"), ".yml")
	}
	for i := range t.Criteria {
		c := &t.Criteria[i]
		if c.ID == "" {
			c.ID = "criterion-file-" + strconv.Itoa(i+1)
		}
		if c.Label == "" {
			c.Label = c.Field
		}
		// Weight 0 stays 0: the criterion is declared but inactive.
	}
	return &t, nil
}

func writeResults(stdout io.Writer, format, output string, resp *model.MatchResponse, rows []export.Row) error {
	switch format {
	case "table":
		w, closeFn, err := outputWriter(stdout, output)
		if err != nil {
			return err
		}
		defer closeFn()
		return export.WriteTable(w, resp, rows)
	case "csv":
		w, closeFn, err := outputWriter(stdout, output)
		if err != nil {
			return err
		}
		defer closeFn()
		return export.WriteCSV(w, rows)
	case "xlsx":
		if output == "" {
			return eris.New("match: --output is required for xlsx format")
		}
		return export.WriteXLSX(output, resp.TemplateName, rows)
	default:
		return eris.Errorf("match: unknown format %q", format)
	}
}

func outputWriter(stdout io.Writer, output string) (io.Writer, func(), error) {
	if output == "" {
		return stdout, func() {}, nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "match: create output file %s", output)
	}
	return f, func() { f.Close() }, nil
}
