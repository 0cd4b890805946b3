package export

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/match-cli/internal/model"
	"github.com/sells-group/match-cli/pkg/notion"
)

// NotionExporter upserts ranked matches into a Notion database, one
// page per candidate keyed on Profile ID.
type NotionExporter struct {
	client notion.Client
	dbID   string
}

func NewNotionExporter(client notion.Client, dbID string) *NotionExporter {
	return &NotionExporter{client: client, dbID: dbID}
}

// Export writes every ranked match. The export database is scanned once
// up front and existing pages for a profile are refreshed in place, so
// repeated runs do not duplicate candidates. Returns the number of pages
// created and updated.
func (e *NotionExporter) Export(ctx context.Context, resp *model.MatchResponse) (created, updated int, err error) {
	pages, err := notion.QueryAll(ctx, e.client, e.dbID, nil)
	if err != nil {
		return 0, 0, eris.Wrap(err, "export: scan notion database")
	}
	existing := make(map[string]notionapi.ObjectID, len(pages))
	for i := range pages {
		if id := notion.PageProfileID(&pages[i]); id != "" {
			existing[id] = pages[i].ID
		}
	}

	rows := Flatten(resp)
	for _, row := range rows {
		props := pageProperties(resp.TemplateName, row)

		if pageID, ok := existing[row.ProfileID]; ok {
			_, err = e.client.UpdatePage(ctx, pageID.String(), &notionapi.PageUpdateRequest{
				Properties: props,
			})
			if err != nil {
				return created, updated, eris.Wrapf(err, "export: update notion page for %s", row.ProfileID)
			}
			updated++
			continue
		}

		_, err = e.client.CreatePage(ctx, &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(e.dbID),
			},
			Properties: props,
		})
		if err != nil {
			return created, updated, eris.Wrapf(err, "export: create notion page for %s", row.ProfileID)
		}
		created++
	}

	zap.L().Info("notion export complete",
		zap.String("template", resp.TemplateName),
		zap.Int("created", created),
		zap.Int("updated", updated))
	return created, updated, nil
}

func pageProperties(templateName string, r Row) notionapi.Properties {
	return notionapi.Properties{
		"Name":       titleProp(r.CompanyName),
		"Profile ID": richTextProp(r.ProfileID),
		"Template":   richTextProp(templateName),
		"Country":    richTextProp(r.Country),
		"Rank": notionapi.NumberProperty{
			Type:   notionapi.PropertyTypeNumber,
			Number: float64(r.Rank),
		},
		"Match %": notionapi.NumberProperty{
			Type:   notionapi.PropertyTypeNumber,
			Number: r.MatchPercentage,
		},
		"Completeness %": notionapi.NumberProperty{
			Type:   notionapi.PropertyTypeNumber,
			Number: r.DataCompleteness,
		},
		"Breakdown": richTextProp(r.Breakdown),
	}
}

func titleProp(v string) notionapi.TitleProperty {
	return notionapi.TitleProperty{
		Type: notionapi.PropertyTypeTitle,
		Title: []notionapi.RichText{
			{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: v}},
		},
	}
}

func richTextProp(v string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		Type: notionapi.PropertyTypeRichText,
		RichText: []notionapi.RichText{
			{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: v}},
		},
	}
}
