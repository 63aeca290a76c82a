package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jenli/leadbot/core/telegram/format"
	"github.com/jenli/leadbot/internal/lead"
)

// SlackSink posts a block-kit lead card to a Slack incoming webhook.
type SlackSink struct {
	url    string
	client *http.Client
}

// NewSlackSink returns nil when no webhook is configured.
func NewSlackSink(url string, client *http.Client) *SlackSink {
	if url == "" {
		return nil
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &SlackSink{url: url, client: client}
}

func (s *SlackSink) Name() string { return "slack" }

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

func (s *SlackSink) Deliver(ctx context.Context, rec lead.Record) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Keep mrkdwn link syntax (<url|label>) literal instead of < escapes.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(struct {
		Blocks []slackBlock `json:"blocks"`
	}{Blocks: leadCard(rec)}); err != nil {
		return fmt.Errorf("encode card: %w", err)
	}
	return postJSON(ctx, s.client, s.url, buf.Bytes())
}

func leadCard(rec lead.Record) []slackBlock {
	from := rec.Name
	if from == "" {
		from = "user"
	}
	if rec.Username != nil {
		from = fmt.Sprintf("<https://t.me/%s|%s>", *rec.Username, from)
	}

	links := format.DerefString(&rec.StoreLinks, "—")
	if links == "" {
		links = "—"
	}
	country := lead.CountryGuess(links)
	if country == "" {
		country = "—"
	}

	mrkdwn := func(label, value string) slackText {
		if value == "" {
			value = "—"
		}
		return slackText{Type: "mrkdwn", Text: fmt.Sprintf("*%s:*\n%s", label, value)}
	}

	blocks := []slackBlock{
		{Type: "header", Text: &slackText{Type: "plain_text", Text: "🆕 JenLi — новый лид"}},
		{Type: "section", Fields: []slackText{
			mrkdwn("From", from),
			mrkdwn("Service", rec.Service),
			mrkdwn("Platform", format.DerefString(rec.Platform, "—")),
			mrkdwn("Store", lead.StoreKind(links)),
			mrkdwn("Country", country),
			mrkdwn("Goal", rec.Goal),
			mrkdwn("Budget", format.DerefString(rec.Budget, "—")),
			mrkdwn("Email", format.DerefString(rec.Email, "—")),
			mrkdwn("Lang", string(rec.Lang)),
			mrkdwn("Source", format.DerefString(rec.Source, "—")),
		}},
		{Type: "section", Text: &slackText{Type: "mrkdwn", Text: "*Links:*\n" + links}},
	}

	if notes := format.DerefString(rec.Notes, ""); notes != "" && notes != "—" {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "*Notes:*\n" + notes},
		})
	}
	return blocks
}
