package notify

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/voxhire/interview-agent/internal/domain"
)

var recommendationColors = map[domain.Recommendation]string{
	domain.RecommendationInvite:    "#36a64f",
	domain.RecommendationReject:    "#ff0000",
	domain.RecommendationUndecided: "#ffaa00",
	domain.RecommendationError:     "#888888",
}

// Blocks builds the canonical Block Kit message. Every sink consumes this
// single builder so simulated and real delivery never diverge in content.
func (p *Payload) Blocks() []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plainText(p.headerText())),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			markdown(fmt.Sprintf("*Kandidat:* %s", p.CandidatePhone)),
			markdown(fmt.Sprintf("*Gesamtscore:* %.2f/10", p.Score)),
			markdown(fmt.Sprintf("*Call ID:* %s", p.CallID)),
			markdown(fmt.Sprintf("*Empfehlung:* %s", p.Recommendation)),
		}, nil),
	}

	if reason := p.reasonText(); reason != "" {
		blocks = append(blocks, markdownSection("*Begruendung:*\n"+reason))
	}
	if lines := p.dimensionLines(); len(lines) > 0 {
		blocks = append(blocks, markdownSection("*Einzelbewertungen:*\n"+strings.Join(lines, "\n")))
	}
	if p.Result != nil && p.Result.NextSteps != "" {
		blocks = append(blocks, markdownSection("*Naechste Schritte:*\n"+p.Result.NextSteps))
	}
	if p.TranscriptURL != "" {
		blocks = append(blocks, markdownSection(fmt.Sprintf("*Transkript:* <%s>", p.TranscriptURL)))
	}

	return blocks
}

func (p *Payload) headerText() string {
	return fmt.Sprintf("Interview abgeschlossen - %s", p.Recommendation)
}

func (p *Payload) color() string {
	if color, ok := recommendationColors[p.Recommendation]; ok {
		return color
	}
	return "#36a64f"
}

func (p *Payload) fallbackText() string {
	return fmt.Sprintf("Interview Result: %s", p.Recommendation)
}

// reasonText combines summary, strengths and weaknesses into one narrative
// section.
func (p *Payload) reasonText() string {
	if p.Result == nil {
		return ""
	}

	var sections []string
	if summary := strings.TrimSpace(p.Result.Summary); summary != "" {
		sections = append(sections, summary)
	}
	if items := bulletList(p.Result.Strengths); items != "" {
		sections = append(sections, "*Pluspunkte:*\n"+items)
	}
	if items := bulletList(p.Result.Weaknesses); items != "" {
		sections = append(sections, "*Zu beachten:*\n"+items)
	}

	return strings.TrimSpace(strings.Join(sections, "\n\n"))
}

// dimensionLines renders one line per dimension, in canonical order, with the
// comment when present.
func (p *Payload) dimensionLines() []string {
	if p.Result == nil {
		return nil
	}

	var lines []string
	for _, dim := range p.Result.Dimensions.List() {
		line := fmt.Sprintf("- %s: %.1f/10", dim.Name, dim.Score.Score)
		if comment := strings.TrimSpace(dim.Score.Comment); comment != "" {
			line += fmt.Sprintf(" (%s)", comment)
		}
		lines = append(lines, line)
	}
	return lines
}

func bulletList(items []string) string {
	var lines []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			lines = append(lines, "- "+item)
		}
	}
	return strings.Join(lines, "\n")
}

func plainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, false, false)
}

func markdown(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

func markdownSection(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(markdown(text), nil, nil)
}

func errorText(message, callID string) string {
	if callID == "" {
		callID = "Unknown"
	}
	return fmt.Sprintf("FEHLER: Interview System Error\n%s\nCall ID: %s", message, callID)
}
