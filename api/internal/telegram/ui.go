package telegram

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/app"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/history"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/i18n"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/report"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/web"
)

// maxMessageRunes stays under Telegram's 4096 limit with room for the closing marker.
const maxMessageRunes = 3900

func resultKeyboard(st app.State) tgbotapi.InlineKeyboardMarkup {
	tabs := make([]tgbotapi.InlineKeyboardButton, 0, len(app.Tabs))
	for _, t := range app.Tabs {
		label := tabLabel(t, st.Lang)
		if t == st.Tab {
			label = "• " + label
		}
		tabs = append(tabs, tgbotapi.NewInlineKeyboardButtonData(label, cbTab+string(t)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tabs,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌐 "+st.Lang.Toggle().Label(), cbLang),
			tgbotapi.NewInlineKeyboardButtonData("🔄 "+i18n.T(st.Lang, i18n.ScanNew), cbNew),
		),
	)
}

func historyKeyboard(items []history.Item, lang i18n.Lang) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items))
	for _, it := range items {
		title := it.Analysis.TestType
		if title == "" {
			title = i18n.T(lang, i18n.MedicalReport)
		}
		dot := "🔴"
		if it.Analysis.OverallResult == report.ResultNormal {
			dot = "🟢"
		}
		label := fmt.Sprintf("%s %s · %s", dot, it.Date.Format("02 Jan"), title)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, cbHistory+it.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func tabLabel(t app.Tab, lang i18n.Lang) string {
	switch t {
	case app.TabDetails:
		return i18n.T(lang, i18n.TabDetails)
	case app.TabDoctors:
		return i18n.T(lang, i18n.TabDoctors)
	}
	return i18n.T(lang, i18n.TabSummary)
}

// page collects HTML lines and stops accepting them once the message budget is spent.
type page struct {
	lines []string
	n     int
	full  bool
}

func (p *page) addf(format string, args ...any) { p.line(fmt.Sprintf(format, args...)) }

func (p *page) line(line string) {
	if p.full {
		return
	}
	n := utf8.RuneCountInString(line) + 1
	if p.n+n > maxMessageRunes {
		p.full = true
		p.lines = append(p.lines, "…")
		return
	}
	p.lines = append(p.lines, line)
	p.n += n
}

func (p *page) String() string { return strings.Join(p.lines, "\n") }

var esc = html.EscapeString

// renderResult formats the result screen for the active tab in Telegram HTML.
func renderResult(v web.View) string {
	r := v.Result
	var p page
	p.addf("<b>%s</b>", esc(r.Patient))
	p.addf("%s • %s", esc(r.TestType), esc(r.Date))
	p.addf("%s: <b>%s</b> · %s: <b>%d/100</b>", esc(v.T(string(i18n.Risk))), esc(string(r.RiskLevel)),
		esc(v.T(string(i18n.HealthScore))), r.Score)
	p.addf("%s: %s", esc(v.T(string(i18n.PossibleDiagnosis))), esc(r.Diagnosis))
	p.line("")

	switch r.Tab {
	case app.TabDetails:
		p.addf("<b>%s</b>", esc(v.T(string(i18n.TabDetails))))
		for _, row := range r.Rows {
			mark := "✅"
			if row.Flagged {
				mark = "⚠️"
			}
			value := strings.TrimSpace(row.Value + " " + row.Unit)
			line := fmt.Sprintf("%s <b>%s</b>: %s", mark, esc(row.Name), esc(value))
			if row.Range != "" {
				line += fmt.Sprintf(" (%s)", esc(row.Range))
			}
			p.addf("%s · %s", line, esc(string(row.Status)))
			if row.Interpretation != "" {
				p.addf("    <i>%s</i>", esc(row.Interpretation))
			}
		}
	case app.TabDoctors:
		p.addf("<b>%s</b>: %s", esc(v.T(string(i18n.SpecialistNeeded))), esc(r.Specialist))
		d := r.Doctors
		switch {
		case len(d.Cards) > 0:
			p.addf("<i>%s</i>", esc(v.T(string(i18n.SimulatedDisclosure))))
			for _, c := range d.Cards {
				p.line("")
				p.addf("<b>%s</b> ⭐ %s", esc(c.Name), esc(c.Rating))
				p.addf("%s • %s", esc(c.Specialization), esc(c.Hospital))
				p.addf("📍 %s (%s)", esc(c.Address), esc(c.Distance))
				p.addf(`<a href="%s">%s</a>`, esc(c.MapURL), esc(v.T(string(i18n.BookDirections))))
			}
		case d.Searched:
			p.line(esc(v.T(string(i18n.NoDocsFound))))
			p.addf(`<a href="%s">%s</a>`, esc(d.FallbackURL), esc(d.FallbackText))
		default:
			p.line(esc(v.T(string(i18n.EnterPinPrompt))))
			p.line(esc(v.T(string(i18n.BotPinHint))))
		}
	default:
		p.addf("<b>%s</b>", esc(v.T(string(i18n.AIAnalysis))))
		p.line(esc(r.Summary))
		if len(r.Advice) > 0 {
			p.line("")
			p.addf("<b>%s</b>", esc(v.T(string(i18n.Advice))))
			for i, a := range r.Advice {
				p.addf("%d. %s", i+1, esc(a))
			}
		}
	}
	return p.String()
}
