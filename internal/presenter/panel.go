package presenter

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"marketplace-scout/internal/models"
)

// PanelID is the DOM id of the injected overlay. The self-healing observer
// watches for exactly this element disappearing.
const PanelID = "scout-overlay"

// ScamWarnThreshold puts the red banner on the panel.
const ScamWarnThreshold = 7

// BuildPendingPanel renders the placeholder shown before a listing has
// scores.
func BuildPendingPanel() string {
	return `
	<div style="position: fixed; top: 20px; left: 20px; background: #1c1e21; border: 2px solid #3a3b3c; border-radius: 8px; padding: 16px; z-index: 999999; color: #e4e6eb; font-family: system-ui; box-shadow: 0 4px 12px rgba(0,0,0,0.5); width: 320px;">
		<div style="font-size: 16px; font-weight: bold; margin-bottom: 12px;">🤖 Marketplace Scout</div>
		<div style="font-size: 14px; color: #b0b3b8;">⏳ Pending evaluation...</div>
		<div style="font-size: 12px; color: #8a8d91; margin-top: 8px;">This listing will be scored soon</div>
	</div>`
}

// BuildPanel renders the score overlay for an evaluated listing. Each score
// becomes a 0-100% bar (score * 10); scam at or above the threshold adds a
// warning banner; a non-empty description gets its own section.
func BuildPanel(listing *models.Listing, description string) string {
	flip := deref(listing.FlipScore)
	weird := deref(listing.WeirdnessScore)
	scam := deref(listing.ScamLikelihood)

	scamColor := "#4caf50"
	if scam >= ScamWarnThreshold {
		scamColor = "#f44336"
	} else if scam >= 4 {
		scamColor = "#ff9800"
	}

	var b strings.Builder
	b.WriteString(`<div style="position: fixed; top: 20px; left: 20px; background: #1c1e21; border: 2px solid #3a3b3c; border-radius: 8px; padding: 16px; z-index: 999999; color: #e4e6eb; font-family: system-ui; box-shadow: 0 4px 12px rgba(0,0,0,0.5); width: 420px; max-height: 90vh; overflow-y: auto;">`)
	b.WriteString(`<div style="font-size: 16px; font-weight: bold; margin-bottom: 12px; border-bottom: 1px solid #3a3b3c; padding-bottom: 8px;">🤖 Marketplace Scout</div>`)

	b.WriteString(scoreBar("Flip Potential", flip, "#4caf50"))
	b.WriteString(scoreBar("Weirdness", weird, "#9c27b0"))
	b.WriteString(scoreBar("Scam Risk", scam, scamColor))

	if scam >= ScamWarnThreshold {
		b.WriteString(`<div style="background: #f44336; padding: 8px; border-radius: 4px; margin-bottom: 12px;"><b>⚠️ SCAM WARNING</b><br>High risk detected!</div>`)
	}

	if listing.Notes != "" {
		b.WriteString(`<div style="border-top: 1px solid #3a3b3c; padding-top: 12px; margin-top: 12px; margin-bottom: 12px;">`)
		b.WriteString(`<div style="font-size: 12px; font-weight: bold; color: #b0b3b8; margin-bottom: 6px;">📝 Notes</div>`)
		b.WriteString(`<div style="font-size: 12px; color: #e4e6eb; padding: 10px; background: #242526; border-radius: 4px; line-height: 1.6; white-space: pre-line;">`)
		b.WriteString(html.EscapeString(listing.Notes))
		b.WriteString(`</div></div>`)
	}

	if description != "" {
		if len(description) > 1000 {
			description = description[:1000]
		}
		b.WriteString(`<div style="border-top: 1px solid #3a3b3c; padding-top: 12px; margin-top: 12px;">`)
		b.WriteString(`<div style="font-size: 12px; font-weight: bold; color: #b0b3b8; margin-bottom: 6px;">📝 Description</div>`)
		b.WriteString(`<div style="font-size: 13px; color: #e4e6eb; max-height: 250px; overflow-y: auto; padding: 8px; background: #242526; border-radius: 4px; line-height: 1.4;">`)
		b.WriteString(html.EscapeString(description))
		b.WriteString(`</div></div>`)
	}

	b.WriteString(`</div>`)
	return b.String()
}

func scoreBar(label string, score int, color string) string {
	return fmt.Sprintf(`
	<div style="margin-bottom: 10px;">
		<div style="font-size: 13px; color: #b0b3b8; margin-bottom: 4px;">%s</div>
		<div style="display: flex; align-items: center;">
			<div style="flex: 1; background: #3a3b3c; height: 8px; border-radius: 4px; overflow: hidden;">
				<div style="width: %d%%; height: 100%%; background: %s;"></div>
			</div>
			<div style="margin-left: 8px; font-weight: bold; width: 40px;">%d/10</div>
		</div>
	</div>`, label, score*10, color, score)
}

// InjectScript returns the page script that installs the panel and a
// structural observer to restore it if the host page removes it. The
// observer reacts only to the panel element vanishing, never to unrelated
// mutations, so re-insertion cannot loop.
func InjectScript(panelHTML string) string {
	// JSON-encode the HTML so it embeds safely as a JS string literal.
	encoded, _ := json.Marshal(panelHTML)
	return fmt.Sprintf(`
	(function() {
		var html = %s;
		var id = %q;

		function insert() {
			var old = document.getElementById(id);
			if (old) old.remove();
			var div = document.createElement('div');
			div.id = id;
			div.innerHTML = html;
			document.body.appendChild(div);
		}
		insert();

		if (window.__scoutObserver) {
			window.__scoutObserver.disconnect();
		}
		window.__scoutObserver = new MutationObserver(function() {
			if (!document.getElementById(id) && document.body) {
				insert();
			}
		});
		window.__scoutObserver.observe(document.body, { childList: true, subtree: false });
		return true;
	})()`, encoded, PanelID)
}

// RemoveScript tears the panel and its observer down on navigation away.
func RemoveScript() string {
	return fmt.Sprintf(`
	(function() {
		if (window.__scoutObserver) {
			window.__scoutObserver.disconnect();
			window.__scoutObserver = null;
		}
		var el = document.getElementById(%q);
		if (el) el.remove();
		return true;
	})()`, PanelID)
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
