package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"PolnSim/internal/model"
	"PolnSim/internal/report"
)

// FormatBatch renders one message for a finished batch. Terminal styling is
// stripped since Telegram shows it verbatim.
func FormatBatch(years []int, results []*model.Result) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("PolnSim batch | %s\n\n", time.Now().UTC().Format("2006-01-02 15:04")))
	for i, res := range results {
		if i >= len(years) {
			break
		}
		b.WriteString(ansi.Strip(report.FormatSummary(years[i], res)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// HelpText lists the supported chat commands.
const HelpText = "Available commands:\n• /run  rerun every horizon now\n• /status  latest batch summary"
