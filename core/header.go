package core

import (
	"fmt"
	"time"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/schema"
)

// logBurndownHeader prints the repository and the sprint window being charted.
func logBurndownHeader(cfg *contract.Config, now time.Time) {
	fmt.Printf("🔎 Repo: %s (Sprint: %d days)\n", cfg.Slug(), cfg.SprintDays)
	start := now.AddDate(0, 0, -cfg.SprintDays)
	fmt.Printf("📅 Window: %s → %s\n", start.Format(schema.DateLabelLayout), now.Format(schema.DateLabelLayout))
}
