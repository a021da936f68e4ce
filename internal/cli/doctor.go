package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/weekwise/internal/backup"
	"github.com/julianstephens/weekwise/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	// Check 1: store reachable
	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Store reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Store reachable: OK\n")
		storeReachable = true
	}

	// Check 2: preferences readable
	if storeReachable {
		if _, err := ctx.Store.GetPreferences(); err != nil {
			fmt.Printf("❌ Preferences: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Preferences: OK\n")
		}
	} else {
		fmt.Printf("⊘ Preferences: SKIPPED (store not reachable)\n")
	}

	// Check 3: session data consistent
	if storeReachable {
		if err := checkSessionData(ctx); err != nil {
			fmt.Printf("❌ Session data: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Session data: OK\n")
		}
	} else {
		fmt.Printf("⊘ Session data: SKIPPED (store not reachable)\n")
	}

	// Check 4: backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	// Check 5: intent extraction configured (warning only)
	if os.Getenv("GEMINI_API_KEY") == "" {
		fmt.Printf("⚠ Intent extraction: WARNING\n")
		fmt.Printf("   GEMINI_API_KEY not set, free-form revision is disabled\n")
	} else {
		fmt.Printf("✓ Intent extraction: OK\n")
	}

	// Check 6: clock/timezone sanity
	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All checks passed.")
	return nil
}

// checkSessionData validates every stored session snapshot: draft conflicts
// and, where a calendar exists, overlap and bound violations.
func checkSessionData(ctx *Context) error {
	snaps, err := ctx.Store.GetAllSnapshots()
	if err != nil {
		return fmt.Errorf("failed to read sessions: %w", err)
	}

	validator := validation.New()
	for _, snap := range snaps {
		if result := validator.ValidateItems(snap.Items); result.HasConflicts() {
			return fmt.Errorf("session %s has draft conflicts:\n%s", snap.ID, result.FormatReport())
		}
		if snap.Calendar != nil {
			if result := validator.ValidateImportedCalendar(snap.Calendar); result.HasConflicts() {
				return fmt.Errorf("session %s has calendar conflicts:\n%s", snap.ID, result.FormatReport())
			}
		}
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'weekwise backup create'")
	}

	return nil
}

func checkClockTimezone() error {
	now := time.Now()

	// Sanity range only; an exotic clock breaks day-of-week anchoring
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	_, offset := now.Zone()
	if offset == 0 && now.Location() == time.UTC {
		fmt.Printf("   Note: timezone is UTC\n")
	}

	return nil
}
