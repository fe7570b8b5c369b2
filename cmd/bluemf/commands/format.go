package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wonny/bluemf/backend/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const lineWidth = 59

// PrintHeader prints a formatted command header
func PrintHeader(title string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println(strings.Repeat("─", lineWidth))
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println(strings.Repeat("═", lineWidth))
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// PrintStageResult prints one stage envelope with its summary
func PrintStageResult(res contracts.StageResult) {
	label := res.Stage.String()
	if label == "" {
		label = "stage"
	}

	if res.OK() {
		PrintSuccess(fmt.Sprintf("[%s] %s", label, res.Message))
	} else {
		PrintError(fmt.Sprintf("[%s] %s", label, res.Message))
	}

	if res.Summary != nil {
		if b, err := json.MarshalIndent(res.Summary, "   ", "  "); err == nil {
			fmt.Printf("   %s\n", b)
		}
	}
}

// stageError turns a failed envelope into a command error
func stageError(res contracts.StageResult) error {
	if res.OK() {
		return nil
	}
	return fmt.Errorf("%s: %s", res.Stage, res.Message)
}
