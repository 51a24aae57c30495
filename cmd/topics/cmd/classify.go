package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"topics/internal/domain"
	"topics/internal/feed"
)

var (
	classifyInput   string
	classifyAccount string
	classifyLimit   int
	classifyJSON    bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Fetch posts once, label them and store the records",
	Args:  cobra.NoArgs,
	RunE:  runClassify,
}

func init() {
	classifyCmd.Flags().StringVar(&classifyInput, "input", "", "JSON-lines post file (overrides the configured feed)")
	classifyCmd.Flags().StringVar(&classifyAccount, "account", "", "Account to fetch (defaults to feed.account)")
	classifyCmd.Flags().IntVar(&classifyLimit, "limit", 0, "Maximum posts to fetch (defaults to feed.max_documents)")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Print records as JSON")
}

func runClassify(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a, err := buildApp(cfg, classifyInput, newLogger())
	if err != nil {
		return err
	}
	defer a.Close()

	account := classifyAccount
	if account == "" {
		account = cfg.Feed.Account
	}
	limit := classifyLimit
	if limit <= 0 {
		limit = cfg.Feed.MaxDocuments
	}
	records, err := a.pipeline.Run(cmd.Context(), account, limit)
	if errors.Is(err, feed.ErrNoDocuments) {
		fmt.Fprintln(os.Stderr, "no documents found")
		return nil
	}
	if err != nil {
		return err
	}
	if classifyJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatRecords(records))
	return nil
}

var (
	headStyle = lipgloss.NewStyle().Bold(true)
	catStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func formatRecords(records []domain.Record) string {
	var b strings.Builder
	b.WriteString(headStyle.Render(fmt.Sprintf("%-19s  %-12s  %s", "TIME", "CATEGORY", "TEXT")))
	b.WriteString("\n")
	for _, r := range records {
		text := strings.ReplaceAll(r.Text, "\n", " ")
		if n := []rune(text); len(n) > 60 {
			text = string(n[:57]) + "..."
		}
		fmt.Fprintf(&b, "%-19s  %s  %s\n", r.Time, catStyle.Render(fmt.Sprintf("%-12s", r.Category)), text)
	}
	return b.String()
}
