package cmd

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"topics/internal/category"
	"topics/internal/config"
	"topics/internal/domain"
	"topics/internal/tui"
)

var browseAccount string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse stored records in a terminal UI",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&browseAccount, "account", "", "Account to browse (defaults to feed.account)")
}

// errVolatileStore is returned when browse would open a store that starts empty.
var errVolatileStore = errors.New("browse needs a persistent store: set store.type to bbolt")

// recordView serves stored records without loading the classification stack.
type recordView struct {
	table *category.Table
	store domain.RecordStore
}

func (v recordView) Categories() *category.Table { return v.table }

func (v recordView) Records(account string) ([]domain.Record, error) { return v.store.List(account) }

func openRecordView(cfg *config.AppConfig) (recordView, error) {
	if cfg.Store.Type == "memory" || cfg.Store.Type == "" {
		return recordView{}, errVolatileStore
	}
	table, err := cfg.CategoryTable()
	if err != nil {
		return recordView{}, fmt.Errorf("categories: %w", err)
	}
	st, err := openStore(cfg)
	if err != nil {
		return recordView{}, err
	}
	return recordView{table: table, store: st}, nil
}

func runBrowse(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	view, err := openRecordView(cfg)
	if err != nil {
		return err
	}
	defer view.store.Close()

	account := browseAccount
	if account == "" {
		account = cfg.Feed.Account
	}
	_, err = tea.NewProgram(tui.New(view, account), tea.WithAltScreen()).Run()
	return err
}
