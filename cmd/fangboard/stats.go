package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/haowan-apps/fangboard/internal/config"
	"github.com/haowan-apps/fangboard/internal/model"
	"github.com/haowan-apps/fangboard/internal/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print today's visit count from the configured counter store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		counterStore, err := openCounterStore(cfg, logger)
		if err != nil {
			return err
		}
		defer counterStore.Close()

		day := model.Day(time.Now())
		count, err := counterStore.Today(cmd.Context(), day)
		if err != nil {
			return fmt.Errorf("read counter: %w", err)
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(model.CounterRecord{Date: day, Count: count})
		}
		fmt.Printf("%s %s\n", ui.RenderMuted(day), ui.RenderAccent(fmt.Sprintf("%d visits", count)))
		return nil
	},
}
