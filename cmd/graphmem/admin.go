package graphmem

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a timestamped backup of the graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		info, err := store.BackupGraph()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "backup written: %s\n", info.File)
		return nil
	},
}

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List available graph backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		backups, err := store.ListBackups()
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no backups found")
			return nil
		}
		for _, b := range backups {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d entities\t%d relations\n", b.File, b.Timestamp, b.EntityCount, b.RelationCount)
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore [backup-file]",
	Short: "Restore the graph from a backup",
	Long: `Restore the graph from a backup file. Without an argument the most
recent backup is restored. The current state is snapshotted first so the
restore itself can be undone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backupFile := ""
		if len(args) > 0 {
			backupFile = args[0]
		}
		store, _, err := openStore()
		if err != nil {
			return err
		}
		result, err := store.RestoreGraph(backupFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "restored %s: %d entities, %d relations (previous state: %s)\n",
			result.RestoredFrom, result.EntityCount, result.RelationCount, result.PreviousStateFile)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print graph statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(store.GetStatistics(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a graph health report",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(store.GenerateReport(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(backupsCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reportCmd)
}
