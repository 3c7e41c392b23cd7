package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/ghuser/restocker/services/inventory/application/export"
	domainsvcs "github.com/ghuser/restocker/services/inventory/domain/services"
)

func importCommand(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Merge a JSON backup into the inventory",
		Long:  "Items are matched by case-insensitive name. Invalid records are reported and skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.done()

			res, err := e.svcs.Inventory.Import(cmd.Context(), payload)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created %d, updated %d, failed %d\n", res.Created, res.Updated, res.Failed)
			if err != nil && res.Created+res.Updated+res.Failed == 0 {
				return err
			}
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
			return nil
		},
	}
}

func exportCommand(open opener) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every item as a JSON backup",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.done()

			items, err := e.svcs.Inventory.Export(cmd.Context())
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), outPath, func(w io.Writer) error {
				return export.Backup(w, items)
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func basketCommand(open opener) *cobra.Command {
	var (
		store, format, mode, outPath string
	)
	cmd := &cobra.Command{
		Use:   "basket",
		Short: "Print the restock basket",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, _, err := export.ContentType(format); err != nil {
				return err
			}
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.done()

			rate := e.app.Config.DefaultRateMode
			if mode != "" {
				rate = mode
			}
			rateMode, err := domainsvcs.ParseRateMode(rate)
			if err != nil {
				return err
			}

			basket, err := e.svcs.Inventory.Basket(cmd.Context(), store, rateMode)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), outPath, func(w io.Writer) error {
				return export.Basket(w, basket, format)
			})
		},
	}
	cmd.Flags().StringVar(&store, "store", "", "only items from this store")
	cmd.Flags().StringVarP(&format, "format", "f", export.FormatMarkdown, "md, csv or json")
	cmd.Flags().StringVar(&mode, "rate-mode", "", "manual or auto (default from config)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func spendCommand(open opener) *cobra.Command {
	var months int
	cmd := &cobra.Command{
		Use:   "spend",
		Short: "Print monthly purchase totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if months < 1 {
				return errors.New("--months must be at least 1")
			}
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.done()

			buckets, err := e.svcs.Inventory.Spend(cmd.Context(), months)
			if err != nil {
				return err
			}
			printSpend(cmd.OutOrStdout(), buckets)
			return nil
		},
	}
	cmd.Flags().IntVarP(&months, "months", "m", domainsvcs.DefaultSpendMonths, "trailing months to report")
	return cmd
}

func sweepCommand(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Check every item and log restock alerts now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.done()

			res, err := e.svcs.Notifier.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked %d items, %d alerts\n", res.Checked, res.Alerted)
			return nil
		},
	}
}

func printSpend(w io.Writer, buckets []domainsvcs.MonthBucket) {
	var total float64
	for _, b := range buckets {
		delta := ""
		if b.Delta != nil {
			sign := "+"
			if *b.Delta < 0 {
				sign = "-"
			}
			delta = fmt.Sprintf("  (%s%s)", sign, domainsvcs.FormatMoney(math.Abs(*b.Delta)))
		}
		fmt.Fprintf(w, "%s  %10s%s\n", b.Month, domainsvcs.FormatMoney(b.Total), delta)
		total += b.Total
	}
	fmt.Fprintf(w, "total    %10s\n", domainsvcs.FormatMoney(total))
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(bufio.NewReader(stdin))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
