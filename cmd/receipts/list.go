package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/receipts/internal/cli"
	"github.com/Veraticus/receipts/internal/filter"
	"github.com/Veraticus/receipts/internal/listing"
	"github.com/Veraticus/receipts/internal/model"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List receipts",
		Long: `List receipts matching the given filters, newest first.

By default one page is shown. Use --all to page through every match.`,
		RunE: runList,
	}

	addFilterFlags(cmd)
	cmd.Flags().Int("page", 0, "page to show (0-based)")
	cmd.Flags().Bool("all", false, "load every page")
	cmd.Flags().Bool("items", false, "show line items under each receipt")
	cmd.Flags().Bool("json", false, "print receipts as JSON")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	filters, err := filtersFromFlags(cmd)
	if err != nil {
		return err
	}
	filters = filter.Effective(filters)
	page, _ := cmd.Flags().GetInt("page")
	all, _ := cmd.Flags().GetBool("all")
	items, _ := cmd.Flags().GetBool("items")
	asJSON, _ := cmd.Flags().GetBool("json")

	svc, _, err := newReceiptService()
	if err != nil {
		return err
	}

	var (
		receipts []model.Receipt
		totals   []model.MonthlyTotal
		total    int
	)
	if all {
		state, loadErr := listing.NewController(svc).LoadAll(ctx, filters, nil)
		if loadErr != nil {
			return fmt.Errorf("%s: %w", listing.LoadErrorMessage, loadErr)
		}
		receipts, totals, total = state.Receipts, state.SortedTotals(), state.TotalElements
	} else {
		p, loadErr := svc.ListReceipts(ctx, filters, page, listing.PageSize)
		if loadErr != nil {
			return fmt.Errorf("%s: %w", listing.LoadErrorMessage, loadErr)
		}
		receipts, totals, total = p.Receipts, p.MonthlyTotals, p.TotalElements
		if p.HasNext {
			defer fmt.Fprintln(cmd.OutOrStdout(), cli.StyleInfo(fmt.Sprintf("More receipts available: --page %d or --all", page+1)))
		}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(receipts)
	}

	if len(receipts) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No receipts found"))
		return nil
	}

	fmt.Fprintln(out, cli.FormatTitle(showingText(len(receipts), total)))
	printMonthTotals(out, totals)
	return printReceipts(out, receipts, items)
}

func showingText(shown, total int) string {
	if total > shown {
		return fmt.Sprintf("Showing %d of %d receipts", shown, total)
	}
	if shown == 1 {
		return "Showing 1 receipt"
	}
	return fmt.Sprintf("Showing %d receipts", shown)
}

func printMonthTotals(out io.Writer, totals []model.MonthlyTotal) {
	for _, mt := range totals {
		fmt.Fprintf(out, "  %s  %s · %d receipts\n",
			cli.StyleTitle(listing.MonthLabel(mt.Month)),
			cli.FormatMoney(mt.TotalSpent),
			mt.ReceiptCount)
	}
	fmt.Fprintln(out)
}

func printReceipts(out io.Writer, receipts []model.Receipt, items bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tDATE\tSTORE\tCATEGORY\tITEMS\tTOTAL")
	for _, r := range receipts {
		category := "-"
		if c := r.CategoryName(); c != "" {
			category = model.FormatCategoryLabel(c)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.Date.String(), r.Store, category, len(r.ReceiptItems), model.FormatCurrency(r.Total))

		if !items {
			continue
		}
		for _, ri := range r.ReceiptItems {
			fmt.Fprintf(w, "\t\t  %s\t%s\t%s\t%s\n",
				ri.Item.Name,
				model.FormatCategoryLabel(orDash(ri.Item.Category)),
				ri.Quantity.String()+" × "+model.FormatCurrency(ri.UnitPrice),
				model.FormatCurrency(ri.LineTotal))
		}
	}

	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func monthsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "List months that have receipts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := newReceiptService()
			if err != nil {
				return err
			}

			months, err := svc.AvailableMonths(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load months: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MONTH\tLABEL")
			for _, m := range months {
				label := m.Label
				if label == "" {
					label = listing.MonthLabel(m.Month)
				}
				fmt.Fprintf(w, "%s\t%s\n", m.Month, label)
			}
			return w.Flush()
		},
	}
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List receipt categories, item categories and storage types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := newReceiptService()
			if err != nil {
				return err
			}

			opts, err := svc.LoadFilterOptions(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load filter options: %w", err)
			}

			out := cmd.OutOrStdout()
			printOptions(out, "Receipt categories", opts.Categories)
			printOptions(out, "Item categories", opts.ItemCategories)
			printOptions(out, "Storage types", opts.StorageTypes)
			return nil
		},
	}
}

func printOptions(out io.Writer, title string, values []string) {
	fmt.Fprintln(out, cli.StyleTitle(title+" ("+strconv.Itoa(len(values))+")"))
	if len(values) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = fmt.Sprintf("%s (%s)", model.FormatCategoryLabel(v), v)
	}
	fmt.Fprintln(out, "  "+strings.Join(labels, ", "))
	fmt.Fprintln(out)
}
