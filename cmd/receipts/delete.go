package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/receipts/internal/cli"
	"github.com/Veraticus/receipts/internal/common"
	"github.com/Veraticus/receipts/internal/listing"
	"github.com/Veraticus/receipts/internal/model"
	"github.com/spf13/cobra"
)

func deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a receipt",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}

	cmd.Flags().String("month", "", "month the receipt is in (YYYY-MM)")
	cmd.Flags().BoolP("yes", "y", false, "delete without asking")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	id, err := parseReceiptID(args[0])
	if err != nil {
		return err
	}
	month, _ := cmd.Flags().GetString("month")
	yes, _ := cmd.Flags().GetBool("yes")

	svc, _, err := newReceiptService()
	if err != nil {
		return err
	}
	ctrl := listing.NewController(svc)

	var (
		receipt model.Receipt
		found   bool
	)
	if !yes {
		question := fmt.Sprintf("Delete receipt #%d?", id)
		r, findErr := findReceipt(ctx, ctrl, id, model.Filters{Month: month})
		switch {
		case findErr == nil:
			receipt, found = r, true
			question = fmt.Sprintf("Delete %s from %s (%s, %d items)?",
				r.Store, r.Date.String(), model.FormatCurrency(r.Total), len(r.ReceiptItems))
		case errors.Is(findErr, common.ErrNotFound):
			fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Receipt #%d is not in the listing", id)))
		default:
			return findErr
		}

		ok, confirmErr := cli.NewPrompter(cmd.InOrStdin(), out).Confirm(ctx, question, false)
		if confirmErr != nil {
			return confirmErr
		}
		if !ok {
			fmt.Fprintln(out, cli.FormatInfo("Nothing deleted"))
			return nil
		}
	}

	if err := ctrl.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(out, cli.FormatSuccess("Receipt deleted"))

	if found {
		key := receipt.MonthKey()
		if mt, ok := ctrl.Snapshot().MonthlyTotals[key]; ok {
			fmt.Fprintf(out, "%s now %s across %d receipts\n",
				listing.MonthLabel(key), cli.FormatMoney(mt.TotalSpent), mt.ReceiptCount)
		}
	}
	return nil
}
