package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/receipts/internal/cli"
	"github.com/Veraticus/receipts/internal/common"
	"github.com/Veraticus/receipts/internal/edit"
	"github.com/Veraticus/receipts/internal/filter"
	"github.com/Veraticus/receipts/internal/listing"
	"github.com/Veraticus/receipts/internal/model"
	"github.com/spf13/cobra"
)

// headerFlags maps update flags to the form fields they set.
var headerFlags = []struct {
	flag  string
	label string
	field func(*edit.Form) *string
}{
	{flag: "store", label: "Store", field: func(f *edit.Form) *string { return &f.Store }},
	{flag: "date", label: "Date (YYYY-MM-DD)", field: func(f *edit.Form) *string { return &f.Date }},
	{flag: "category", label: "Category", field: func(f *edit.Form) *string { return &f.Category }},
	{flag: "subtotal", label: "Subtotal", field: func(f *edit.Form) *string { return &f.Subtotal }},
	{flag: "tax", label: "Tax", field: func(f *edit.Form) *string { return &f.Tax }},
	{flag: "discount", label: "Discount", field: func(f *edit.Form) *string { return &f.Discount }},
	{flag: "total", label: "Total", field: func(f *edit.Form) *string { return &f.Total }},
}

func updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Edit a receipt",
		Long: `Edit a receipt's header fields and line items.

With flags, only the given fields change. Without flags you are prompted for each
field; press enter to keep the current value. The receipt is looked up in the
listing, so --month speeds things up for older receipts.`,
		Args: cobra.ExactArgs(1),
		RunE: runUpdate,
	}

	for _, h := range headerFlags {
		cmd.Flags().String(h.flag, "", h.label)
	}
	cmd.Flags().String("month", "", "month the receipt is in (YYYY-MM)")
	cmd.Flags().Bool("items", false, "also prompt for each line item")
	cmd.Flags().BoolP("yes", "y", false, "save without asking")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := parseReceiptID(args[0])
	if err != nil {
		return err
	}
	month, _ := cmd.Flags().GetString("month")
	promptItems, _ := cmd.Flags().GetBool("items")
	yes, _ := cmd.Flags().GetBool("yes")

	svc, _, err := newReceiptService()
	if err != nil {
		return err
	}

	receipt, err := findReceipt(ctx, listing.NewController(svc), id, model.Filters{Month: month})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	form := edit.FromReceipt(receipt)
	prompter := cli.NewPrompter(cmd.InOrStdin(), out)

	if changed := applyHeaderFlags(cmd, &form); !changed || promptItems {
		if !changed {
			if err := promptHeader(ctx, prompter, &form); err != nil {
				return err
			}
		}
		if promptItems {
			if err := promptLines(ctx, out, prompter, &form); err != nil {
				return err
			}
		}
	}

	update, err := form.Payload()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, cli.RenderBox(fmt.Sprintf("Receipt #%d", id), describeUpdate(form, update)))

	if !yes {
		ok, confirmErr := prompter.Confirm(ctx, "Save changes?", true)
		if confirmErr != nil {
			return confirmErr
		}
		if !ok {
			fmt.Fprintln(out, cli.FormatInfo("No changes saved"))
			return nil
		}
	}

	if _, err := svc.UpdateReceipt(ctx, id, update); err != nil {
		return common.NewUserError("Failed to update receipt", err)
	}
	fmt.Fprintln(out, cli.FormatSuccess("Receipt updated successfully!"))
	return nil
}

// findReceipt pages ctrl through the listing until the receipt shows up.
func findReceipt(ctx context.Context, ctrl *listing.Controller, id int64, filters model.Filters) (model.Receipt, error) {
	filters = filter.Effective(filters)

	for reset := true; ; reset = false {
		issued, err := ctrl.Load(ctx, filters, reset)
		if err != nil {
			return model.Receipt{}, err
		}
		state := ctrl.Snapshot()
		if found, ok := state.Find(id); ok {
			return found, nil
		}
		if !issued || !state.HasMore {
			return model.Receipt{}, fmt.Errorf("%w: receipt %d", common.ErrNotFound, id)
		}
	}
}

func applyHeaderFlags(cmd *cobra.Command, form *edit.Form) bool {
	changed := false
	for _, h := range headerFlags {
		if !cmd.Flags().Changed(h.flag) {
			continue
		}
		v, _ := cmd.Flags().GetString(h.flag)
		if h.flag == "category" {
			v = strings.ToUpper(v)
		}
		*h.field(form) = v
		changed = true
	}
	return changed
}

func promptHeader(ctx context.Context, p *cli.Prompter, form *edit.Form) error {
	for _, h := range headerFlags {
		field := h.field(form)
		answer, err := p.Ask(ctx, h.label, *field)
		if err != nil {
			return err
		}
		if h.flag == "category" {
			answer = strings.ToUpper(answer)
		}
		*field = answer
	}
	return nil
}

// promptLines walks the line items, then offers to add new ones.
func promptLines(ctx context.Context, out io.Writer, p *cli.Prompter, form *edit.Form) error {
	for i := 0; i < len(form.Lines); i++ {
		l := form.Lines[i]
		fmt.Fprintln(out, cli.StyleTitle(fmt.Sprintf("Item %d: %s", i+1, l.Name)))

		remove, err := p.Confirm(ctx, "Remove this item?", false)
		if err != nil {
			return err
		}
		if remove {
			if err := form.RemoveItem(i); err != nil {
				return err
			}
			i--
			continue
		}
		if err := promptLine(ctx, p, form, i); err != nil {
			return err
		}
	}

	for {
		add, err := p.Confirm(ctx, "Add an item?", false)
		if err != nil {
			return err
		}
		if !add {
			return nil
		}
		if err := promptLine(ctx, p, form, form.AddItem()); err != nil {
			return err
		}
	}
}

func promptLine(ctx context.Context, p *cli.Prompter, form *edit.Form, i int) error {
	l := form.Lines[i]

	name, err := p.Ask(ctx, "  Name", l.Name)
	if err != nil {
		return err
	}
	qty, err := p.Ask(ctx, "  Quantity", l.Quantity.String())
	if err != nil {
		return err
	}
	price, err := p.Ask(ctx, "  Unit price", l.UnitPrice.String())
	if err != nil {
		return err
	}

	if err := form.SetItemName(i, name); err != nil {
		return err
	}
	if err := form.SetQuantity(i, qty); err != nil {
		return err
	}
	return form.SetUnitPrice(i, price)
}

// describeUpdate summarizes the payload. Line names come from the form since
// existing catalog items are sent by id alone.
func describeUpdate(form edit.Form, u model.ReceiptUpdate) string {
	category := "-"
	if u.Category != nil {
		category = model.FormatCategoryLabel(*u.Category)
	}

	lines := []string{
		fmt.Sprintf("Store:    %s", u.Store),
		fmt.Sprintf("Date:     %s", u.Date.String()),
		fmt.Sprintf("Category: %s", category),
		fmt.Sprintf("Subtotal: %s  Tax: %s  Discount: %s",
			model.FormatCurrency(u.Subtotal), model.FormatCurrency(u.Tax), model.FormatCurrency(u.Discount)),
		fmt.Sprintf("Total:    %s", cli.FormatMoney(u.Total)),
		fmt.Sprintf("Items:    %d", len(u.ReceiptItems)),
	}
	for _, l := range form.Lines {
		lines = append(lines, fmt.Sprintf("  %s  %s × %s = %s",
			l.Name, l.Quantity.String(), model.FormatCurrency(l.UnitPrice), model.FormatCurrency(l.LineTotal)))
	}
	return strings.Join(lines, "\n")
}
