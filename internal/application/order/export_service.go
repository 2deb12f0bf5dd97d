package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/order"
)

// ReceiptLine is one printed line of an exported order document
type ReceiptLine struct {
	Description string `json:"description"`
	Detail      string `json:"detail"`
	Quantity    int64  `json:"quantity"`
	Subtotal    string `json:"subtotal"`
}

// ReceiptPayment is one printed ledger entry
type ReceiptPayment struct {
	Method     string    `json:"method"`
	Amount     string    `json:"amount"`
	Note       string    `json:"note,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ReceiptDocument is the exportable view of an order. Every amount comes from
// the stored ledger and stored subtotals; nothing is recomputed here, so the
// document always matches what the customer was charged.
type ReceiptDocument struct {
	OrderNumber    string           `json:"order_number"`
	CustomerName   string           `json:"customer_name"`
	CustomerPhone  string           `json:"customer_phone,omitempty"`
	IssuedAt       time.Time        `json:"issued_at"`
	Lines          []ReceiptLine    `json:"lines"`
	TotalAmount    string           `json:"total_amount"`
	AmountPaid     string           `json:"amount_paid"`
	PendingBalance string           `json:"pending_balance"`
	WriteOffTotal  string           `json:"write_off_total,omitempty"`
	PaymentStatus  string           `json:"payment_status"`
	Payments       []ReceiptPayment `json:"payments"`
	Notes          string           `json:"notes,omitempty"`
}

// ExportService builds printable documents from stored order state
type ExportService struct {
	repo order.Repository
}

// NewExportService creates a new ExportService
func NewExportService(repo order.Repository) *ExportService {
	return &ExportService{repo: repo}
}

// ExportOrder builds the receipt document for an order
func (s *ExportService) ExportOrder(ctx context.Context, id uuid.UUID) (*ReceiptDocument, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lines := make([]ReceiptLine, len(o.Items))
	for i := range o.Items {
		lines[i] = toReceiptLine(&o.Items[i])
	}

	payments := make([]ReceiptPayment, len(o.Payments))
	for i, tx := range o.Payments {
		payments[i] = ReceiptPayment{
			Method:     tx.Method.Label(),
			Amount:     tx.BaseAmount.StringFixed(2),
			Note:       tx.Note,
			RecordedAt: tx.RecordedAt,
		}
	}

	doc := &ReceiptDocument{
		OrderNumber:    o.OrderNumber,
		CustomerName:   o.CustomerName,
		CustomerPhone:  o.CustomerPhone,
		IssuedAt:       time.Now(),
		Lines:          lines,
		TotalAmount:    o.TotalAmount.StringFixed(2),
		AmountPaid:     o.AmountPaid.StringFixed(2),
		PendingBalance: o.PendingBalance().StringFixed(2),
		PaymentStatus:  o.PaymentStatus.String(),
		Payments:       payments,
		Notes:          o.Notes,
	}
	if o.WriteOffTotal.IsPositive() {
		doc.WriteOffTotal = o.WriteOffTotal.StringFixed(2)
	}
	return doc, nil
}

// toReceiptLine renders one line item. The subtotal is the stored computed
// value; the detail column explains how the line was billed.
func toReceiptLine(item *order.LineItem) ReceiptLine {
	var detail string
	switch item.Mode {
	case order.BillingPerUnit:
		detail = fmt.Sprintf("%s each", item.UnitPrice.StringFixed(2))
	case order.BillingPerArea:
		if item.IsComplete() {
			detail = fmt.Sprintf("%s x %s cm @ %s/m²",
				item.WidthCm, item.HeightCm, item.UnitPrice.StringFixed(2))
		} else {
			detail = "dimensions pending"
		}
	case order.BillingPerTime:
		if item.IsComplete() {
			detail = fmt.Sprintf("laser %s", item.Duration())
		} else {
			detail = "cutting time pending"
		}
	}
	if item.SuppliesMaterial && item.MaterialSurcharge.IsPositive() {
		detail += fmt.Sprintf(" + material %s", item.MaterialSurcharge.StringFixed(2))
	}
	return ReceiptLine{
		Description: item.Description,
		Detail:      detail,
		Quantity:    item.Quantity,
		Subtotal:    item.ComputedSubtotal.StringFixed(2),
	}
}

// RenderText renders the document as a plain-text receipt for thermal printers
func (d *ReceiptDocument) RenderText() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Order %s\n", d.OrderNumber)
	fmt.Fprintf(&b, "Customer: %s\n", d.CustomerName)
	if d.CustomerPhone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", d.CustomerPhone)
	}
	fmt.Fprintf(&b, "Issued: %s\n", d.IssuedAt.Format("2006-01-02 15:04"))
	b.WriteString(strings.Repeat("-", 40) + "\n")

	for _, line := range d.Lines {
		fmt.Fprintf(&b, "%dx %s\n", line.Quantity, line.Description)
		fmt.Fprintf(&b, "   %s  = %s\n", line.Detail, line.Subtotal)
	}

	b.WriteString(strings.Repeat("-", 40) + "\n")
	fmt.Fprintf(&b, "Total:   %s\n", d.TotalAmount)
	fmt.Fprintf(&b, "Paid:    %s\n", d.AmountPaid)
	fmt.Fprintf(&b, "Pending: %s\n", d.PendingBalance)
	if d.WriteOffTotal != "" {
		fmt.Fprintf(&b, "Written off: %s\n", d.WriteOffTotal)
	}
	fmt.Fprintf(&b, "Status:  %s\n", d.PaymentStatus)

	if len(d.Payments) > 0 {
		b.WriteString("\nPayments:\n")
		for _, p := range d.Payments {
			fmt.Fprintf(&b, "  %s  %s (%s)\n",
				p.RecordedAt.Format("2006-01-02"), p.Amount, p.Method)
			if p.Note != "" {
				fmt.Fprintf(&b, "    %s\n", p.Note)
			}
		}
	}
	if d.Notes != "" {
		fmt.Fprintf(&b, "\n%s\n", d.Notes)
	}
	return b.String()
}
