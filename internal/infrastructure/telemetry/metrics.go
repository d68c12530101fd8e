package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrMeterNil is returned when no meter is given
	ErrMeterNil = errors.New("telemetry: meter cannot be nil")

	AttrPaymentMethod = attribute.Key("payment_method")
)

// DuesMetrics counts dues engine activity
type DuesMetrics struct {
	duesCreated      metric.Int64Counter
	paymentsRecorded metric.Int64Counter
	paymentAmount    metric.Int64Counter
	lateFeesApplied  metric.Int64Counter
}

// NewDuesMetrics registers the dues counters on meter
func NewDuesMetrics(meter metric.Meter) (*DuesMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	m := &DuesMetrics{}
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
		unit        string
	}{
		{&m.duesCreated, "aidat_dues_created_total", "Dues created, single or bulk", "{dues}"},
		{&m.paymentsRecorded, "aidat_payments_recorded_total", "Payments recorded against dues", "{payments}"},
		{&m.paymentAmount, "aidat_payment_amount_total", "Collected amount in kuruş", "{kurus}"},
		{&m.lateFeesApplied, "aidat_late_fees_applied_total", "Dues moved to overdue with a late fee", "{dues}"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.description), metric.WithUnit(c.unit))
		if err != nil {
			return nil, fmt.Errorf("create counter %s: %w", c.name, err)
		}
		*c.target = counter
	}
	return m, nil
}

// DuesCreated adds n created dues
func (m *DuesMetrics) DuesCreated(ctx context.Context, n int) {
	if n > 0 {
		m.duesCreated.Add(ctx, int64(n))
	}
}

// PaymentRecorded counts one payment and its amount
func (m *DuesMetrics) PaymentRecorded(ctx context.Context, method string, amount decimal.Decimal) {
	attrs := metric.WithAttributes(AttrPaymentMethod.String(method))
	m.paymentsRecorded.Add(ctx, 1, attrs)
	m.paymentAmount.Add(ctx, amount.Shift(2).Round(0).IntPart(), attrs)
}

// LateFeesApplied adds n dues that accrued a late fee
func (m *DuesMetrics) LateFeesApplied(ctx context.Context, n int) {
	if n > 0 {
		m.lateFeesApplied.Add(ctx, int64(n))
	}
}
