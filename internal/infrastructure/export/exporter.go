package export

import (
	"fmt"
	"time"

	"github.com/aidat/backend/internal/domain/audit"
	"github.com/aidat/backend/internal/domain/dues"
	"github.com/aidat/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// Sheet names
const (
	SheetDues      = "Aidatlar"
	SheetPayments  = "Ödemeler"
	SheetExpenses  = "Giderler"
	SheetIncomes   = "Gelirler"
	SheetAuditLogs = "İşlem Kayıtları"
	SheetSummary   = "Özet"
)

// Exporter renders ledger data as xlsx workbooks
type Exporter struct {
	now func() time.Time
}

// NewExporter creates an exporter
func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

func (x *Exporter) fileName(prefix string) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, x.now().Format("2006-01-02"))
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

var dueColumns = []column{
	{"Ay", kindText},
	{"Yıl", kindInt},
	{"Tutar", kindMoney},
	{"Ödenen", kindMoney},
	{"Gecikme Faizi", kindMoney},
	{"Kalan", kindMoney},
	{"Durum", kindText},
	{"Son Ödeme", kindDate},
	{"Ödeme Tarihi", kindDate},
	{"Açıklama", kindText},
}

func dueSheet(list []*dues.Due) sheet {
	rows := make([][]any, 0, len(list))
	for _, d := range list {
		rows = append(rows, []any{
			MonthName(d.Month),
			d.Year,
			money(d.Amount),
			money(d.PaidAmount),
			money(d.LateFee),
			money(d.Remaining()),
			Label(d.Status.String()),
			d.DueDate,
			timeOrNil(d.PaidAt),
			d.Description,
		})
	}
	return sheet{name: SheetDues, columns: dueColumns, rows: rows}
}

var paymentColumns = []column{
	{"Tarih", kindDate},
	{"Tutar", kindMoney},
	{"Ödeme Yöntemi", kindText},
	{"Banka Referans", kindText},
	{"Makbuz No", kindText},
	{"Taksit", kindText},
	{"Açıklama", kindText},
}

func paymentSheet(list []*dues.Payment) sheet {
	rows := make([][]any, 0, len(list))
	for _, p := range list {
		installment := "-"
		if p.InstallmentNumber != nil && p.TotalInstallments != nil {
			installment = fmt.Sprintf("%d/%d", *p.InstallmentNumber, *p.TotalInstallments)
		}
		rows = append(rows, []any{
			p.PaymentDate,
			money(p.Amount),
			Label(p.PaymentMethod.String()),
			orDash(p.BankReference),
			p.ReceiptNumber,
			installment,
			orDash(p.Description),
		})
	}
	return sheet{name: SheetPayments, columns: paymentColumns, rows: rows}
}

var expenseColumns = []column{
	{"Tarih", kindDate},
	{"Kategori", kindText},
	{"Tutar", kindMoney},
	{"Açıklama", kindText},
	{"Tedarikçi", kindText},
	{"Fatura No", kindText},
	{"Durum", kindText},
	{"Tekrarlayan", kindText},
}

func expenseSheet(list []*finance.Expense) sheet {
	rows := make([][]any, 0, len(list))
	for _, e := range list {
		rows = append(rows, []any{
			e.ExpenseDate,
			Label(string(e.Category)),
			money(e.Amount),
			e.Description,
			orDash(e.Vendor),
			orDash(e.InvoiceNumber),
			Label(e.Status.String()),
			yesNo(e.IsRecurring),
		})
	}
	return sheet{name: SheetExpenses, columns: expenseColumns, rows: rows}
}

var incomeColumns = []column{
	{"Tarih", kindDate},
	{"Kategori", kindText},
	{"Tutar", kindMoney},
	{"Açıklama", kindText},
	{"Ödeyen", kindText},
}

func incomeSheet(list []*finance.Income) sheet {
	rows := make([][]any, 0, len(list))
	for _, i := range list {
		rows = append(rows, []any{
			i.IncomeDate,
			Label(string(i.Category)),
			money(i.Amount),
			i.Description,
			orDash(i.Payer),
		})
	}
	return sheet{name: SheetIncomes, columns: incomeColumns, rows: rows}
}

var auditColumns = []column{
	{"Tarih", kindDateTime},
	{"Kullanıcı", kindText},
	{"İşlem", kindText},
	{"Varlık Tipi", kindText},
	{"Varlık ID", kindText},
	{"Açıklama", kindText},
}

func auditSheet(list []*audit.Log) sheet {
	rows := make([][]any, 0, len(list))
	for _, l := range list {
		user := l.UserEmail
		if user == "" {
			user = l.UserID.String()
		}
		rows = append(rows, []any{
			l.Timestamp,
			user,
			string(l.Action),
			string(l.EntityType),
			l.EntityID,
			l.Description,
		})
	}
	return sheet{name: SheetAuditLogs, columns: auditColumns, rows: rows}
}

// Dues renders a single-sheet dues workbook
func (x *Exporter) Dues(list []*dues.Due) (*File, error) {
	return build(x.fileName("aidatlar"), dueSheet(list))
}

// Payments renders a single-sheet payments workbook
func (x *Exporter) Payments(list []*dues.Payment) (*File, error) {
	return build(x.fileName("odemeler"), paymentSheet(list))
}

// Expenses renders a single-sheet expenses workbook
func (x *Exporter) Expenses(list []*finance.Expense) (*File, error) {
	return build(x.fileName("giderler"), expenseSheet(list))
}

// Incomes renders a single-sheet incomes workbook
func (x *Exporter) Incomes(list []*finance.Income) (*File, error) {
	return build(x.fileName("gelirler"), incomeSheet(list))
}

// AuditLogs renders a single-sheet audit log workbook
func (x *Exporter) AuditLogs(list []*audit.Log) (*File, error) {
	return build(x.fileName("islem_kayitlari"), auditSheet(list))
}

// FinancialData is the input of the yearly financial report
type FinancialData struct {
	Year     int
	Dues     []*dues.Due
	Payments []*dues.Payment
	Expenses []*finance.Expense
	Incomes  []*finance.Income
}

// Summary holds the report totals
type Summary struct {
	DuesAssessed   decimal.Decimal
	DuesCollected  decimal.Decimal
	OtherIncome    decimal.Decimal
	TotalIncome    decimal.Decimal
	TotalExpense   decimal.Decimal
	NetBalance     decimal.Decimal
	Outstanding    decimal.Decimal
	PendingExpense decimal.Decimal
}

// Summarize computes the report totals. Income is payments plus other
// incomes; expense counts approved expenses only.
func Summarize(data FinancialData) Summary {
	var s Summary
	for _, d := range data.Dues {
		s.DuesAssessed = s.DuesAssessed.Add(d.Amount)
		s.Outstanding = s.Outstanding.Add(d.Remaining())
	}
	for _, p := range data.Payments {
		s.DuesCollected = s.DuesCollected.Add(p.Amount)
	}
	for _, i := range data.Incomes {
		s.OtherIncome = s.OtherIncome.Add(i.Amount)
	}
	for _, e := range data.Expenses {
		switch e.Status {
		case finance.ExpenseStatusApproved:
			s.TotalExpense = s.TotalExpense.Add(e.Amount)
		case finance.ExpenseStatusPending:
			s.PendingExpense = s.PendingExpense.Add(e.Amount)
		}
	}
	s.TotalIncome = s.DuesCollected.Add(s.OtherIncome)
	s.NetBalance = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

var summaryColumns = []column{
	{"Özet", kindText},
	{"Tutar", kindMoney},
}

func summarySheet(s Summary) sheet {
	return sheet{
		name:    SheetSummary,
		columns: summaryColumns,
		rows: [][]any{
			{"Tahakkuk Eden Aidat", money(s.DuesAssessed)},
			{"Aidat Tahsilatı", money(s.DuesCollected)},
			{"Diğer Gelirler", money(s.OtherIncome)},
			{"Toplam Gelir", money(s.TotalIncome)},
			{"Toplam Gider", money(s.TotalExpense)},
			{"Net Bakiye", money(s.NetBalance)},
			{"Kalan Alacak", money(s.Outstanding)},
			{"Onay Bekleyen Gider", money(s.PendingExpense)},
		},
	}
}

// FinancialReport renders the multi-sheet yearly report
func (x *Exporter) FinancialReport(data FinancialData) (*File, error) {
	return build(
		fmt.Sprintf("finansal_rapor_%d.xlsx", data.Year),
		summarySheet(Summarize(data)),
		dueSheet(data.Dues),
		paymentSheet(data.Payments),
		expenseSheet(data.Expenses),
		incomeSheet(data.Incomes),
	)
}
