package export

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var monthNames = [...]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

var labels = map[string]string{
	// due and expense statuses
	"paid":     "Ödendi",
	"pending":  "Bekliyor",
	"partial":  "Kısmi Ödeme",
	"overdue":  "Gecikmiş",
	"approved": "Onaylandı",
	"rejected": "Reddedildi",

	// payment methods
	"cash":          "Nakit",
	"bank-transfer": "Havale/EFT",
	"credit-card":   "Kredi Kartı",
	"check":         "Çek",
	"other":         "Diğer",

	// expense categories
	"maintenance": "Bakım",
	"cleaning":    "Temizlik",
	"electricity": "Elektrik",
	"water":       "Su",
	"gas":         "Doğalgaz",
	"elevator":    "Asansör",
	"security":    "Güvenlik",
	"insurance":   "Sigorta",
	"garden":      "Bahçe",
	"repair":      "Onarım",
	"management":  "Yönetim",
	"legal":       "Hukuki",

	// income categories
	"rent":        "Kira Geliri",
	"parking":     "Otopark",
	"advertising": "Reklam Geliri",
	"event":       "Etkinlik Geliri",
	"interest":    "Faiz Geliri",
}

var titleCaser = cases.Title(language.Turkish)

// Label returns the display label of an enum value. Unknown values are
// title-cased with Turkish casing rules.
func Label(key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return titleCaser.String(strings.ReplaceAll(key, "-", " "))
}

// MonthName returns the Turkish name of month 1..12
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

func yesNo(b bool) string {
	if b {
		return "Evet"
	}
	return "Hayır"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
