// Large KMyMoney File Generator
//
// This tool generates a large KMyMoney XML file for performance testing and
// profiling. It creates a nested account tree and balanced multi-split
// transactions to stress-test the parser, the query engine and aggregation.
//
// Usage:
//
//	go run main.go > large.xml
//	go run main.go 20000000 | gzip > large.kmy  # Specify target size in bytes
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTargetSize = 10 * 1024 * 1024 // 10MB
)

type account struct {
	id       string
	name     string
	parent   string
	typ      int
	closed   bool
	children int
}

var (
	// Paths are created top-down, parents first.
	paths = []string{
		"Assets",
		"Assets:Bank",
		"Assets:Bank:Checking",
		"Assets:Bank:Savings",
		"Assets:Brokerage",
		"Assets:Brokerage:Cash",
		"Assets:Cash",
		"Liabilities",
		"Liabilities:CreditCard",
		"Liabilities:CreditCard:Visa",
		"Liabilities:CreditCard:Amex",
		"Income",
		"Income:Salary",
		"Income:Bonus",
		"Income:Investments",
		"Income:Investments:Dividends",
		"Income:Investments:Interest",
		"Expenses",
		"Expenses:Food",
		"Expenses:Food:Groceries",
		"Expenses:Food:Restaurant",
		"Expenses:Housing",
		"Expenses:Housing:Rent",
		"Expenses:Housing:Utilities",
		"Expenses:Transport",
		"Expenses:Transport:Gas",
		"Expenses:Transport:Transit",
		"Expenses:Shopping",
		"Expenses:Shopping:Clothing",
		"Expenses:Shopping:Electronics",
		"Expenses:Healthcare",
		"Expenses:Healthcare:Medical",
		"Expenses:Taxes",
		"Equity",
		"Equity:Opening-Balances",
	}

	// Accounts that are written with the mm-closed flag.
	closedPaths = map[string]bool{
		"Assets:Brokerage":            true,
		"Liabilities:CreditCard:Amex": true,
	}

	memos = []string{
		"Grocery shopping", "Fuel purchase", "Rent payment",
		"Salary deposit", "Utility bill", "Online purchase",
		"Restaurant dinner", "Coffee", "Monthly subscription",
		"Medical appointment", "Dividend payment", "Tax payment",
		"Insurance premium", "Gift", "Café & bakery",
	}

	typeByTopLevel = map[string]int{
		"Assets":      9,
		"Liabilities": 10,
		"Income":      12,
		"Expenses":    13,
		"Equity":      16,
	}
)

func main() {
	targetSize := defaultTargetSize
	if len(os.Args) > 1 {
		if size, err := strconv.Atoi(os.Args[1]); err == nil {
			targetSize = size
		}
	}

	out := bufio.NewWriter(os.Stdout)
	defer func() { _ = out.Flush() }()

	accounts, byPath := buildAccounts()

	var body strings.Builder
	startDate := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	currentDate := startDate
	transactionCount := 0

	for body.Len() < targetSize {
		transactionCount++
		body.WriteString(generateTransaction(transactionCount, currentDate, byPath))

		// Advance date occasionally
		if rand.Intn(5) == 0 {
			currentDate = currentDate.AddDate(0, 0, 1)
		}
	}

	writeString(out, `<?xml version="1.0" encoding="utf-8"?>`+"\n")
	writeString(out, "<!DOCTYPE KMYMONEY-FILE>\n")
	writeString(out, "<KMYMONEY-FILE>\n")
	writeString(out, fmt.Sprintf(" <FILEINFO>\n  <CREATION_DATE date=%q/>\n </FILEINFO>\n", startDate.Format("2006-01-02")))
	writeString(out, fmt.Sprintf(" <TRANSACTIONS count=\"%d\">\n", transactionCount))
	writeString(out, body.String())
	writeString(out, " </TRANSACTIONS>\n")
	writeString(out, fmt.Sprintf(" <ACCOUNTS count=\"%d\">\n", len(accounts)))
	for _, acc := range accounts {
		writeString(out, formatAccount(acc))
	}
	writeString(out, " </ACCOUNTS>\n")
	writeString(out, "</KMYMONEY-FILE>\n")

	// Print stats to stderr
	_, _ = fmt.Fprintf(os.Stderr, "Generated %d bytes with %d transactions over %d accounts\n",
		body.Len(), transactionCount, len(accounts))
	_, _ = fmt.Fprintf(os.Stderr, "Date range: %s to %s\n",
		startDate.Format("2006-01-02"), currentDate.Format("2006-01-02"))
}

func writeString(w *bufio.Writer, s string) {
	if _, err := w.WriteString(s); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}
}

func buildAccounts() ([]*account, map[string]*account) {
	accounts := make([]*account, 0, len(paths))
	byPath := make(map[string]*account, len(paths))

	for i, path := range paths {
		segments := strings.Split(path, ":")
		acc := &account{
			id:     fmt.Sprintf("A%06d", i+1),
			name:   segments[len(segments)-1],
			typ:    typeByTopLevel[segments[0]],
			closed: closedPaths[path],
		}
		if len(segments) > 1 {
			parent := byPath[strings.Join(segments[:len(segments)-1], ":")]
			acc.parent = parent.id
			parent.children++
		}
		accounts = append(accounts, acc)
		byPath[path] = acc
	}

	return accounts, byPath
}

func formatAccount(acc *account) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  <ACCOUNT id=%q name=%q type=\"%d\" parentaccount=%q currency=\"EUR\" institution=\"\" opened=\"2015-01-01\" number=\"\" description=\"\"",
		acc.id, acc.name, acc.typ, acc.parent)
	if !acc.closed {
		b.WriteString("/>\n")
		return b.String()
	}
	b.WriteString(">\n")
	b.WriteString("   <KEYVALUEPAIRS>\n")
	b.WriteString("    <PAIR key=\"mm-closed\" value=\"yes\"/>\n")
	b.WriteString("   </KEYVALUEPAIRS>\n")
	b.WriteString("  </ACCOUNT>\n")
	return b.String()
}

// leafAccounts returns the postable accounts under the given top-level name.
func leafAccounts(byPath map[string]*account, prefix string) []*account {
	var leaves []*account
	for _, path := range paths {
		acc := byPath[path]
		if acc.children == 0 && strings.HasPrefix(path, prefix+":") {
			leaves = append(leaves, acc)
		}
	}
	return leaves
}

func pick(accounts []*account) *account {
	return accounts[rand.Intn(len(accounts))]
}

// generateTransaction writes a transaction whose split values sum to zero.
// Values are written as fractions with a denominator of 100, as KMyMoney
// does for two-decimal currencies.
func generateTransaction(n int, date time.Time, byPath map[string]*account) string {
	var (
		from   *account
		splits []*account
	)

	switch rand.Intn(10) {
	case 0: // 10% - Income
		from = pick(leafAccounts(byPath, "Income"))
		splits = []*account{pick(leafAccounts(byPath, "Assets"))}
	case 1, 2: // 20% - Split purchase
		from = pick(leafAccounts(byPath, "Liabilities"))
		splits = []*account{
			pick(leafAccounts(byPath, "Expenses")),
			pick(leafAccounts(byPath, "Expenses")),
			pick(leafAccounts(byPath, "Expenses")),
		}
	default: // 70% - Simple expense
		from = pick(leafAccounts(byPath, "Assets"))
		splits = []*account{pick(leafAccounts(byPath, "Expenses"))}
	}

	amounts := make([]int, len(splits))
	total := 0
	for i := range splits {
		amounts[i] = rand.Intn(50000) + 1
		total += amounts[i]
	}

	id := fmt.Sprintf("T%018d", n)
	postdate := date.Format("2006-01-02")

	var b strings.Builder
	fmt.Fprintf(&b, "  <TRANSACTION id=%q postdate=%q entrydate=%q commodity=\"EUR\" memo=%q>\n",
		id, postdate, postdate, escape(memos[rand.Intn(len(memos))]))
	b.WriteString("   <SPLITS>\n")
	writeSplit(&b, 1, from, -total)
	for i, acc := range splits {
		writeSplit(&b, i+2, acc, amounts[i])
	}
	b.WriteString("   </SPLITS>\n")
	b.WriteString("  </TRANSACTION>\n")
	return b.String()
}

func writeSplit(b *strings.Builder, n int, acc *account, cents int) {
	value := fmt.Sprintf("%d/100", cents)
	fmt.Fprintf(b, "    <SPLIT id=\"S%04d\" account=%q value=%q shares=%q price=\"1/1\" payee=\"\" reconcileflag=\"0\" memo=\"\"/>\n",
		n, acc.id, value, value)
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
}
