// seed-legacy writes a deliberately messy set of legacy CSV exports for
// exercising the migration end to end: mixed date formats, country spellings,
// placeholder strings, conflicting name fields, out-of-range classifications.
// Output is deterministic for a given seed.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
)

func main() {
	outDir := flag.String("out", "legacy_csv", "Output directory for the CSV files")
	clients := flag.Int("clients", 50, "Number of client records")
	seed := flag.Int64("seed", 42, "Random seed")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	g := &generator{rng: rand.New(rand.NewSource(*seed))}
	if err := g.writeAll(*outDir, *clients); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote messy legacy CSVs to %s (%d clients)", *outDir, *clients)
}

type generator struct {
	rng *rand.Rand
}

func (g *generator) pick(options ...string) string {
	return options[g.rng.Intn(len(options))]
}

func (g *generator) maybe(p float64, value string) string {
	if g.rng.Float64() < p {
		return value
	}
	return ""
}

// messyDate renders one date in a randomly chosen legacy format, sometimes a
// placeholder or sentinel.
func (g *generator) messyDate(yearLo, yearHi int) string {
	year := yearLo + g.rng.Intn(yearHi-yearLo+1)
	month := 1 + g.rng.Intn(12)
	day := 1 + g.rng.Intn(28)
	switch g.rng.Intn(8) {
	case 0:
		return fmt.Sprintf("%02d/%02d/%04d", month, day, year)
	case 1:
		return fmt.Sprintf("%02d/%02d/%04d", day, month, year)
	case 2:
		return fmt.Sprintf("%s %d, %d", monthNames[month-1], day, year)
	case 3:
		return fmt.Sprintf("%d %s %d", day, monthNames[month-1][:3], year)
	case 4:
		return g.pick("N/A", "", "-", "00/00/0000")
	default:
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	}
}

var monthNames = []string{"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

var (
	firstNames = []string{"John", "Jane", "Maria", "Hans", "Yuki", "Chen", "Priya", "Carlos", "Emma", "Lars"}
	lastNames  = []string{"Smith", "Doe", "Garcia", "Weber", "Tanaka", "Wang", "Patel", "Silva", "Brown", "Nielsen"}
	companies  = []string{"TechCorp Industries", "Innovatech Solutions", "Global Dynamics", "Apex Materials", "Quantum Devices"}
	countries  = []string{"USA", "US", "United States", "united states", "Germany", "Deutschland", "UK", "United Kingdom", "Japan", "JAPAN", "Atlantis"}
)

func (g *generator) messyPhone() string {
	a, b, c := 200+g.rng.Intn(700), g.rng.Intn(1000), g.rng.Intn(10000)
	switch g.rng.Intn(5) {
	case 0:
		return fmt.Sprintf("%03d-%03d-%04d", a, b, c)
	case 1:
		return fmt.Sprintf("(%03d) %03d %04d", a, b, c)
	case 2:
		return fmt.Sprintf("1-%03d-%03d-%04d", a, b, c)
	case 3:
		return g.pick("000-000-0000", "N/A", "")
	default:
		return fmt.Sprintf("%03d.%03d.%04d", a, b, c)
	}
}

func (g *generator) writeAll(dir string, nClients int) error {
	clientIDs := make([]string, nClients)
	clientRows := make([][]string, 0, nClients)
	for i := range clientIDs {
		clientIDs[i] = fmt.Sprintf("CL-%04d", i+1)
		clientRows = append(clientRows, g.clientRow(clientIDs[i]))
	}
	if err := writeCSV(filepath.Join(dir, "clients.csv"), clientHeader, clientRows); err != nil {
		return err
	}

	var patentRows, tmRows, dlRows [][]string
	patentIDs := []string{}
	for i := 0; i < nClients*2; i++ {
		id := fmt.Sprintf("PAT-%04d", i+1)
		patentIDs = append(patentIDs, id)
		patentRows = append(patentRows, g.patentRow(id, g.pick(clientIDs...)))
	}
	for i := 0; i < nClients; i++ {
		tmRows = append(tmRows, g.trademarkRow(fmt.Sprintf("TM-%04d", i+1), g.pick(clientIDs...)))
	}
	for i := 0; i < nClients*3; i++ {
		dlRows = append(dlRows, g.deadlineRow(fmt.Sprintf("DL-%04d", i+1), g.pick(clientIDs...), g.pick(patentIDs...)))
	}

	if err := writeCSV(filepath.Join(dir, "patents.csv"), patentHeader, patentRows); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(dir, "trademarks.csv"), trademarkHeader, tmRows); err != nil {
		return err
	}
	return writeCSV(filepath.Join(dir, "deadlines.csv"), deadlineHeader, dlRows)
}

var clientHeader = []string{"client_id", "client_name", "first_name", "last_name", "company_name",
	"client_type", "email", "email_secondary", "phone", "phone_mobile", "fax",
	"address_line1", "address_line2", "city", "state_province", "postal_code", "country",
	"created_on", "status", "notes"}

func (g *generator) clientRow(id string) []string {
	first := g.pick(firstNames...)
	last := g.pick(lastNames...)
	isCompany := g.rng.Float64() < 0.4

	clientName, firstField, lastField, company, clientType := "", "", "", "", ""
	if isCompany {
		company = g.pick(companies...)
		clientName = company
		clientType = g.pick("company", "corporation", "Corp", "legal entity")
	} else {
		clientType = g.pick("individual", "Person", "INDIVIDUAL")
		// Some rows carry only the combined form, some only split fields,
		// some both (occasionally disagreeing).
		switch g.rng.Intn(4) {
		case 0:
			clientName = fmt.Sprintf("%s, %s", last, first)
		case 1:
			firstField, lastField = first, last
		case 2:
			clientName = fmt.Sprintf("%s, %s", last, first)
			firstField, lastField = first, last
		default:
			clientName = fmt.Sprintf("%s, %s", g.pick(lastNames...), first)
			firstField, lastField = first, last
		}
	}

	email := fmt.Sprintf("%s.%s@example.com", first, last)
	if g.rng.Float64() < 0.15 {
		email = fmt.Sprintf("%s.%s_at_example.com", first, last)
	}

	return []string{
		id, clientName, firstField, lastField, company, clientType,
		email, "", g.messyPhone(), g.maybe(0.3, g.messyPhone()), g.maybe(0.2, g.messyPhone()),
		"123 Main St", "", "Springfield", "CA", "90210", g.pick(countries...),
		g.messyDate(2018, 2023), g.pick("active", "ACTIVE", "inactive", "suspended", "unknown"),
		g.maybe(0.3, "Legacy client record"),
	}
}

var patentHeader = []string{"patent_id", "client_id", "title", "inventors", "application_number",
	"filing_date", "priority_date", "publication_date", "grant_date", "expiry_date",
	"jurisdiction", "status", "ipc_classes", "created_on"}

func (g *generator) patentRow(id, clientID string) []string {
	return []string{
		id, clientID,
		fmt.Sprintf("Method and apparatus for %s", g.pick("sealing valves", "data compression", "battery cooling", "image ranking")),
		fmt.Sprintf("%s, %s; %s, %s", g.pick(lastNames...), g.pick(firstNames...), g.pick(lastNames...), g.pick(firstNames...)),
		fmt.Sprintf("US%08d", g.rng.Intn(100000000)),
		g.messyDate(2010, 2020), g.maybe(0.6, g.messyDate(2009, 2019)), g.maybe(0.7, g.messyDate(2011, 2021)),
		g.maybe(0.6, g.messyDate(2012, 2023)), g.maybe(0.3, g.messyDate(2030, 2043)),
		g.pick(countries...),
		g.pick("granted", "Issued", "pending", "filed", "under examination", "LAPSED", "in limbo"),
		g.maybe(0.7, "G06F 1/42; H04L 9/06"),
		g.messyDate(2018, 2023),
	}
}

var trademarkHeader = []string{"tm_id", "client_id", "mark_text", "mark_type", "nice_classes",
	"filing_date", "registration_date", "first_use_date", "first_use_commerce_date",
	"jurisdiction", "status", "created_on"}

func (g *generator) trademarkRow(id, clientID string) []string {
	classes := fmt.Sprintf("%d, %d", 1+g.rng.Intn(45), 1+g.rng.Intn(45))
	if g.rng.Float64() < 0.25 {
		classes += fmt.Sprintf(", %d", 46+g.rng.Intn(60)) // out of domain
	}
	return []string{
		id, clientID,
		g.pick("ZEPHYR", "NIMBUS", "QUANTA", "VERTEX", "AURORA"),
		g.pick("word", "Word Mark", "logo", "figurative", "combined", "???"),
		classes,
		g.messyDate(2015, 2022), g.maybe(0.6, g.messyDate(2016, 2023)),
		g.maybe(0.5, g.messyDate(2014, 2021)), g.maybe(0.5, g.messyDate(2014, 2021)),
		g.pick(countries...),
		g.pick("registered", "REGISTERED", "pending", "published", "opposed", "cancelled"),
		g.messyDate(2018, 2023),
	}
}

var deadlineHeader = []string{"deadline_id", "related_type", "related_id", "client_id",
	"deadline_type", "due_date", "description", "priority", "status", "completed_date", "created_on"}

func (g *generator) deadlineRow(id, clientID, patentID string) []string {
	status := g.pick("pending", "open", "completed", "Done", "overdue")
	completed := ""
	if status == "completed" || status == "Done" {
		completed = g.messyDate(2022, 2024)
	}
	return []string{
		id, g.pick("patent", "Patents", "patent", "trademark", "matter"), patentID, clientID,
		g.pick("annuity", "office action response", "renewal", "opposition deadline"),
		g.messyDate(2023, 2027),
		g.pick("Annuity payment due", "Response to office action", "Renewal filing"),
		g.pick("high", "URGENT", "medium", "Normal", "critical", "ASAP", "low"),
		status, completed, g.messyDate(2018, 2023),
	}
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
