package bloodstock

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bloodstock/bloodstock/pkg/api"
	"github.com/olekukonko/tablewriter"
)

const (
	wideRule   = 100
	narrowRule = 60
)

var tableHeaders = []string{"#", "Hospital/Blood Bank", "Distance", "Contact", "Component", "Stock"}

var noStockSuggestions = []string{
	"Try expanding your search radius",
	"Check for a different blood component",
	"Contact local blood banks directly",
}

// Presenter writes search progress and results for a terminal.
type Presenter struct {
	out io.Writer
}

func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{out: out}
}

func (p *Presenter) Searching(req api.SearchRequest) {
	fmt.Fprintf(p.out, "\nSearching for %s blood near (%g, %g)...\n", req.BloodGroup, req.Latitude, req.Longitude)
}

// Render prints a result: a table and address list, the no-stock notice or
// the error message.
func (p *Presenter) Render(res Result) {
	switch res.Outcome {
	case OutcomeFound:
		p.records(res.Request.BloodGroup, res.Records)
	case OutcomeNoStock:
		p.noStock(res.Request.BloodGroup)
	default:
		fmt.Fprintf(p.out, "\n%s\n", ErrorMessage(res.Err))
	}
}

func (p *Presenter) records(bg api.BloodGroup, records []api.BloodBankRecord) {
	fmt.Fprintf(p.out, "\n%s\n", rule(wideRule))
	fmt.Fprintf(p.out, "BLOOD STOCK AVAILABILITY FOR %s\n", bg)
	fmt.Fprintf(p.out, "%s\n", rule(wideRule))
	fmt.Fprintf(p.out, "Found %d blood bank(s) with available stock\n\n", len(records))

	table := newTable(p.out, tableHeaders)
	for _, r := range records {
		table.Append([]string{
			strconv.Itoa(r.SequenceNumber),
			r.HospitalName,
			r.Distance,
			r.Contact,
			r.Component,
			r.Stock,
		})
	}
	table.Render()

	fmt.Fprintf(p.out, "\nADDRESSES:\n%s\n", rule(narrowRule))
	for _, r := range records {
		fmt.Fprintf(p.out, "  %d. %s\n", r.SequenceNumber, r.Address)
	}

	fmt.Fprintln(p.out, "\nSearch completed successfully!")
	fmt.Fprintln(p.out, "Tip: Contact the blood bank before visiting to confirm availability.")
}

func (p *Presenter) noStock(bg api.BloodGroup) {
	fmt.Fprintf(p.out, "\n%s\n", rule(narrowRule))
	fmt.Fprintf(p.out, "No blood banks found with %s blood stock nearby.\n", bg)
	fmt.Fprintf(p.out, "%s\n", rule(narrowRule))
	fmt.Fprintln(p.out, "\nSuggestions:")
	for _, s := range noStockSuggestions {
		fmt.Fprintf(p.out, "  • %s\n", s)
	}
}

// BloodGroups prints the blood group code table.
func (p *Presenter) BloodGroups(groups []api.BloodGroup) {
	table := newTable(p.out, []string{"Blood Group", "Code"})
	for _, bg := range groups {
		table.Append([]string{bg.String(), strconv.Itoa(bg.Code())})
	}
	table.Render()
}

func (p *Presenter) Separator() {
	fmt.Fprintf(p.out, "\n%s\n", rule(narrowRule))
}

func newTable(out io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetRowLine(true)
	return table
}

func rule(width int) string {
	return strings.Repeat("=", width)
}
