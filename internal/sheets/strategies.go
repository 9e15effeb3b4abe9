package sheets

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/five82/roster/internal/roster"
)

// Method labels the retrieval strategy that produced a result.
type Method string

const (
	MethodCSV           Method = "CSV"
	MethodVisualization Method = "Visualization API"
	MethodAltCSV        Method = "Alternative CSV"
)

// strategy turns a Source into a raw cell grid.
type strategy struct {
	method Method
	grid   func(ctx context.Context, c *Client, src Source) ([][]string, error)
}

// strategies are tried in order; the first that yields records wins.
var strategies = []strategy{
	{method: MethodCSV, grid: csvExportGrid},
	{method: MethodVisualization, grid: visualizationGrid},
	{method: MethodAltCSV, grid: altCSVGrid},
}

// Phrases Google serves in place of data for missing or private sheets.
var rejectionMarkers = []string{
	"Sorry, the file you have requested does not exist",
	"You need permission",
}

var errEmptyBody = errors.New("empty response body")

func checkMarkers(text string) error {
	for _, marker := range rejectionMarkers {
		if strings.Contains(text, marker) {
			return fmt.Errorf("sheet rejected request: %q", marker)
		}
	}
	if strings.TrimSpace(text) == "" {
		return errEmptyBody
	}
	return nil
}

func exportPath(id string) string {
	return "/spreadsheets/d/" + url.PathEscape(id) + "/export"
}

func csvExportGrid(ctx context.Context, c *Client, src Source) ([][]string, error) {
	values := url.Values{}
	values.Set("format", "csv")
	values.Set("gid", "0")
	text, err := c.getText(ctx, &url.URL{Path: exportPath(src.SpreadsheetID), RawQuery: values.Encode()})
	if err != nil {
		return nil, err
	}
	return parseCSV(text)
}

func altCSVGrid(ctx context.Context, c *Client, src Source) ([][]string, error) {
	values := url.Values{}
	values.Set("format", "csv")
	values.Set("id", src.SpreadsheetID)
	values.Set("gid", "0")
	text, err := c.getText(ctx, &url.URL{Path: exportPath(src.SpreadsheetID), RawQuery: values.Encode()})
	if err != nil {
		return nil, err
	}
	return splitNaive(text), nil
}

// vizResponse is the subset of the gviz table payload we read.
type vizResponse struct {
	Table *struct {
		Rows []struct {
			C []*struct {
				V any `json:"v"`
			} `json:"c"`
		} `json:"rows"`
	} `json:"table"`
}

func visualizationGrid(ctx context.Context, c *Client, src Source) ([][]string, error) {
	values := url.Values{}
	values.Set("tqx", "out:json")
	values.Set("sheet", src.sheet())
	values.Set("headers", "1")
	values.Set("tq", "SELECT *")
	rel := &url.URL{
		Path:     "/spreadsheets/d/" + url.PathEscape(src.SpreadsheetID) + "/gviz/tq",
		RawQuery: values.Encode(),
	}
	text, err := c.getText(ctx, rel)
	if err != nil {
		return nil, err
	}
	return parseVisualization(text)
}

// parseVisualization extracts the JSON object wrapped in the gviz
// "setResponse(...)" envelope and flattens its cell values into a grid with a
// synthetic header row.
func parseVisualization(text string) ([][]string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON payload in response")
	}
	dec := json.NewDecoder(strings.NewReader(text[start : end+1]))
	dec.UseNumber()
	var payload vizResponse
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if payload.Table == nil {
		return nil, fmt.Errorf("payload has no table")
	}

	grid := make([][]string, 0, len(payload.Table.Rows)+1)
	grid = append(grid, append([]string(nil), roster.HeaderRow...))
	for _, row := range payload.Table.Rows {
		cells := make([]string, len(row.C))
		for i, cell := range row.C {
			if cell != nil {
				cells[i] = vizCellText(cell.V)
			}
		}
		grid = append(grid, cells)
	}
	return dropBlankRows(grid), nil
}

func vizCellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return ""
	default:
		return ""
	}
}

// parseCSV reads quote-aware CSV: a quoted field may contain the delimiter.
func parseCSV(text string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	for _, row := range rows {
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
	}
	return dropBlankRows(rows), nil
}

// splitNaive splits on every comma and strips all double quotes. Quoted
// commas are not honoured.
func splitNaive(text string) [][]string {
	lines := strings.Split(text, "\n")
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		cells := strings.Split(line, ",")
		for i := range cells {
			cells[i] = strings.TrimSpace(strings.ReplaceAll(cells[i], `"`, ""))
		}
		rows = append(rows, cells)
	}
	return dropBlankRows(rows)
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
