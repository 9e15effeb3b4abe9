package mirror

import (
	"strings"
	"text/template"
)

var appsScriptTemplate = template.Must(template.New("appsscript").Parse(`// Roster write endpoint.
//
// Paste into a new project at script.google.com, then
// Deploy > New deployment > Web app, execute as yourself with access for
// anyone. Put the deployment URL in write_url in roster's config.

const SPREADSHEET_ID = '{{.SpreadsheetID}}';

function reply(body) {
  return ContentService.createTextOutput(JSON.stringify(body))
    .setMimeType(ContentService.MimeType.JSON);
}

function rowOf(d) {
  return [d.name, d.department, d.redFlag, d.onhold, d.assistedTicket, d.late];
}

// Rows are matched on an exact name in the first column.
function findRow(sheet, name) {
  const values = sheet.getDataRange().getValues();
  for (let i = 1; i < values.length; i++) {
    if (values[i][0] === name) {
      return i + 1;
    }
  }
  return -1;
}

function doPost(e) {
  try {
    const req = JSON.parse(e.postData.contents);
    const sheet = SpreadsheetApp.openById(req.spreadsheetId || SPREADSHEET_ID).getActiveSheet();
    const d = req.data;

    switch (req.action) {
      case 'add':
        sheet.appendRow(rowOf(d));
        return reply({ success: true, message: 'Employee added successfully' });
      case 'edit': {
        const row = findRow(sheet, d.name);
        if (row < 0) {
          return reply({ success: false, message: 'Employee not found' });
        }
        sheet.getRange(row, 1, 1, {{.Columns}}).setValues([rowOf(d)]);
        return reply({ success: true, message: 'Employee updated successfully' });
      }
      case 'delete': {
        const row = findRow(sheet, d.name);
        if (row < 0) {
          return reply({ success: false, message: 'Employee not found' });
        }
        sheet.deleteRow(row);
        return reply({ success: true, message: 'Employee deleted successfully' });
      }
    }
    return reply({ success: false, message: 'Invalid action' });
  } catch (error) {
    return reply({ success: false, error: error.toString() });
  }
}

function doGet() {
  return reply({ success: true, message: 'Roster write endpoint is working' });
}
`))

// AppsScript renders the Google Apps Script that serves as the write
// endpoint for the given spreadsheet.
func AppsScript(spreadsheetID string) string {
	var b strings.Builder
	data := struct {
		SpreadsheetID string
		Columns       int
	}{
		SpreadsheetID: spreadsheetID,
		Columns:       6,
	}
	if err := appsScriptTemplate.Execute(&b, data); err != nil {
		panic(err)
	}
	return b.String()
}
