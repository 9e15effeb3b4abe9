package ui

import (
	"testing"

	"github.com/five82/roster/internal/mirror"
	"github.com/five82/roster/internal/roster"
)

func TestRecordForm_Validation(t *testing.T) {
	tests := []struct {
		name    string
		values  [6]string
		wantErr string
		want    roster.Record
	}{
		{
			name:    "missing name",
			values:  [6]string{"  ", "Ops", "1", "2", "3", "4"},
			wantErr: "name is required",
		},
		{
			name:    "negative metric",
			values:  [6]string{"Ana", "", "-1", "", "", ""},
			wantErr: "Red Flag must be a whole number",
		},
		{
			name:    "fractional metric",
			values:  [6]string{"Ana", "", "", "", "2.5", ""},
			wantErr: "Assisted Ticket must be a whole number",
		},
		{
			name:   "blank metrics are zero",
			values: [6]string{" Ana ", "", "", "7", "", ""},
			want:   roster.Record{ID: 3, Name: "Ana", Onhold: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRecordForm(mirror.ActionEdit, roster.Record{ID: 3})
			for i, v := range tt.values {
				f.inputs[i].SetValue(v)
			}
			got, err := f.record()
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("record = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRecordForm_PrefillsOnlyForEdit(t *testing.T) {
	rec := roster.Record{ID: 1, Name: "Ana", Department: "Ops", RedFlag: 4}

	edit := newRecordForm(mirror.ActionEdit, rec)
	if edit.inputs[fieldRedFlag].Value() != "4" || edit.inputs[fieldDepartment].Value() != "Ops" {
		t.Fatal("edit form should carry the current values")
	}

	add := newRecordForm(mirror.ActionAdd, roster.Record{})
	if add.inputs[fieldRedFlag].Value() != "" {
		t.Fatalf("add form metric = %q, want blank", add.inputs[fieldRedFlag].Value())
	}
}

func TestRecordForm_InvalidSubmitStaysOpen(t *testing.T) {
	f := newRecordForm(mirror.ActionAdd, roster.Record{})
	_, cmd, closed := f.submit()
	if closed || cmd != nil || f.err == "" {
		t.Fatalf("closed=%v cmd=%v err=%q, want form kept open with error", closed, cmd != nil, f.err)
	}
}
