package application

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestGetLinksReport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	links := newMemLinks()
	links.link("111", 900, "@alice")
	links.link("222", 901, "@bob")
	links.ClearByDestID(ctx, 901)

	data, err := NewExportServiceImpl(links, nopLogger{}).GetLinksReport(ctx)
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(rows))
	}
	if rows[0][0] != "Source ID" || rows[1][0] != "111" || rows[1][1] != "900" || rows[1][2] != "@alice" {
		t.Errorf("first data row: %v", rows[1])
	}
	if rows[2][0] != "" || rows[2][1] != "901" || rows[2][3] != "no" {
		t.Errorf("cleared row: %v", rows[2])
	}
}

func TestGetLinksReportStoreFailure(t *testing.T) {
	t.Parallel()
	links := newMemLinks()
	links.setFail(errBackend)

	if _, err := NewExportServiceImpl(links, nopLogger{}).GetLinksReport(context.Background()); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("got %v, want ErrStoreUnavailable", err)
	}
}
