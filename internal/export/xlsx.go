package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// SheetName is the worksheet holding the county table.
const SheetName = "Counties"

var xlsxHeader = []string{"GEOID", "FIPS", "STATEFP", "COUNTYFP", "State", "County", "BachelorsOrHigher", "Color", "Matched"}

// WriteXLSX writes rows as a single-sheet workbook.
func WriteXLSX(path string, rows []Row) error {
	f, err := workbook(rows)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, func(w io.Writer) error {
		if err := f.Write(w); err != nil {
			return eris.Wrap(err, "export: write xlsx")
		}
		return nil
	})
}

func workbook(rows []Row) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return nil, eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range xlsxHeader {
		header.AddCell().SetString(h)
	}

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.GEOID)
		row.AddCell().SetInt(r.FIPS)
		row.AddCell().SetString(r.StateFP)
		row.AddCell().SetString(r.CountyFP)
		row.AddCell().SetString(r.State)
		row.AddCell().SetString(r.Name)
		row.AddCell().SetFloat(r.Rate)
		row.AddCell().SetString(r.Color)
		row.AddCell().SetBool(r.Matched)
	}
	return f, nil
}
