package utils

import (
	"fmt"
	"time"

	"camgallery/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	weatherSheet = "Weather"
	infoSheet    = "Info"
)

// CreateExcelFile writes the weather log to an xlsx workbook with a
// temperature chart and a summary sheet.
func CreateExcelFile(filepath string, records []models.WeatherRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", weatherSheet); err != nil {
		return err
	}

	headers := []string{"Timestamp", "Temperature (°C)", "Humidity (%)", "Pressure (hPa)"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(weatherSheet, cell, header)
	}

	numberStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("0.00")})
	if err != nil {
		return err
	}

	for rowIdx, record := range records {
		rowNum := rowIdx + 2 // header on row 1

		f.SetCellValue(weatherSheet, fmt.Sprintf("A%d", rowNum), record.Timestamp)
		f.SetCellValue(weatherSheet, fmt.Sprintf("B%d", rowNum), record.Temperature)
		f.SetCellValue(weatherSheet, fmt.Sprintf("C%d", rowNum), record.Humidity)
		f.SetCellValue(weatherSheet, fmt.Sprintf("D%d", rowNum), record.Pressure)
	}

	if len(records) > 0 {
		last := len(records) + 1
		if err := f.SetCellStyle(weatherSheet, "B2", fmt.Sprintf("D%d", last), numberStyle); err != nil {
			return err
		}
		if err := addTemperatureHighlights(f, last); err != nil {
			return err
		}
	}

	for i := 1; i <= len(headers); i++ {
		colName, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(weatherSheet, colName, colName, 22)
	}

	if len(records) > 1 {
		if err := addTemperatureChart(f, len(records)); err != nil {
			return err
		}
	}

	if err := createInfoSheet(f, records); err != nil {
		return err
	}

	return f.SaveAs(filepath)
}

func addTemperatureHighlights(f *excelize.File, lastRow int) error {
	hot, err := fillStyle(f, "#FFCCCC")
	if err != nil {
		return err
	}
	cold, err := fillStyle(f, "#CCE5FF")
	if err != nil {
		return err
	}

	rng := fmt.Sprintf("B2:B%d", lastRow)
	return f.SetConditionalFormat(weatherSheet, rng, []excelize.ConditionalFormatOptions{
		{Type: "cell", Criteria: ">", Value: "30", Format: &hot},
		{Type: "cell", Criteria: "<", Value: "0", Format: &cold},
	})
}

func addTemperatureChart(f *excelize.File, count int) error {
	last := count + 1
	return f.AddChart(weatherSheet, "F2", &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       "Temperature",
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", weatherSheet, last),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", weatherSheet, last),
			},
		},
		Title: []excelize.RichTextRun{{Text: "Temperature Over Time"}},
		XAxis: excelize.ChartAxis{MajorGridLines: true},
		YAxis: excelize.ChartAxis{MajorGridLines: true},
		Dimension: excelize.ChartDimension{
			Width:  640,
			Height: 400,
		},
	})
}

func createInfoSheet(f *excelize.File, records []models.WeatherRecord) error {
	if _, err := f.NewSheet(infoSheet); err != nil {
		return err
	}

	rows := [][2]interface{}{
		{"Report Generated", time.Now().Format("2006-01-02 15:04:05")},
		{"Total Records", len(records)},
	}
	if len(records) > 0 {
		s := Summarize(records)
		rows = append(rows,
			[2]interface{}{"Time Range", fmt.Sprintf("%s to %s", records[0].Timestamp, records[len(records)-1].Timestamp)},
			[2]interface{}{"Temperature Range", fmt.Sprintf("%.2f°C - %.2f°C", s.MinTemperature, s.MaxTemperature)},
			[2]interface{}{"Humidity Range", fmt.Sprintf("%.2f%% - %.2f%%", s.MinHumidity, s.MaxHumidity)},
			[2]interface{}{"Pressure Range", fmt.Sprintf("%.2f - %.2f hPa", s.MinPressure, s.MaxPressure)},
		)
	}

	for i, row := range rows {
		f.SetCellValue(infoSheet, fmt.Sprintf("A%d", i+1), row[0])
		f.SetCellValue(infoSheet, fmt.Sprintf("B%d", i+1), row[1])
	}
	return nil
}

func fillStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{color},
			Pattern: 1,
		},
	})
}

func strPtr(s string) *string { return &s }
