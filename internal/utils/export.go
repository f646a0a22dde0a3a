package utils

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"camgallery/internal/models"
)

// Summary holds min/max values over a slice of records.
type Summary struct {
	MinTemperature, MaxTemperature float64
	MinHumidity, MaxHumidity       float64
	MinPressure, MaxPressure       float64
}

func Summarize(records []models.WeatherRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}
	first := records[0]
	s := Summary{
		MinTemperature: first.Temperature, MaxTemperature: first.Temperature,
		MinHumidity: first.Humidity, MaxHumidity: first.Humidity,
		MinPressure: first.Pressure, MaxPressure: first.Pressure,
	}
	for _, r := range records[1:] {
		s.MinTemperature = min(s.MinTemperature, r.Temperature)
		s.MaxTemperature = max(s.MaxTemperature, r.Temperature)
		s.MinHumidity = min(s.MinHumidity, r.Humidity)
		s.MaxHumidity = max(s.MaxHumidity, r.Humidity)
		s.MinPressure = min(s.MinPressure, r.Pressure)
		s.MaxPressure = max(s.MaxPressure, r.Pressure)
	}
	return s
}

func SaveAsCSV(filepath string, records []models.WeatherRecord) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"timestamp", "temperature", "humidity", "pressure"}); err != nil {
		return err
	}
	for _, record := range records {
		row := []string{
			record.Timestamp,
			fmt.Sprintf("%.2f", record.Temperature),
			fmt.Sprintf("%.2f", record.Humidity),
			fmt.Sprintf("%.2f", record.Pressure),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

func SaveAsJSON(filepath string, data interface{}) error {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	return os.WriteFile(filepath, payload, 0644)
}
