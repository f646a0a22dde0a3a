package models

import (
	"time"

	"gorm.io/datatypes"
)

// TimestampLayout is the ISO-8601 layout used for server-assigned record timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// WeatherRecord is one measurement received from the camera device.
type WeatherRecord struct {
	Timestamp   string  `json:"timestamp"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
}

func NewWeatherRecord(at time.Time, temperature, humidity, pressure float64) WeatherRecord {
	return WeatherRecord{
		Timestamp:   at.Format(TimestampLayout),
		Temperature: temperature,
		Humidity:    humidity,
		Pressure:    pressure,
	}
}

// Time parses the record timestamp. Records written by older tools may carry
// a plain RFC 3339 stamp, so both layouts are accepted.
func (r WeatherRecord) Time() (time.Time, error) {
	if t, err := time.ParseInLocation(TimestampLayout, r.Timestamp, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, r.Timestamp)
}

// WeatherArchive mirrors accepted weather records into the optional SQL archive.
type WeatherArchive struct {
	ID          uint           `gorm:"primaryKey"`
	RecordedAt  time.Time      `gorm:"not null;index"`
	Temperature float64        `gorm:"not null"`
	Humidity    float64        `gorm:"not null"`
	Pressure    float64        `gorm:"not null"`
	Payload     datatypes.JSON `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
}
