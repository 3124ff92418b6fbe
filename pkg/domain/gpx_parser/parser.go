// Package gpx_parser decodes GPX track logs. The format carries no
// precomputed summaries, so distance, duration, heart rate and
// elevation gain are derived from the point stream by numerical
// integration.
package gpx_parser

import (
	"encoding/xml"
	"fmt"
	"math"
	"time"

	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

const earthRadiusMeters = 6371000

type gpxFile struct {
	XMLName  xml.Name    `xml:"gpx"`
	Metadata gpxMetadata `xml:"metadata"`
	Tracks   []gpxTrack  `xml:"trk"`
}

type gpxMetadata struct {
	Time string `xml:"time"`
}

type gpxTrack struct {
	Name     string       `xml:"name"`
	Type     string       `xml:"type"`
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat       float64       `xml:"lat,attr"`
	Lon       float64       `xml:"lon,attr"`
	Elevation *float64      `xml:"ele"`
	Time      string        `xml:"time"`
	Extension *gpxExtension `xml:"extensions"`
}

// gpxExtension covers the Garmin TrackPointExtension heart-rate field,
// which tools nest one level deeper than the bare form.
type gpxExtension struct {
	HeartRate       *float64 `xml:"hr"`
	TrackPointExtHR *float64 `xml:"TrackPointExtension>hr"`
}

func (e *gpxExtension) heartRate() (float64, bool) {
	if e == nil {
		return 0, false
	}
	if e.HeartRate != nil {
		return *e.HeartRate, true
	}
	if e.TrackPointExtHR != nil {
		return *e.TrackPointExtHR, true
	}
	return 0, false
}

// ParseGPXFile decodes a GPX document into a FileRecord. A document
// without any track still yields a minimal record carrying only the
// metadata timestamp.
func ParseGPXFile(data []byte) (*types.FileRecord, error) {
	var doc gpxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode GPX file: %w", err)
	}

	rec := &types.FileRecord{Format: "gpx"}
	if len(doc.Tracks) == 0 {
		if ts, err := time.Parse(time.RFC3339, doc.Metadata.Time); err == nil {
			rec.StartTime = ts.UTC()
		}
		return rec, nil
	}

	track := doc.Tracks[0]
	rec.Name = track.Name
	rec.Sport = track.Type

	// Flatten all segments of all tracks in document order.
	var points []types.Point
	var hrSum, hrMax float64
	var hrCount int
	var gain, loss float64

	var prev *types.Point
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, tp := range seg.Points {
				p := types.Point{Lat: tp.Lat, Lon: tp.Lon}
				if tp.Elevation != nil {
					p.AltitudeMeters = *tp.Elevation
				}
				if ts, err := time.Parse(time.RFC3339, tp.Time); err == nil {
					p.Time = ts.UTC()
				}
				if hr, ok := tp.Extension.heartRate(); ok {
					p.HeartRate = hr
					hrSum += hr
					hrCount++
					if hr > hrMax {
						hrMax = hr
					}
				}

				if prev != nil {
					rec.DistanceKm += haversine(prev.Lat, prev.Lon, p.Lat, p.Lon) / 1000
					if tp.Elevation != nil {
						delta := p.AltitudeMeters - prev.AltitudeMeters
						// Only ascents count toward gain.
						if delta > 0 {
							gain += delta
						} else {
							loss += -delta
						}
					}
				}

				points = append(points, p)
				prev = &points[len(points)-1]
			}
		}
	}

	rec.Points = points
	rec.ElevGain = gain
	rec.ElevLoss = loss
	rec.HasGPS = len(points) > 0

	if len(points) > 0 {
		rec.StartTime = points[0].Time
	}
	if len(points) >= 2 {
		rec.DurationSec = points[len(points)-1].Time.Sub(points[0].Time).Seconds()
	}
	if hrCount > 0 {
		rec.AvgHeartRate = hrSum / float64(hrCount)
		rec.MaxHeartRate = hrMax
	}
	if rec.DurationSec > 0 {
		rec.AvgSpeedKmh = rec.DistanceKm / (rec.DurationSec / 3600)
	}

	return rec, nil
}

// haversine returns the great-circle distance in meters.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
