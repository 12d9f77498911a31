// Package igc parses IGC flight-recorder track logs into ordered GPS fixes.
package igc

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"backend-flightlog/internal/geo"
)

var (
	ErrNoFixes = errors.New("igc: no valid B records")
	ErrNoDate  = errors.New("igc: missing HFDTE header")
)

// Fix is a single timestamped GPS sample from a B record.
type Fix struct {
	Time        time.Time `json:"time"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Valid       bool      `json:"valid"`
	PressureAlt float64   `json:"pressure_alt_m"`
	GPSAlt      float64   `json:"gps_alt_m"`
	SpeedMps    float64   `json:"speed_mps"`
}

// Alt returns the altitude to use for climb computation: pressure altitude
// when the recorder supplies one, GPS altitude otherwise.
func (f Fix) Alt() float64 {
	if f.PressureAlt != 0 {
		return f.PressureAlt
	}
	return f.GPSAlt
}

// TrackLog is a parsed IGC file.
type TrackLog struct {
	Date       time.Time `json:"date"`
	Pilot      string    `json:"pilot"`
	GliderType string    `json:"glider_type"`
	Fixes      []Fix     `json:"fixes"`
}

// Parse reads an IGC log. Malformed lines are skipped; the log is rejected
// only when the date header is missing or no B record decodes. Fix times
// that run backwards across UTC midnight roll over to the next day, and
// ground speed is derived from consecutive fixes.
func Parse(r io.Reader) (*TrackLog, error) {
	log := &TrackLog{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var prev *Fix
	dayOffset := time.Duration(0)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		switch {
		case strings.HasPrefix(line, "HFDTE"):
			if d, ok := parseDateHeader(line); ok {
				log.Date = d
			}
		case strings.HasPrefix(line, "HFPLT"):
			log.Pilot = headerValue(line)
		case strings.HasPrefix(line, "HFGTY"):
			log.GliderType = headerValue(line)
		case strings.HasPrefix(line, "B"):
			if log.Date.IsZero() {
				continue
			}
			fix, ok := parseBRecord(line, log.Date.Add(dayOffset))
			if !ok {
				continue
			}
			if prev != nil {
				if fix.Time.Before(prev.Time) {
					// UTC midnight rollover.
					dayOffset += 24 * time.Hour
					fix.Time = fix.Time.Add(24 * time.Hour)
				}
				if dt := fix.Time.Sub(prev.Time).Seconds(); dt > 0 {
					fix.SpeedMps = geo.HaversineM(prev.Lat, prev.Lng, fix.Lat, fix.Lng) / dt
				}
			}
			log.Fixes = append(log.Fixes, fix)
			prev = &log.Fixes[len(log.Fixes)-1]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if log.Date.IsZero() {
		return nil, ErrNoDate
	}
	if len(log.Fixes) == 0 {
		return nil, ErrNoFixes
	}
	return log, nil
}

// parseDateHeader handles both "HFDTE250316" and "HFDTEDATE:250316,01".
func parseDateHeader(line string) (time.Time, bool) {
	raw := strings.TrimPrefix(line, "HFDTE")
	raw = strings.TrimPrefix(raw, "DATE:")
	if i := strings.IndexByte(raw, ','); i >= 0 {
		raw = raw[:i]
	}
	if len(raw) < 6 {
		return time.Time{}, false
	}
	d, err := time.Parse("020106", raw[:6])
	if err != nil {
		return time.Time{}, false
	}
	return d.UTC(), true
}

// headerValue returns the text after the colon of an H record, e.g.
// "HFPLTPILOTINCHARGE:Jane Doe" -> "Jane Doe".
func headerValue(line string) string {
	if i := strings.IndexByte(line, ':'); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	return ""
}

// parseBRecord decodes a fix line:
//
//	B HHMMSS DDMMmmm[NS] DDDMMmmm[EW] [AV] PPPPP GGGGG
//	0 1      7           15           24   25    30
func parseBRecord(line string, date time.Time) (Fix, bool) {
	if len(line) < 35 {
		return Fix{}, false
	}

	hh, err1 := strconv.Atoi(line[1:3])
	mm, err2 := strconv.Atoi(line[3:5])
	ss, err3 := strconv.Atoi(line[5:7])
	if err1 != nil || err2 != nil || err3 != nil || hh > 23 || mm > 59 || ss > 59 {
		return Fix{}, false
	}

	lat, ok := parseCoord(line[7:14], line[14], 2)
	if !ok {
		return Fix{}, false
	}
	lng, ok := parseCoord(line[15:23], line[23], 3)
	if !ok {
		return Fix{}, false
	}

	pAlt, err1 := strconv.Atoi(line[25:30])
	gAlt, err2 := strconv.Atoi(line[30:35])
	if err1 != nil || err2 != nil {
		return Fix{}, false
	}

	return Fix{
		Time:        date.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute + time.Duration(ss)*time.Second),
		Lat:         lat,
		Lng:         lng,
		Valid:       line[24] == 'A',
		PressureAlt: float64(pAlt),
		GPSAlt:      float64(gAlt),
	}, true
}

// parseCoord decodes DDMMmmm (degDigits=2) or DDDMMmmm (degDigits=3) with a
// hemisphere suffix into signed decimal degrees.
func parseCoord(raw string, hemi byte, degDigits int) (float64, bool) {
	deg, err1 := strconv.Atoi(raw[:degDigits])
	minThousandths, err2 := strconv.Atoi(raw[degDigits:])
	if err1 != nil || err2 != nil {
		return 0, false
	}
	v := float64(deg) + float64(minThousandths)/1000/60
	switch hemi {
	case 'N', 'E':
		return v, true
	case 'S', 'W':
		return -v, true
	}
	return 0, false
}
