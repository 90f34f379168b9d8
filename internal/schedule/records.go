package schedule

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/teemow/optimeet/internal/timeofday"
)

// ErrMalformedRecord is returned by LoadRecords for lines that are not
// "day|start|end|contact|notes|agenda".
var ErrMalformedRecord = errors.New("malformed meeting record")

const recordFields = 6

// placeholderMarker starts the line of a placeholder meeting, so a real
// meeting booked at the placeholder span stays real after a reload.
const placeholderMarker = "~"

// LoadRecords parses pipe-delimited meeting records, one per line:
//
//	tuesday|09:00 AM|10:00 AM|Marcos|talked budgets|Q3 plan
//
// Blank lines and lines starting with '#' are skipped. A leading '~' marks a
// placeholder meeting. Notes and agenda may be empty; the agenda may itself
// contain '|'.
func LoadRecords(r io.Reader) ([]Meeting, error) {
	var meetings []Meeting

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		record, placeholder := strings.CutPrefix(line, placeholderMarker)
		m, err := parseRecord(strings.TrimSpace(record))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		m.Artificial = placeholder
		meetings = append(meetings, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read meeting records: %w", err)
	}
	return meetings, nil
}

func parseRecord(line string) (Meeting, error) {
	fields := strings.SplitN(line, "|", recordFields)
	if len(fields) < 4 {
		return Meeting{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, recordFields, len(fields))
	}
	for len(fields) < recordFields {
		fields = append(fields, "")
	}

	day, err := timeofday.ParseDay(fields[0])
	if err != nil {
		return Meeting{}, err
	}
	start, err := timeofday.ParseMinute(fields[1])
	if err != nil {
		return Meeting{}, err
	}
	end, err := timeofday.ParseMinute(fields[2])
	if err != nil {
		return Meeting{}, err
	}

	m := Meeting{
		Day:     day,
		Start:   start,
		End:     end,
		Contact: strings.TrimSpace(fields[3]),
		Notes:   fields[4],
		Agenda:  fields[5],
	}
	if m.Contact == "" {
		return Meeting{}, fmt.Errorf("%w: empty contact", ErrMalformedRecord)
	}
	if err := m.Validate(); err != nil {
		return Meeting{}, err
	}
	return m, nil
}

// WriteRecords writes meetings in the format read by LoadRecords.
// Line breaks and '|' in contact and notes are replaced by spaces.
func WriteRecords(w io.Writer, meetings []Meeting) error {
	bw := bufio.NewWriter(w)
	for _, m := range meetings {
		if m.Artificial {
			if _, err := bw.WriteString(placeholderMarker); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(bw, "%s|%s|%s|%s|%s|%s\n",
			m.Day, m.Start, m.End,
			sanitizeField(m.Contact, true),
			sanitizeField(m.Notes, true),
			sanitizeField(m.Agenda, false))
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

func sanitizeField(s string, stripPipes bool) string {
	replacer := strings.NewReplacer("\r", " ", "\n", " ")
	s = replacer.Replace(s)
	if stripPipes {
		s = strings.ReplaceAll(s, "|", " ")
	}
	return s
}

// LoadFile reads records from path into a new calendar. Records are added
// with Record so historical data with collisions still loads.
func LoadFile(path string) (*Calendar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer f.Close()

	meetings, err := LoadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cal := NewCalendar()
	for _, m := range meetings {
		if _, err := cal.Record(m); err != nil {
			return nil, err
		}
	}
	return cal, nil
}

// SaveFile writes all meetings of cal to path.
func SaveFile(path string, cal *Calendar) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to create calendar file: %w", err)
	}
	if err := WriteRecords(f, cal.Meetings()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write calendar file: %w", err)
	}
	return f.Close()
}
