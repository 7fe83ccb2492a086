package entry

import (
	"strconv"
)

// Row returns the columns used when printing entries as a table: id, time,
// mood, level and notes.
func (e *Entry) Row() (string, string, string, string, string) {
	return strconv.FormatInt(e.ID, 10),
		e.Timestamp.Local().Format(LayoutDisplay),
		e.Mood,
		strconv.Itoa(e.MoodLevel),
		e.Notes
}
