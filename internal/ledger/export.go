package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"LabCV-backend/internal/platform/apierr"
)

const (
	CSVEncodingUTF8     = "utf-8"
	CSVEncodingShiftJIS = "shift_jis"

	csvTimeLayout = "2006-01-02 15:04:05"
)

var csvHeader = []string{"id", "student_id", "equipment_name", "action", "timestamp"}

func csvEncoder(name string) (*encoding.Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CSVEncodingUTF8, "utf8":
		// Excel が UTF-8 と判定できるよう BOM を付ける
		return unicode.UTF8BOM.NewEncoder(), nil
	case CSVEncodingShiftJIS, "sjis", "cp932":
		// CP932 に無い文字は置換して出力を止めない
		return encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder()), nil
	}
	return nil, apierr.ErrInvalid(fmt.Sprintf("unsupported csv encoding %q", name))
}

// writeCSV は entries をヘッダ付き CSV で w に書き出す
func writeCSV(w io.Writer, entries []Entry, enc *encoding.Encoder) error {
	tw := transform.NewWriter(w, enc)
	cw := csv.NewWriter(tw)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			e.StudentID,
			e.EquipmentName,
			string(e.Action),
			e.Timestamp.UTC().Format(csvTimeLayout),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return tw.Close()
}
