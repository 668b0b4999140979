package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"leavedesk-backend/internal/domain"
)

var historyHeader = []string{"ID", "Employee", "Type", "Start", "End", "Days", "Status", "Applied", "Reviewed By", "Reviewed", "Reason", "Comments"}

func (h LeaveHandler) exportHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}
	rng, ok := parseDateRange(w, r)
	if !ok {
		return
	}
	items, err := h.Service.History(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	items = rng.apply(items)

	filenameSuffix := time.Now().Format("20060102_150405")
	if rng.From != nil && rng.To != nil {
		filenameSuffix = fmt.Sprintf("%s_%s", rng.From.Format("20060102"), rng.To.Format("20060102"))
	}

	switch format {
	case "csv":
		data, err := exportHistoryCSV(items)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"leave_history_%s.csv\"", filenameSuffix))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := exportHistoryXLSX(items)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"leave_history_%s.xlsx\"", filenameSuffix))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

func historyRow(it domain.LeaveRequest) []string {
	return []string{
		it.ID,
		it.EmployeeName,
		string(it.LeaveType),
		it.StartDate.String(),
		it.EndDate.String(),
		strconv.Itoa(it.TotalDays),
		string(it.Status),
		it.AppliedDate.String(),
		it.ReviewedBy,
		it.ReviewedDate.String(),
		it.Reason,
		it.Comments,
	}
}

func exportHistoryCSV(items []domain.LeaveRequest) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if err := w.Write(historyHeader); err != nil {
		return nil, err
	}
	for _, it := range items {
		if err := w.Write(historyRow(it)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportHistoryXLSX(items []domain.LeaveRequest) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "History"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	_ = f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range historyHeader {
		if err := setCell(f, sheet, c+1, 1, v); err != nil {
			return nil, err
		}
	}
	for r, it := range items {
		for c, v := range historyRow(it) {
			var value any = v
			if c == 5 {
				value = it.TotalDays
			}
			if err := setCell(f, sheet, c+1, r+2, value); err != nil {
				return nil, err
			}
		}
	}

	for _, w := range []struct {
		from, to string
		width    float64
	}{{"A", "A", 38}, {"B", "B", 22}, {"C", "J", 12}, {"K", "L", 36}} {
		if err := f.SetColWidth(sheet, w.from, w.to, w.width); err != nil {
			return nil, err
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "L1", style); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}
