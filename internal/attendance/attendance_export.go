package attendance

import (
	"bytes"
	"context"
	"fmt"

	attendanceerrors "go-school/internal/attendance/errors"
	"go-school/internal/domain"
	"go-school/internal/shared/contextutil"
	"go-school/internal/stats"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	exportSheet  = "Attendance"
	summarySheet = "Summary"
)

var exportHeader = []string{"Date", "Time", "Student ID", "Student", "Class", "Lesson", "Status", "Present"}

// Export writes the filtered, role-scoped records as an xlsx workbook with a
// summary sheet. The handler sets the download headers.
func (s *service) Export(ctx context.Context, p domain.Principal, q ListQuery) (*bytes.Buffer, string, error) {
	_, rows, err := s.findAll(ctx, p, q)
	if err != nil {
		return nil, "", err
	}
	log := contextutil.GetLogger(ctx, s.logger)

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		log.Error("create export sheet failed", zap.Error(err))
		return nil, "", attendanceerrors.ErrExportFailed
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range exportHeader {
		f.SetCellValue(exportSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(exportSheet, "A1", cell(colName(len(exportHeader)-1), 1), headerStyle)
	f.SetColWidth(exportSheet, "A", "B", 12)
	f.SetColWidth(exportSheet, "C", "F", 20)

	for i, a := range rows {
		row := i + 2
		studentName, classID, lessonName := "", "", ""
		if a.Student != nil {
			studentName = a.Student.Name + " " + a.Student.Surname
			classID = fmt.Sprint(a.Student.ClassID)
		}
		if a.Lesson != nil {
			lessonName = a.Lesson.Name
		}
		present := "no"
		if a.Present {
			present = "yes"
		}

		values := []any{
			a.Date.Format("2006-01-02"),
			a.Date.Format("15:04"),
			a.StudentID,
			studentName,
			classID,
			lessonName,
			a.CurrentStatus().String(),
			present,
		}
		for c, v := range values {
			f.SetCellValue(exportSheet, cell(colName(c), row), v)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		log.Error("create summary sheet failed", zap.Error(err))
		return nil, "", attendanceerrors.ErrExportFailed
	}
	summary := stats.Summarize(s.toMarks(rows), true)
	compensation := 0
	if summary.Compensation != nil {
		compensation = *summary.Compensation
	}
	summaryRows := [][]any{
		{"Total", summary.Total},
		{"Present", summary.Present},
		{"Absent", summary.Absent},
		{"Compensation", compensation},
		{"Effective", summary.Effective},
		{"Attendance rate", summary.Display()},
	}
	for i, r := range summaryRows {
		f.SetCellValue(summarySheet, cell("A", i+1), r[0])
		f.SetCellValue(summarySheet, cell("B", i+1), r[1])
	}
	f.SetCellStyle(summarySheet, "A1", cell("A", len(summaryRows)), headerStyle)
	f.SetColWidth(summarySheet, "A", "A", 18)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		log.Error("write export failed", zap.Error(err))
		return nil, "", attendanceerrors.ErrExportFailed
	}

	filename := fmt.Sprintf("attendance_%s.xlsx", s.now().In(s.loc).Format("20060102"))
	return buf, filename, nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
