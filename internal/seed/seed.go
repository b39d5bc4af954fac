package seed

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/repository"
)

// SeedRealData 从 CSV 中导入真实的员工名单，并为当前一周生成班次和工作计划。
// CSV 的表头为：姓名,角色,类别,电话,邮箱
func SeedRealData(r *repository.Repository) {
	file, err := os.Open("./internal/seed/data/employees.csv")
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		slog.Error("读取表头失败", "error", err)
		return
	}
	if len(headers) < 5 {
		slog.Error("表头列数不足", "headers", headers)
		return
	}

	employees := make([]*domain.Employee, 0)
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			slog.Error("读取文件失败", "error", err)
			return
		}

		employee := &domain.Employee{
			Name:     row[0],
			Role:     row[1],
			Category: row[2],
			Phone:    row[3],
			Email:    row[4],
		}

		if err := r.CreateEmployee(employee); err != nil {
			slog.Error("插入员工失败", "name", employee.Name, "error", err)
			continue
		}
		employees = append(employees, employee)
	}

	if len(employees) == 0 {
		slog.Error("没有导入任何员工")
		return
	}

	// 为本周的每一天生成三个班次，员工按顺序轮换
	shiftTypes := []string{
		domain.ShiftTypeMorning,
		domain.ShiftTypeAfternoon,
		domain.ShiftTypeEvening,
	}

	now := time.Now().UTC()
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for monday.Weekday() != time.Monday {
		monday = monday.AddDate(0, 0, -1)
	}

	next := 0
	for day := 0; day < 7; day++ {
		date := monday.AddDate(0, 0, day)

		for _, shiftType := range shiftTypes {
			shift := &domain.Shift{
				Date:        date,
				ShiftType:   shiftType,
				Assignments: make([]domain.Assignment, 0, 2),
			}
			for i := 0; i < 2; i++ {
				shift.Assignments = append(shift.Assignments, domain.Assignment{
					EmployeeID: employees[next%len(employees)].ID,
					Tasks:      []string{},
				})
				next++
			}

			if err := r.UpsertShift(shift); err != nil {
				slog.Error("插入班次失败", "date", date, "shiftType", shiftType, "error", err)
			}
		}

		plan := &domain.WorkPlan{
			Date:         date,
			GeneralTasks: []string{"交接班记录", "装备清点"},
			ShiftTasks: map[string][]string{
				domain.ShiftTypeMorning:   {"门岗执勤"},
				domain.ShiftTypeAfternoon: {"辖区巡逻"},
				domain.ShiftTypeEvening:   {"视频巡查"},
			},
		}
		if err := r.UpsertWorkPlan(plan); err != nil {
			slog.Error("插入工作计划失败", "date", date, "error", err)
		}
	}

	slog.Info("插入数据完成", "employees", len(employees))
}
